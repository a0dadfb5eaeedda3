// Package ml provides the transit classifier used by the prediction service.
// It includes the classifier and scaler interfaces, the concrete model kinds
// that can be decoded from a JSON artifact, the degenerate fallback classifier
// used when no artifact can be loaded, and the Engine that runs the predict
// pipeline (width check, scaling, inference, labeling).
//
// Models are immutable once loaded. Every type in this package is safe for
// concurrent use without locking on the prediction path.
package ml

// Classifier is a fitted binary-probability model.
type Classifier interface {
	// PredictProba returns [p(no transit), p(transit)] for a single sample.
	PredictProba(x []float64) ([]float64, error)

	// NumFeatures is the sample width the model was fit with.
	NumFeatures() int

	// Kind names the model family, e.g. "logistic_regression".
	Kind() string
}

// Scaler is a fitted feature transform applied before inference.
type Scaler interface {
	Transform(x []float64) ([]float64, error)
	NumFeatures() int
}

// MetricsInterface defines the metrics the prediction pipeline reports.
type MetricsInterface interface {
	PredictionsInc()
	PredictionErrorsInc()
	PredictionLatencyObserve(float64)
	PredictionScoresObserve(float64)
	FallbackUseInc()
}

func checkWidth(want int, x []float64) error {
	if len(x) != want {
		return &DimensionError{Expected: want, Got: len(x)}
	}
	return nil
}
