package ml

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// Engine runs the predict pipeline against an immutable Models value.
type Engine struct {
	models  *Models
	metrics MetricsInterface
}

// NewEngine binds the pipeline to models. metrics may be nil.
func NewEngine(models *Models, metrics MetricsInterface) *Engine {
	return &Engine{models: models, metrics: metrics}
}

// Models returns the state the engine predicts with.
func (e *Engine) Models() *Models {
	if e == nil {
		return nil
	}
	return e.models
}

// ModelLoaded reports whether predict can run.
func (e *Engine) ModelLoaded() bool {
	return e != nil && e.models.Loaded()
}

// Predict scores a single feature vector. It returns ErrModelNotLoaded when
// no classifier is available and an *InferenceError for every other failure.
func (e *Engine) Predict(ctx context.Context, features []float64) (res Result, err error) {
	if !e.ModelLoaded() {
		return Result{}, ErrModelNotLoaded
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("classifier panicked")
			res, err = Result{}, &InferenceError{Err: fmt.Errorf("classifier panic: %v", r)}
		}
		e.record(time.Since(start), res, err)
	}()

	if err := ctx.Err(); err != nil {
		return Result{}, &InferenceError{Err: err}
	}

	p, err := e.transitProbability(features)
	if err != nil {
		return Result{}, &InferenceError{Err: err}
	}
	return NewResult(p), nil
}

func (e *Engine) transitProbability(x []float64) (float64, error) {
	m := e.models

	// x is a single sample; its width must match what the model was fit with
	if err := checkWidth(m.Classifier.NumFeatures(), x); err != nil {
		return 0, err
	}

	if m.Scaler != nil {
		scaled, err := m.Scaler.Transform(x)
		if err != nil {
			return 0, fmt.Errorf("scale features: %w", err)
		}
		x = scaled
	}

	proba, err := m.Classifier.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if len(proba) < 2 {
		return 0, fmt.Errorf("expected 2 class probabilities, got %d", len(proba))
	}

	p := proba[1]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidProbability, p)
	}
	return p, nil
}

func (e *Engine) record(latency time.Duration, res Result, err error) {
	if e.metrics == nil {
		return
	}
	e.metrics.PredictionLatencyObserve(latency.Seconds())
	if err != nil {
		e.metrics.PredictionErrorsInc()
		return
	}
	e.metrics.PredictionsInc()
	e.metrics.PredictionScoresObserve(res.TransitProbability)
	if e.models.Fallback {
		e.metrics.FallbackUseInc()
	}
}
