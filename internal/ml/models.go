package ml

import "time"

// Models is the process-wide model state. It is built once at startup and
// never mutated afterwards.
type Models struct {
	Classifier     Classifier
	Scaler         Scaler // nil when no scaler is configured or it failed to load
	ClassifierMeta ArtifactMeta
	ScalerMeta     *ArtifactMeta
	Fallback       bool
	LoadedAt       time.Time
}

// NewFallbackModels returns the degraded state used when acquisition fails.
func NewFallbackModels() *Models {
	fb := NewFallbackClassifier()
	return &Models{
		Classifier: fb,
		ClassifierMeta: ArtifactMeta{
			Kind:      fb.Kind(),
			Version:   "fallback",
			NFeatures: fb.NumFeatures(),
		},
		Fallback: true,
		LoadedAt: time.Now(),
	}
}

// Loaded reports whether a classifier (real or fallback) is available.
func (m *Models) Loaded() bool {
	return m != nil && m.Classifier != nil
}
