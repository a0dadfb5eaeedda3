package ml

import (
	"fmt"
	"sync"
)

// MockMetrics implements MetricsInterface for testing
type MockMetrics struct {
	mu               sync.Mutex
	predictions      int
	failures         int
	latencySum       float64
	latencyCount     int
	fallbackUse      int
	predictionScores []float64
}

func (m *MockMetrics) PredictionsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions++
}

func (m *MockMetrics) PredictionErrorsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *MockMetrics) PredictionLatencyObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencySum += v
	m.latencyCount++
}

func (m *MockMetrics) PredictionScoresObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionScores = append(m.predictionScores, v)
}

func (m *MockMetrics) FallbackUseInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbackUse++
}

// ConstantClassifier always returns the same transit probability. Tests in
// other packages use it to pin the pipeline output.
type ConstantClassifier struct {
	P     float64
	Width int
}

func (c ConstantClassifier) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(c.Width, x); err != nil {
		return nil, err
	}
	return []float64{1 - c.P, c.P}, nil
}

func (c ConstantClassifier) NumFeatures() int { return c.Width }

func (c ConstantClassifier) Kind() string { return "constant" }

// IdentityScaler passes features through unchanged.
type IdentityScaler struct {
	Width int
}

func (s IdentityScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(s.Width, x); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	copy(out, x)
	return out, nil
}

func (s IdentityScaler) NumFeatures() int { return s.Width }

// panicClassifier simulates a broken model implementation.
type panicClassifier struct{ width int }

func (p panicClassifier) PredictProba(x []float64) ([]float64, error) {
	panic(fmt.Sprintf("boom on %d features", len(x)))
}

func (p panicClassifier) NumFeatures() int { return p.width }

func (p panicClassifier) Kind() string { return "panic" }
