package ml

import (
	"context"
	"errors"
	"sync"
	"testing"

	"exoplanet-detector/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneToFourteen() []float64 {
	x := make([]float64, 14)
	for i := range x {
		x[i] = float64(i + 1)
	}
	return x
}

func TestEngine_IdentityScalerHighConfidence(t *testing.T) {
	engine := NewEngine(&Models{
		Classifier: ConstantClassifier{P: 0.9, Width: 14},
		Scaler:     IdentityScaler{Width: 14},
	}, nil)

	res, err := engine.Predict(context.Background(), oneToFourteen())
	require.NoError(t, err)
	assert.Equal(t, 0.9, res.TransitProbability)
	assert.Equal(t, common.LabelDetected, res.Prediction)
	assert.Equal(t, common.ConfidenceHigh, res.Confidence)
}

func TestEngine_NoScalerMediumConfidence(t *testing.T) {
	engine := NewEngine(&Models{Classifier: ConstantClassifier{P: 0.4, Width: 14}}, nil)

	res, err := engine.Predict(context.Background(), oneToFourteen())
	require.NoError(t, err)
	assert.Equal(t, 0.4, res.TransitProbability)
	assert.Equal(t, common.LabelNotDetected, res.Prediction)
	assert.Equal(t, common.ConfidenceMedium, res.Confidence)
}

func TestEngine_ScalerIsApplied(t *testing.T) {
	lr, err := NewLogisticRegression([]float64{1, 1}, 0)
	require.NoError(t, err)
	scaler, err := NewStandardScaler([]float64{10, 20}, []float64{1, 1})
	require.NoError(t, err)

	engine := NewEngine(&Models{Classifier: lr, Scaler: scaler}, nil)
	res, err := engine.Predict(context.Background(), []float64{10, 20})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.TransitProbability, 1e-12, "scaled input is all zeros")
}

func TestEngine_WrongLength(t *testing.T) {
	metrics := &MockMetrics{}
	engine := NewEngine(&Models{Classifier: ConstantClassifier{P: 0.9, Width: 14}}, metrics)

	for _, x := range [][]float64{nil, {}, oneToFourteen()[:13], append(oneToFourteen(), 15)} {
		_, err := engine.Predict(context.Background(), x)
		var inf *InferenceError
		require.ErrorAs(t, err, &inf, "len=%d", len(x))
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Contains(t, err.Error(), common.DetailErrorPrefix)
	}
	assert.Equal(t, 4, metrics.failures)
	assert.Equal(t, 0, metrics.predictions)
}

func TestEngine_ModelNotLoaded(t *testing.T) {
	for _, engine := range []*Engine{nil, NewEngine(nil, nil), NewEngine(&Models{}, nil)} {
		_, err := engine.Predict(context.Background(), oneToFourteen())
		assert.ErrorIs(t, err, ErrModelNotLoaded)
		assert.False(t, engine.ModelLoaded())
	}
}

func TestEngine_Idempotent(t *testing.T) {
	lr, err := NewLogisticRegression([]float64{0.1, -0.2, 0.3, -0.4, 0.5, -0.6, 0.7, -0.8, 0.9, -1, 1.1, -1.2, 1.3, -1.4}, 0.05)
	require.NoError(t, err)

	for _, models := range []*Models{{Classifier: lr}, NewFallbackModels()} {
		engine := NewEngine(models, nil)
		first, err := engine.Predict(context.Background(), oneToFourteen())
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := engine.Predict(context.Background(), oneToFourteen())
			require.NoError(t, err)
			assert.Equal(t, first.TransitProbability, again.TransitProbability)
		}
	}
}

func TestEngine_FallbackIsWellFormed(t *testing.T) {
	metrics := &MockMetrics{}
	engine := NewEngine(NewFallbackModels(), metrics)

	res, err := engine.Predict(context.Background(), oneToFourteen())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.TransitProbability, 0.0)
	assert.LessOrEqual(t, res.TransitProbability, 1.0)
	assert.Equal(t, LabelFor(res.TransitProbability), res.Prediction)
	assert.Equal(t, ConfidenceFor(res.TransitProbability), res.Confidence)
	assert.Equal(t, 1, metrics.fallbackUse)
}

type badProbClassifier struct{ out []float64 }

func (b badProbClassifier) PredictProba(x []float64) ([]float64, error) { return b.out, nil }
func (b badProbClassifier) NumFeatures() int                            { return 14 }
func (b badProbClassifier) Kind() string                                { return "bad" }

func TestEngine_InvalidClassifierOutput(t *testing.T) {
	for _, out := range [][]float64{{0.5}, {-0.5, 1.5}, {2, -1}} {
		engine := NewEngine(&Models{Classifier: badProbClassifier{out: out}}, nil)
		_, err := engine.Predict(context.Background(), oneToFourteen())
		var inf *InferenceError
		assert.ErrorAs(t, err, &inf, "out=%v", out)
	}
}

func TestEngine_RecoversClassifierPanic(t *testing.T) {
	metrics := &MockMetrics{}
	engine := NewEngine(&Models{Classifier: panicClassifier{width: 14}}, metrics)

	_, err := engine.Predict(context.Background(), oneToFourteen())
	var inf *InferenceError
	require.ErrorAs(t, err, &inf)
	assert.Contains(t, err.Error(), "classifier panic")
	assert.Equal(t, 1, metrics.failures)
}

func TestEngine_CancelledContext(t *testing.T) {
	engine := NewEngine(&Models{Classifier: ConstantClassifier{P: 0.9, Width: 14}}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Predict(ctx, oneToFourteen())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEngine_MetricsTracking(t *testing.T) {
	metrics := &MockMetrics{}
	engine := NewEngine(&Models{Classifier: ConstantClassifier{P: 0.7, Width: 14}}, metrics)

	for i := 0; i < 3; i++ {
		_, err := engine.Predict(context.Background(), oneToFourteen())
		require.NoError(t, err)
	}

	assert.Equal(t, 3, metrics.predictions)
	assert.Equal(t, 3, metrics.latencyCount)
	assert.Equal(t, []float64{0.7, 0.7, 0.7}, metrics.predictionScores)
	assert.Equal(t, 0, metrics.fallbackUse)
}

func TestEngine_Concurrency(t *testing.T) {
	metrics := &MockMetrics{}
	engine := NewEngine(NewFallbackModels(), metrics)

	numGoroutines := 10
	numCalls := 100

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numCalls; j++ {
				if _, err := engine.Predict(context.Background(), oneToFourteen()); err != nil {
					t.Errorf("predict failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, numGoroutines*numCalls, metrics.predictions)
}
