package ml

import (
	"fmt"
	"math"
)

const KindLogisticRegression = "logistic_regression"

// LogisticRegression is a fitted linear model with a sigmoid link.
type LogisticRegression struct {
	coef      []float64
	intercept float64
}

// NewLogisticRegression copies coef so later mutation by the caller cannot leak in.
func NewLogisticRegression(coef []float64, intercept float64) (*LogisticRegression, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("logistic regression: empty coefficient vector")
	}
	c := make([]float64, len(coef))
	copy(c, coef)
	return &LogisticRegression{coef: c, intercept: intercept}, nil
}

func (m *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(len(m.coef), x); err != nil {
		return nil, err
	}
	z := m.intercept
	for i, w := range m.coef {
		z += w * x[i]
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func (m *LogisticRegression) NumFeatures() int { return len(m.coef) }

func (m *LogisticRegression) Kind() string { return KindLogisticRegression }

// sigmoid converts a score to a probability
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
