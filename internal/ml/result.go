package ml

import (
	"math"

	"exoplanet-detector/internal/common"
)

const (
	// DecisionThreshold separates the two labels; a probability equal to it is "not detected".
	DecisionThreshold = 0.5

	// ConfidenceMargin is the distance from DecisionThreshold beyond which a result is High.
	ConfidenceMargin = 0.3

	// float64 cannot represent 0.2 and 0.8 exactly, so |p-0.5| lands on either
	// side of 0.3 at the two boundaries. Both boundaries count as High.
	marginTolerance = 1e-9
)

// Result is the labeled outcome of one prediction.
type Result struct {
	TransitProbability float64 `json:"transit_probability"`
	Prediction         string  `json:"prediction"`
	Confidence         string  `json:"confidence"`
}

// NewResult derives the label and confidence for p.
func NewResult(p float64) Result {
	return Result{
		TransitProbability: p,
		Prediction:         LabelFor(p),
		Confidence:         ConfidenceFor(p),
	}
}

// LabelFor returns the detection label for a transit probability.
func LabelFor(p float64) string {
	if p > DecisionThreshold {
		return common.LabelDetected
	}
	return common.LabelNotDetected
}

// ConfidenceFor returns "High" when p is far from the decision threshold, else "Medium".
func ConfidenceFor(p float64) string {
	if math.Abs(p-DecisionThreshold) > ConfidenceMargin-marginTolerance {
		return common.ConfidenceHigh
	}
	return common.ConfidenceMedium
}

// Detected reports whether the result carries the positive label.
func (r Result) Detected() bool {
	return r.TransitProbability > DecisionThreshold
}
