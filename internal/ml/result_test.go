package ml

import (
	"testing"

	"exoplanet-detector/internal/common"
)

func TestLabelFor(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, common.LabelNotDetected},
		{0.3, common.LabelNotDetected},
		{0.5, common.LabelNotDetected},
		{0.5000001, common.LabelDetected},
		{0.9, common.LabelDetected},
		{1, common.LabelDetected},
	}
	for _, tt := range tests {
		if got := LabelFor(tt.p); got != tt.want {
			t.Errorf("LabelFor(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0.8, common.ConfidenceHigh},
		{0.2, common.ConfidenceHigh},
		{0.79, common.ConfidenceMedium},
		{0.21, common.ConfidenceMedium},
		{0.5, common.ConfidenceMedium},
		{0.4, common.ConfidenceMedium},
		{0.9, common.ConfidenceHigh},
		{0.0, common.ConfidenceHigh},
		{1.0, common.ConfidenceHigh},
	}
	for _, tt := range tests {
		if got := ConfidenceFor(tt.p); got != tt.want {
			t.Errorf("ConfidenceFor(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

// Sweeps [0,1] and checks the labeling invariants hold everywhere.
func TestResult_Invariants(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		p := float64(i) / 1000
		r := NewResult(p)

		if (r.Prediction == common.LabelDetected) != (p > 0.5) {
			t.Fatalf("p=%v: label %q violates threshold", p, r.Prediction)
		}
		if r.Detected() != (p > 0.5) {
			t.Fatalf("p=%v: Detected() = %v", p, r.Detected())
		}
		if r.Confidence != common.ConfidenceHigh && r.Confidence != common.ConfidenceMedium {
			t.Fatalf("p=%v: unexpected confidence tier %q", p, r.Confidence)
		}
		d := p - 0.5
		if d < 0 {
			d = -d
		}
		if d > 0.3001 && r.Confidence != common.ConfidenceHigh {
			t.Fatalf("p=%v: expected High", p)
		}
		if d < 0.2999 && r.Confidence != common.ConfidenceMedium {
			t.Fatalf("p=%v: expected Medium", p)
		}
	}
}
