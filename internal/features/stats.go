package features

import (
	"errors"
	"math"
	"sort"
)

// DipSigma is how many standard deviations below the mean a point must fall
// to count as a deep dip.
const DipSigma = 3.0

var ErrEmptySeries = errors.New("flux series is empty")

// Extract computes the feature vector of a light curve.
func Extract(flux []float64) (FeatureVector, error) {
	n := len(flux)
	if n == 0 {
		return FeatureVector{}, ErrEmptySeries
	}
	for _, f := range flux {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return FeatureVector{}, errors.New("flux series contains non-finite values")
		}
	}

	sorted := make([]float64, n)
	copy(sorted, flux)
	sort.Float64s(sorted)

	mean := 0.0
	for _, f := range flux {
		mean += f
	}
	mean /= float64(n)

	// central moments
	var m2, m3, m4 float64
	for _, f := range flux {
		d := f - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= float64(n)
	m3 /= float64(n)
	m4 /= float64(n)
	std := math.Sqrt(m2)

	var skew, kurt float64
	if m2 > 0 {
		skew = m3 / math.Pow(m2, 1.5)
		kurt = m4 / (m2 * m2)
	}

	dips := 0
	cutoff := mean - DipSigma*std
	for _, f := range flux {
		if f < cutoff {
			dips++
		}
	}

	avgChange := 0.0
	if n > 1 {
		for i := 1; i < n; i++ {
			avgChange += math.Abs(flux[i] - flux[i-1])
		}
		avgChange /= float64(n - 1)
	}

	return FeatureVector{
		MeanFlux:   mean,
		StdFlux:    std,
		MedianFlux: Percentile(sorted, 0.5),
		MinFlux:    sorted[0],
		MaxFlux:    sorted[n-1],
		P25:        Percentile(sorted, 0.25),
		P75:        Percentile(sorted, 0.75),
		P90:        Percentile(sorted, 0.90),
		DeepDips:   float64(dips),
		AvgChange:  avgChange,
		Length:     float64(n),
		Variance:   m2,
		Skewness:   skew,
		Kurtosis:   kurt,
	}, nil
}

// Percentile interpolates linearly between the closest ranks of an ascending
// slice. q is in [0,1].
func Percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
