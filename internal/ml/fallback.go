package ml

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"

	"exoplanet-detector/internal/features"
)

const (
	KindFallback = "fallback_uniform"

	fallbackSeed = 42
)

// FallbackClassifier is the stand-in used when no artifact could be loaded.
// It returns a uniform random probability pair, so its output carries no
// meaning. The draw is seeded from the input, which keeps repeated identical
// requests bit-identical.
type FallbackClassifier struct {
	nFeatures int
}

// NewFallbackClassifier returns a fallback already fit on the trivial example
// [1..14] with label 0, so it is callable immediately.
func NewFallbackClassifier() *FallbackClassifier {
	sample := make([]float64, features.Count)
	for i := range sample {
		sample[i] = float64(i + 1)
	}
	f := &FallbackClassifier{}
	f.Fit([][]float64{sample}, []int{0})
	return f
}

// Fit only records the sample width; there is nothing to learn.
func (f *FallbackClassifier) Fit(x [][]float64, _ []int) {
	if len(x) > 0 {
		f.nFeatures = len(x[0])
	}
}

func (f *FallbackClassifier) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(f.nFeatures, x); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(fallbackSeed ^ inputSeed(x)))
	p := rng.Float64()
	return []float64{1 - p, p}, nil
}

func (f *FallbackClassifier) NumFeatures() int { return f.nFeatures }

func (f *FallbackClassifier) Kind() string { return KindFallback }

func inputSeed(x []float64) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range x {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return int64(h.Sum64())
}
