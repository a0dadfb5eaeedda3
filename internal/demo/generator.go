// Package demo produces synthetic TESS-like light curves for the interactive
// client. Nothing here touches the real inference path: the probabilities it
// reports are simulated and must not be read as model output.
package demo

import (
	"math/rand"
)

const (
	DefaultSamples = 1000
	DefaultSpan    = 27.4 // days, one TESS sector
	DefaultNoise   = 0.01
)

// Transit window bounds, in days and relative flux.
const (
	MinTransitStart    = 5.0
	MaxTransitStart    = 20.0
	MinTransitDuration = 0.1
	MaxTransitDuration = 0.5
	MinTransitDepth    = 0.005
	MaxTransitDepth    = 0.03
)

// Options controls Generate. Zero values take the defaults above.
type Options struct {
	Samples int
	Span    float64
	Noise   float64
	Transit bool
}

// Transit describes the injected dip.
type Transit struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Depth    float64 `json:"depth"`
}

// Mid returns the centre of the transit window.
func (t Transit) Mid() float64 {
	return t.Start + t.Duration/2
}

// LightCurve is a sampled flux series.
type LightCurve struct {
	Time    []float64 `json:"time"`
	Flux    []float64 `json:"flux"`
	Transit *Transit  `json:"transit,omitempty"`
}

// Generate builds a noisy flat light curve and, when requested, lowers a
// contiguous window of it by a random depth.
func Generate(opts Options, rng *rand.Rand) LightCurve {
	if opts.Samples <= 0 {
		opts.Samples = DefaultSamples
	}
	if opts.Span <= 0 {
		opts.Span = DefaultSpan
	}
	if opts.Noise <= 0 {
		opts.Noise = DefaultNoise
	}

	lc := LightCurve{
		Time: linspace(0, opts.Span, opts.Samples),
		Flux: make([]float64, opts.Samples),
	}
	for i := range lc.Flux {
		lc.Flux[i] = 1 + opts.Noise*rng.NormFloat64()
	}

	if !opts.Transit {
		return lc
	}

	tr := Transit{
		Start:    uniform(rng, MinTransitStart, MaxTransitStart),
		Duration: uniform(rng, MinTransitDuration, MaxTransitDuration),
		Depth:    uniform(rng, MinTransitDepth, MaxTransitDepth),
	}
	end := tr.Start + tr.Duration
	for i, t := range lc.Time {
		if t >= tr.Start && t <= end {
			lc.Flux[i] -= tr.Depth
		}
	}
	lc.Transit = &tr
	return lc
}

// SimulatedProbability returns a made-up detection probability for display
// next to a generated curve.
func SimulatedProbability(hasTransit bool, rng *rand.Rand) float64 {
	if hasTransit {
		return uniform(rng, 0.7, 0.95)
	}
	return uniform(rng, 0.05, 0.3)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
