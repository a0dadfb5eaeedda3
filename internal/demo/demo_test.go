package demo

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"exoplanet-detector/internal/features"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWithoutTransit(t *testing.T) {
	lc := Generate(Options{}, rand.New(rand.NewSource(1)))

	require.Len(t, lc.Time, DefaultSamples)
	require.Len(t, lc.Flux, DefaultSamples)
	assert.Nil(t, lc.Transit)
	assert.Equal(t, 0.0, lc.Time[0])
	assert.Equal(t, DefaultSpan, lc.Time[len(lc.Time)-1])

	fv, err := features.Extract(lc.Flux)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fv.MeanFlux, 0.002)
	assert.InDelta(t, 0.01, fv.StdFlux, 0.002)
}

func TestGenerateWithTransit(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		lc := Generate(Options{Transit: true, Noise: 1e-9}, rng)
		require.NotNil(t, lc.Transit)

		tr := *lc.Transit
		assert.GreaterOrEqual(t, tr.Start, MinTransitStart)
		assert.Less(t, tr.Start, MaxTransitStart)
		assert.GreaterOrEqual(t, tr.Duration, MinTransitDuration)
		assert.Less(t, tr.Duration, MaxTransitDuration)
		assert.GreaterOrEqual(t, tr.Depth, MinTransitDepth)
		assert.Less(t, tr.Depth, MaxTransitDepth)

		// with negligible noise the dip is exactly the transit window
		for i, tm := range lc.Time {
			inside := tm >= tr.Start && tm <= tr.Start+tr.Duration
			if inside {
				assert.InDelta(t, 1-tr.Depth, lc.Flux[i], 1e-6)
			} else {
				assert.InDelta(t, 1.0, lc.Flux[i], 1e-6)
			}
		}
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	a := Generate(Options{Transit: true}, rand.New(rand.NewSource(7)))
	b := Generate(Options{Transit: true}, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestSimulatedProbability(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		p := SimulatedProbability(true, rng)
		assert.True(t, p >= 0.7 && p < 0.95, "with transit: %v", p)

		p = SimulatedProbability(false, rng)
		assert.True(t, p >= 0.05 && p < 0.3, "without transit: %v", p)
	}
}

func TestReadFlux(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []float64
		wantErr bool
	}{
		{name: "bare values", input: "1.0\n0.99\n\n1.01\n", want: []float64{1.0, 0.99, 1.01}},
		{name: "csv with header", input: "time,flux\n0.0,1.0\n0.1,0.98\n", want: []float64{1.0, 0.98}},
		{name: "comments and gaps", input: "# tic 123\n0.0,1.0\n0.1,NaN\n0.2,1.02\n", want: []float64{1.0, 1.02}},
		{name: "bad value", input: "1.0\nabc\n", wantErr: true},
		{name: "empty", input: "\n# nothing\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFlux(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil, 10))

	s := Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	assert.Equal(t, "▁▂▃▄▅▆▇█", s)

	lc := Generate(Options{}, rand.New(rand.NewSource(2)))
	assert.Equal(t, 60, utf8.RuneCountInString(Sparkline(lc.Flux, 60)))

	flat := Sparkline([]float64{1, 1, 1}, 10)
	assert.Equal(t, 3, utf8.RuneCountInString(flat))
}
