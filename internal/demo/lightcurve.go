package demo

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var ErrNoSamples = errors.New("light curve has no samples")

// ReadFlux parses a light curve from r. Each non-empty line is either a bare
// flux value or a "time,flux" CSV row; a header row and lines starting with
// '#' are skipped.
func ReadFlux(r io.Reader) ([]float64, error) {
	var (
		flux   []float64
		lineNo int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := csv.NewReader(strings.NewReader(line)).Read()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		raw := strings.TrimSpace(fields[len(fields)-1])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			if len(flux) == 0 && isHeader(fields) {
				continue
			}
			return nil, fmt.Errorf("line %d: invalid flux %q", lineNo, raw)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			// gaps in TESS exports are written as NaN
			continue
		}
		flux = append(flux, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read light curve: %w", err)
	}
	if len(flux) == 0 {
		return nil, ErrNoSamples
	}
	return flux, nil
}

func isHeader(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(strings.TrimSpace(f), 64); err == nil {
			return false
		}
	}
	return true
}

// Sparkline renders values as a one-line block chart of at most width cells.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	levels := []rune("▁▂▃▄▅▆▇█")

	buckets := width
	if len(values) < buckets {
		buckets = len(values)
	}
	means := make([]float64, buckets)
	for b := range means {
		lo := b * len(values) / buckets
		hi := (b + 1) * len(values) / buckets
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		means[b] = sum / float64(hi-lo)
	}

	lo, hi := means[0], means[0]
	for _, m := range means {
		lo = math.Min(lo, m)
		hi = math.Max(hi, m)
	}

	var sb strings.Builder
	for _, m := range means {
		idx := 0
		if hi > lo {
			idx = int(math.Round((m - lo) / (hi - lo) * float64(len(levels)-1)))
		}
		sb.WriteRune(levels[idx])
	}
	return sb.String()
}
