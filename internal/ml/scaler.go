package ml

import "fmt"

const (
	KindStandardScaler = "standard"
	KindMinMaxScaler   = "minmax"
)

// StandardScaler computes (x - mean) / scale per feature.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 || len(mean) != len(scale) {
		return nil, fmt.Errorf("standard scaler: mean has %d values, scale has %d", len(mean), len(scale))
	}
	s := &StandardScaler{
		mean:  append([]float64(nil), mean...),
		scale: append([]float64(nil), scale...),
	}
	// constant features were fit with zero variance
	for i, v := range s.scale {
		if v == 0 {
			s.scale[i] = 1
		}
	}
	return s, nil
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(len(s.mean), x); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

func (s *StandardScaler) NumFeatures() int { return len(s.mean) }

// MinMaxScaler maps each feature's fitted [min, max] onto a target range.
type MinMaxScaler struct {
	dataMin []float64
	dataMax []float64
	lo, hi  float64
}

func NewMinMaxScaler(dataMin, dataMax []float64, featureRange [2]float64) (*MinMaxScaler, error) {
	if len(dataMin) == 0 || len(dataMin) != len(dataMax) {
		return nil, fmt.Errorf("minmax scaler: data_min has %d values, data_max has %d", len(dataMin), len(dataMax))
	}
	if featureRange == [2]float64{} {
		featureRange = [2]float64{0, 1}
	}
	if featureRange[0] >= featureRange[1] {
		return nil, fmt.Errorf("minmax scaler: invalid feature range %v", featureRange)
	}
	return &MinMaxScaler{
		dataMin: append([]float64(nil), dataMin...),
		dataMax: append([]float64(nil), dataMax...),
		lo:      featureRange[0],
		hi:      featureRange[1],
	}, nil
}

func (s *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(len(s.dataMin), x); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		span := s.dataMax[i] - s.dataMin[i]
		if span == 0 {
			span = 1
		}
		out[i] = (v-s.dataMin[i])/span*(s.hi-s.lo) + s.lo
	}
	return out, nil
}

func (s *MinMaxScaler) NumFeatures() int { return len(s.dataMin) }
