// Package features defines the fixed light-curve feature schema consumed by the
// transit classifier and the statistics used to derive it from a flux series.
package features

import "fmt"

// Count is the width of every feature vector the service accepts.
const Count = 14

// Names lists the features in the order the model was fit with.
var Names = [Count]string{
	"mean_flux",
	"std_flux",
	"median_flux",
	"min_flux",
	"max_flux",
	"p25",
	"p75",
	"p90",
	"deep_dips",
	"avg_change",
	"length",
	"variance",
	"skewness",
	"kurtosis",
}

// FeatureVector is the summary of a single light curve. Field order matches Names.
type FeatureVector struct {
	MeanFlux   float64 `json:"mean_flux"`
	StdFlux    float64 `json:"std_flux"`
	MedianFlux float64 `json:"median_flux"`
	MinFlux    float64 `json:"min_flux"`
	MaxFlux    float64 `json:"max_flux"`
	P25        float64 `json:"p25"`
	P75        float64 `json:"p75"`
	P90        float64 `json:"p90"`
	DeepDips   float64 `json:"deep_dips"`
	AvgChange  float64 `json:"avg_change"`
	Length     float64 `json:"length"`
	Variance   float64 `json:"variance"`
	Skewness   float64 `json:"skewness"`
	Kurtosis   float64 `json:"kurtosis"`
}

// Slice returns the values in canonical order.
func (v FeatureVector) Slice() []float64 {
	return []float64{
		v.MeanFlux, v.StdFlux, v.MedianFlux, v.MinFlux, v.MaxFlux,
		v.P25, v.P75, v.P90, v.DeepDips, v.AvgChange,
		v.Length, v.Variance, v.Skewness, v.Kurtosis,
	}
}

// FromSlice builds a FeatureVector from values in canonical order.
func FromSlice(values []float64) (FeatureVector, error) {
	if len(values) != Count {
		return FeatureVector{}, fmt.Errorf("expected %d features, got %d", Count, len(values))
	}
	return FeatureVector{
		MeanFlux:   values[0],
		StdFlux:    values[1],
		MedianFlux: values[2],
		MinFlux:    values[3],
		MaxFlux:    values[4],
		P25:        values[5],
		P75:        values[6],
		P90:        values[7],
		DeepDips:   values[8],
		AvgChange:  values[9],
		Length:     values[10],
		Variance:   values[11],
		Skewness:   values[12],
		Kurtosis:   values[13],
	}, nil
}

// Defaults returns the manual-entry starting point: a quiet star with no dips.
func Defaults() FeatureVector {
	return FeatureVector{
		MeanFlux:   1.0,
		StdFlux:    0.01,
		MedianFlux: 1.0,
		MinFlux:    0.98,
		MaxFlux:    1.02,
		P25:        0.99,
		P75:        1.01,
		P90:        1.015,
		DeepDips:   0,
		AvgChange:  0.0,
		Length:     1000,
		Variance:   0.0001,
		Skewness:   0.0,
		Kurtosis:   3.0,
	}
}
