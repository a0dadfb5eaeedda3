package ml

import (
	"encoding/json"
	"fmt"
	"time"
)

// ArtifactMeta describes a loaded model artifact.
type ArtifactMeta struct {
	Kind         string    `json:"kind"`
	Version      string    `json:"version"`
	TrainedAt    time.Time `json:"trained_at"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	NFeatures    int       `json:"n_features"`
	Source       string    `json:"source,omitempty"`
}

type classifierDoc struct {
	ArtifactMeta
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	Trees     []Tree    `json:"trees"`
}

type scalerDoc struct {
	ArtifactMeta
	Mean         []float64  `json:"mean"`
	Scale        []float64  `json:"scale"`
	DataMin      []float64  `json:"data_min"`
	DataMax      []float64  `json:"data_max"`
	FeatureRange [2]float64 `json:"feature_range"`
}

// DecodeClassifier parses a classifier artifact.
func DecodeClassifier(data []byte) (Classifier, ArtifactMeta, error) {
	var doc classifierDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ArtifactMeta{}, fmt.Errorf("parse classifier artifact: %w", err)
	}

	var (
		c   Classifier
		err error
	)
	switch doc.Kind {
	case KindLogisticRegression:
		c, err = NewLogisticRegression(doc.Coef, doc.Intercept)
	case KindRandomForest:
		c, err = NewRandomForest(doc.Trees, doc.NFeatures)
	default:
		return nil, ArtifactMeta{}, fmt.Errorf("classifier %q: %w", doc.Kind, ErrUnknownKind)
	}
	if err != nil {
		return nil, ArtifactMeta{}, err
	}

	meta, err := finishMeta(doc.ArtifactMeta, c.NumFeatures())
	if err != nil {
		return nil, ArtifactMeta{}, fmt.Errorf("classifier artifact: %w", err)
	}
	return c, meta, nil
}

// DecodeScaler parses a scaler artifact.
func DecodeScaler(data []byte) (Scaler, ArtifactMeta, error) {
	var doc scalerDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ArtifactMeta{}, fmt.Errorf("parse scaler artifact: %w", err)
	}

	var (
		s   Scaler
		err error
	)
	switch doc.Kind {
	case KindStandardScaler:
		s, err = NewStandardScaler(doc.Mean, doc.Scale)
	case KindMinMaxScaler:
		s, err = NewMinMaxScaler(doc.DataMin, doc.DataMax, doc.FeatureRange)
	default:
		return nil, ArtifactMeta{}, fmt.Errorf("scaler %q: %w", doc.Kind, ErrUnknownKind)
	}
	if err != nil {
		return nil, ArtifactMeta{}, err
	}

	meta, err := finishMeta(doc.ArtifactMeta, s.NumFeatures())
	if err != nil {
		return nil, ArtifactMeta{}, fmt.Errorf("scaler artifact: %w", err)
	}
	return s, meta, nil
}

// EncodeLogisticRegression serializes a logistic model in the artifact format.
func EncodeLogisticRegression(meta ArtifactMeta, coef []float64, intercept float64) ([]byte, error) {
	meta.Kind = KindLogisticRegression
	meta.NFeatures = len(coef)
	return json.MarshalIndent(classifierDoc{ArtifactMeta: meta, Coef: coef, Intercept: intercept}, "", "  ")
}

// EncodeStandardScaler serializes a standard scaler in the artifact format.
func EncodeStandardScaler(meta ArtifactMeta, mean, scale []float64) ([]byte, error) {
	meta.Kind = KindStandardScaler
	meta.NFeatures = len(mean)
	return json.MarshalIndent(scalerDoc{ArtifactMeta: meta, Mean: mean, Scale: scale}, "", "  ")
}

// finishMeta reconciles the declared width with the width implied by the parameters.
func finishMeta(meta ArtifactMeta, width int) (ArtifactMeta, error) {
	if meta.NFeatures != 0 && meta.NFeatures != width {
		return meta, fmt.Errorf("n_features is %d but parameters have width %d", meta.NFeatures, width)
	}
	if len(meta.FeatureNames) != 0 && len(meta.FeatureNames) != width {
		return meta, fmt.Errorf("%d feature names for width %d", len(meta.FeatureNames), width)
	}
	meta.NFeatures = width
	return meta, nil
}
