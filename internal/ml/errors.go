package ml

import (
	"errors"
	"fmt"

	"exoplanet-detector/internal/common"
)

var (
	// ErrModelNotLoaded is returned when predict runs before a classifier is published.
	ErrModelNotLoaded = errors.New("model not loaded")

	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrInvalidProbability = errors.New("invalid probability")
	ErrUnknownKind        = errors.New("unknown artifact kind")
)

// DimensionError reports a sample whose width differs from the fitted width.
type DimensionError struct {
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("X has %d features, but model is expecting %d features as input", e.Got, e.Expected)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// InferenceError wraps any failure that happens while reshaping, scaling or
// running inference on a request.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return common.DetailErrorPrefix + e.Err.Error()
}

func (e *InferenceError) Unwrap() error { return e.Err }
