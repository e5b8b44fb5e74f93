// Package body estimates body measurements and garment anchor points from detected pose landmarks.
package body

import (
	"fmt"
	"math"
)

const (
	// DefaultReferenceShoulderCM is the assumed average adult shoulder width.
	// It is the only real-world length the estimator knows; every other
	// measurement is scaled relative to it.
	DefaultReferenceShoulderCM = 40.0

	// DefaultWaistOffset lifts the waist anchor above the hip line, as a
	// fraction of image height.
	DefaultWaistOffset = 0.05

	// DefaultNeckOffset lifts the neck anchor above the shoulder line, as a
	// fraction of image height.
	DefaultNeckOffset = 0.03
)

// Config holds the calibration values used by an Estimator.
type Config struct {
	// ReferenceShoulderCM is the real-world shoulder width the pixel shoulder
	// span is calibrated against.
	ReferenceShoulderCM float64

	// WaistOffset and NeckOffset are normalized vertical offsets subtracted
	// from the hip and shoulder midpoints before scaling to pixels.
	WaistOffset float64
	NeckOffset  float64

	// MinVisibility gates every landmark an operation reads. Zero disables
	// the check. When enabled, landmarks without a visibility score fail it.
	MinVisibility float64
}

// DefaultConfig returns a Config with the standard calibration values.
func DefaultConfig() Config {
	return Config{
		ReferenceShoulderCM: DefaultReferenceShoulderCM,
		WaistOffset:         DefaultWaistOffset,
		NeckOffset:          DefaultNeckOffset,
	}
}

// Validate reports whether the configuration can produce finite results.
func (c Config) Validate() error {
	if !(c.ReferenceShoulderCM > 0) || math.IsInf(c.ReferenceShoulderCM, 0) {
		return fmt.Errorf("%w: reference shoulder width must be positive, got %v", ErrInvalidConfig, c.ReferenceShoulderCM)
	}
	if !isFinite(c.WaistOffset) || !isFinite(c.NeckOffset) {
		return fmt.Errorf("%w: anchor offsets must be finite", ErrInvalidConfig)
	}
	if c.MinVisibility < 0 || c.MinVisibility > 1 || math.IsNaN(c.MinVisibility) {
		return fmt.Errorf("%w: min visibility must be within [0, 1], got %v", ErrInvalidConfig, c.MinVisibility)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
