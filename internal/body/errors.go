package body

import "errors"

var (
	// ErrDegenerateCalibration is returned when the shoulder span is too small
	// to derive a finite pixel-to-centimetre scale.
	ErrDegenerateCalibration = errors.New("degenerate calibration: shoulder span is zero or unbounded")

	// ErrInvalidDimensions is returned for non-positive image dimensions.
	ErrInvalidDimensions = errors.New("image dimensions must be positive")

	// ErrLowVisibility is returned when a required landmark is below the
	// configured visibility threshold.
	ErrLowVisibility = errors.New("landmark visibility below threshold")

	// ErrInvalidConfig is returned by NewEstimator for unusable calibration values.
	ErrInvalidConfig = errors.New("invalid estimator config")
)
