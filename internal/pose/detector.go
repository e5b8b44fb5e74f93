package pose

import "gocv.io/x/gocv"

// Detector defines the interface for body pose detection implementations.
type Detector interface {
	// Detect analyzes an image and returns the landmarks of the most prominent pose.
	// Returns nil with a nil error if no pose is found.
	Detect(frame *gocv.Mat) (*LandmarkSet, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MaxPoses is the maximum number of poses to detect (default: 1).
	MaxPoses int

	// MinDetectionConf is the minimum pose detection confidence (0.0-1.0).
	MinDetectionConf float64

	// MinPresenceConf is the minimum pose presence confidence (0.0-1.0).
	MinPresenceConf float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxPoses:         1,
		MinDetectionConf: 0.5,
		MinPresenceConf:  0.5,
		MinTrackingConf:  0.5,
	}
}
