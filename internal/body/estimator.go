package body

import (
	"fmt"
	"math"

	"github.com/ayusman/sareefit/internal/pose"
)

// Point is a 2D position. Anchor points are in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Estimator turns a landmark set and the source image size into anchor points
// and measurements. It holds no mutable state and is safe for concurrent use.
type Estimator struct {
	config Config
}

// NewEstimator creates an Estimator with the given calibration.
func NewEstimator(config Config) (*Estimator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{config: config}, nil
}

var defaultEstimator = &Estimator{config: DefaultConfig()}

// Config returns the estimator's calibration values.
func (e *Estimator) Config() Config {
	return e.config
}

// Analysis bundles every derivation for one detected pose.
type Analysis struct {
	Anchors      AnchorPoints `json:"anchors"`
	Measurements Measurements `json:"measurements"`
	Placement    Placement    `json:"placement"`
}

// Analyze computes anchors, measurements and drape placement in one call.
func (e *Estimator) Analyze(landmarks *pose.LandmarkSet, imageWidth, imageHeight int) (Analysis, error) {
	anchors, err := e.ComputeAnchors(landmarks, imageWidth, imageHeight)
	if err != nil {
		return Analysis{}, err
	}
	measurements, err := e.ComputeMeasurements(landmarks, imageWidth, imageHeight)
	if err != nil {
		return Analysis{}, err
	}
	placement, err := e.ComputePlacement(landmarks)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Anchors:      anchors,
		Measurements: measurements,
		Placement:    placement,
	}, nil
}

// ComputeAnchors uses the default calibration. See Estimator.ComputeAnchors.
func ComputeAnchors(landmarks *pose.LandmarkSet, imageWidth, imageHeight int) (AnchorPoints, error) {
	return defaultEstimator.ComputeAnchors(landmarks, imageWidth, imageHeight)
}

// ComputeMeasurements uses the default calibration. See Estimator.ComputeMeasurements.
func ComputeMeasurements(landmarks *pose.LandmarkSet, imageWidth, imageHeight int) (Measurements, error) {
	return defaultEstimator.ComputeMeasurements(landmarks, imageWidth, imageHeight)
}

// check validates the inputs shared by every operation.
func (e *Estimator) check(landmarks *pose.LandmarkSet, imageWidth, imageHeight int, required ...int) error {
	if landmarks == nil {
		return fmt.Errorf("%w: no landmarks", pose.ErrInvalidLandmarkSet)
	}
	if imageWidth <= 0 || imageHeight <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, imageWidth, imageHeight)
	}
	if e.config.MinVisibility <= 0 {
		return nil
	}
	for _, idx := range required {
		if v := landmarks.At(idx).Visibility; v < e.config.MinVisibility {
			return fmt.Errorf("%w: %s visibility %.2f < %.2f", ErrLowVisibility, pose.Name(idx), v, e.config.MinVisibility)
		}
	}
	return nil
}

// midpoint returns the normalized midpoint of two landmarks.
func midpoint(a, b pose.Landmark) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func toPoint(l pose.Landmark) Point {
	return Point{X: l.X, Y: l.Y}
}

// pixelDistance is the Euclidean distance between two normalized points after
// scaling each axis by its image dimension.
func pixelDistance(a, b Point, width, height float64) float64 {
	dx := (b.X - a.X) * width
	dy := (b.Y - a.Y) * height
	return math.Sqrt(dx*dx + dy*dy)
}
