package body

import (
	"fmt"
	"math"

	"github.com/ayusman/sareefit/internal/pose"
)

// Drape scale limits applied to the body-size estimate.
const (
	MinDrapeScale = 0.5
	MaxDrapeScale = 1.5
)

// Placement positions a drape overlay in a viewport whose centre is the
// origin and whose edges are at ±1, y pointing up.
type Placement struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Scale   float64 `json:"scale"`
}

var placementLandmarks = []int{pose.LeftShoulder, pose.RightShoulder, pose.LeftHip}

// ComputePlacement derives the drape overlay offset and scale from the
// shoulders and left hip. The result only depends on normalized coordinates,
// so it is independent of image size.
func (e *Estimator) ComputePlacement(landmarks *pose.LandmarkSet) (Placement, error) {
	// Dimensions are irrelevant here; pass a unit image through the shared checks.
	if err := e.check(landmarks, 1, 1, placementLandmarks...); err != nil {
		return Placement{}, err
	}

	ls := landmarks.LeftShoulder()
	rs := landmarks.RightShoulder()
	lh := landmarks.LeftHip()

	centerX := ((ls.X+rs.X)/2 - 0.5) * 2
	centerY := -((ls.Y+lh.Y)/2 - 0.5) * 2

	shoulderWidth := math.Abs(rs.X - ls.X)
	torsoHeight := math.Abs(lh.Y - ls.Y)
	bodyScale := math.Max(shoulderWidth, torsoHeight) * 2

	if !isFinite(centerX) || !isFinite(centerY) || math.IsNaN(bodyScale) {
		return Placement{}, fmt.Errorf("%w: drape placement is not finite", pose.ErrInvalidLandmarkSet)
	}

	return Placement{
		OffsetX: centerX * 0.5,
		OffsetY: centerY * 0.3,
		Scale:   math.Min(math.Max(bodyScale, MinDrapeScale), MaxDrapeScale),
	}, nil
}
