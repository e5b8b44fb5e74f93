package body

import (
	"fmt"

	"github.com/ayusman/sareefit/internal/pose"
)

// AnchorPoints are pixel-space positions used to place a draped garment overlay.
type AnchorPoints struct {
	LeftShoulder  Point `json:"left_shoulder"`
	RightShoulder Point `json:"right_shoulder"`
	LeftHip       Point `json:"left_hip"`
	RightHip      Point `json:"right_hip"`
	WaistCenter   Point `json:"waist_center"`
	NeckCenter    Point `json:"neck_center"`
}

var anchorLandmarks = []int{pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip}

// ComputeAnchors scales the shoulder and hip landmarks to pixels and derives
// the waist and neck centres. The waist sits WaistOffset of the image height
// above the hip midpoint and the neck NeckOffset above the shoulder midpoint;
// both offsets are applied in normalized space before scaling.
func (e *Estimator) ComputeAnchors(landmarks *pose.LandmarkSet, imageWidth, imageHeight int) (AnchorPoints, error) {
	if err := e.check(landmarks, imageWidth, imageHeight, anchorLandmarks...); err != nil {
		return AnchorPoints{}, err
	}

	w := float64(imageWidth)
	h := float64(imageHeight)

	toPixels := func(p Point) Point {
		return Point{X: p.X * w, Y: p.Y * h}
	}

	ls := landmarks.LeftShoulder()
	rs := landmarks.RightShoulder()
	lh := landmarks.LeftHip()
	rh := landmarks.RightHip()

	waist := midpoint(lh, rh)
	waist.Y -= e.config.WaistOffset

	neck := midpoint(ls, rs)
	neck.Y -= e.config.NeckOffset

	anchors := AnchorPoints{
		LeftShoulder:  toPixels(toPoint(ls)),
		RightShoulder: toPixels(toPoint(rs)),
		LeftHip:       toPixels(toPoint(lh)),
		RightHip:      toPixels(toPoint(rh)),
		WaistCenter:   toPixels(waist),
		NeckCenter:    toPixels(neck),
	}
	if err := anchors.check(); err != nil {
		return AnchorPoints{}, err
	}
	return anchors, nil
}

// check rejects anchors whose pixel coordinates overflowed.
func (a AnchorPoints) check() error {
	for _, p := range []struct {
		name  string
		point Point
	}{
		{"left_shoulder", a.LeftShoulder},
		{"right_shoulder", a.RightShoulder},
		{"left_hip", a.LeftHip},
		{"right_hip", a.RightHip},
		{"waist_center", a.WaistCenter},
		{"neck_center", a.NeckCenter},
	} {
		if !isFinite(p.point.X) || !isFinite(p.point.Y) {
			return fmt.Errorf("%w: %s anchor is not finite", pose.ErrInvalidLandmarkSet, p.name)
		}
	}
	return nil
}
