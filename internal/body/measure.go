package body

import (
	"fmt"
	"math"

	"github.com/ayusman/sareefit/internal/pose"
)

// Measurements are estimated body lengths in whole centimetres.
type Measurements struct {
	ShoulderWidth int `json:"shoulder_width"`
	TorsoHeight   int `json:"torso_height"`
	HipWidth      int `json:"hip_width"`
	ArmLength     int `json:"arm_length"`
	LegLength     int `json:"leg_length"`
}

// PixelLengths are the uncalibrated body lengths in pixels.
type PixelLengths struct {
	ShoulderWidth float64
	TorsoHeight   float64
	HipWidth      float64
	ArmLength     float64
	LegLength     float64
}

var measurementLandmarks = []int{
	pose.LeftShoulder, pose.RightShoulder,
	pose.LeftHip, pose.RightHip,
	pose.LeftElbow, pose.LeftWrist,
	pose.LeftKnee, pose.LeftAnkle,
}

// MeasurePixels computes body lengths in pixel space. Arm and leg lengths are
// the sum of their upper and lower segments, so a bent limb measures the same
// as a straight one.
func (e *Estimator) MeasurePixels(landmarks *pose.LandmarkSet, imageWidth, imageHeight int) (PixelLengths, error) {
	if err := e.check(landmarks, imageWidth, imageHeight, measurementLandmarks...); err != nil {
		return PixelLengths{}, err
	}

	w := float64(imageWidth)
	h := float64(imageHeight)
	dist := func(a, b Point) float64 {
		return pixelDistance(a, b, w, h)
	}

	ls := landmarks.LeftShoulder()
	rs := landmarks.RightShoulder()
	lh := landmarks.LeftHip()
	rh := landmarks.RightHip()
	le := toPoint(landmarks.LeftElbow())
	lk := toPoint(landmarks.LeftKnee())

	px := PixelLengths{
		ShoulderWidth: dist(toPoint(ls), toPoint(rs)),
		HipWidth:      dist(toPoint(lh), toPoint(rh)),
		TorsoHeight:   dist(midpoint(ls, rs), midpoint(lh, rh)),
		ArmLength:     dist(toPoint(ls), le) + dist(le, toPoint(landmarks.LeftWrist())),
		LegLength:     dist(toPoint(lh), lk) + dist(lk, toPoint(landmarks.LeftAnkle())),
	}
	if err := px.check(); err != nil {
		return PixelLengths{}, err
	}
	return px, nil
}

// check rejects lengths that overflowed to infinity. An unusable shoulder
// span is a calibration failure, any other length is bad input.
func (px PixelLengths) check() error {
	if !isFinite(px.ShoulderWidth) {
		return fmt.Errorf("%w: shoulder span %g px", ErrDegenerateCalibration, px.ShoulderWidth)
	}
	for _, l := range []struct {
		name  string
		value float64
	}{
		{"torso height", px.TorsoHeight},
		{"hip width", px.HipWidth},
		{"arm length", px.ArmLength},
		{"leg length", px.LegLength},
	} {
		if !isFinite(l.value) {
			return fmt.Errorf("%w: %s is not finite", pose.ErrInvalidLandmarkSet, l.name)
		}
	}
	return nil
}

// Scale returns the centimetres-per-pixel factor for the given lengths.
func (e *Estimator) Scale(px PixelLengths) (float64, error) {
	if px.ShoulderWidth <= 0 || !isFinite(px.ShoulderWidth) {
		return 0, fmt.Errorf("%w: shoulder span %g px", ErrDegenerateCalibration, px.ShoulderWidth)
	}
	scale := e.config.ReferenceShoulderCM / px.ShoulderWidth
	if !isFinite(scale) || scale <= 0 {
		return 0, fmt.Errorf("%w: shoulder span %g px", ErrDegenerateCalibration, px.ShoulderWidth)
	}
	return scale, nil
}

// ComputeMeasurements estimates body measurements in centimetres. The pixel
// shoulder span is calibrated to ReferenceShoulderCM and every other length
// is scaled by the same factor, then rounded to the nearest centimetre.
func (e *Estimator) ComputeMeasurements(landmarks *pose.LandmarkSet, imageWidth, imageHeight int) (Measurements, error) {
	px, err := e.MeasurePixels(landmarks, imageWidth, imageHeight)
	if err != nil {
		return Measurements{}, err
	}

	scale, err := e.Scale(px)
	if err != nil {
		return Measurements{}, err
	}

	var bad string
	cm := func(name string, v float64) int {
		r := math.Round(v * scale)
		if !isFinite(r) || math.Abs(r) >= math.MaxInt64 {
			if bad == "" {
				bad = name
			}
			return 0
		}
		return int(r)
	}

	m := Measurements{
		ShoulderWidth: cm("shoulder width", px.ShoulderWidth),
		TorsoHeight:   cm("torso height", px.TorsoHeight),
		HipWidth:      cm("hip width", px.HipWidth),
		ArmLength:     cm("arm length", px.ArmLength),
		LegLength:     cm("leg length", px.LegLength),
	}
	if bad != "" {
		return Measurements{}, fmt.Errorf("%w: %s out of range", pose.ErrInvalidLandmarkSet, bad)
	}
	return m, nil
}
