// Package pose provides body pose landmark types and pose detection interfaces.
package pose

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Pose landmark indices following the MediaPipe pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

var landmarkNames = [NumLandmarks]string{
	"nose",
	"left_eye_inner", "left_eye", "left_eye_outer",
	"right_eye_inner", "right_eye", "right_eye_outer",
	"left_ear", "right_ear",
	"mouth_left", "mouth_right",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_pinky", "right_pinky",
	"left_index", "right_index",
	"left_thumb", "right_thumb",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
	"left_heel", "right_heel",
	"left_foot_index", "right_foot_index",
}

// ErrInvalidLandmarkSet is returned when a landmark sequence does not form a complete pose.
var ErrInvalidLandmarkSet = errors.New("invalid landmark set")

// Name returns the snake_case name of the landmark at index i.
func Name(i int) string {
	if i < 0 || i >= NumLandmarks {
		return fmt.Sprintf("landmark_%d", i)
	}
	return landmarkNames[i]
}

// Landmark is a single detected body point.
// X and Y are normalized to the image width and height, origin top-left.
// Z is detector-defined depth relative to the hip midpoint.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility,omitempty"`
}

// LandmarkSet holds the 33 landmarks of one detected pose.
// The zero value is not usable; build one with NewLandmarkSet.
type LandmarkSet struct {
	points [NumLandmarks]Landmark
}

// NewLandmarkSet validates a raw ordered landmark sequence and copies it into a LandmarkSet.
// The sequence must hold exactly NumLandmarks entries with finite X and Y and a
// visibility within [0, 1].
func NewLandmarkSet(raw []Landmark) (*LandmarkSet, error) {
	if len(raw) != NumLandmarks {
		return nil, fmt.Errorf("%w: got %d landmarks, want %d", ErrInvalidLandmarkSet, len(raw), NumLandmarks)
	}

	s := &LandmarkSet{}
	for i, l := range raw {
		if math.IsNaN(l.X) || math.IsInf(l.X, 0) || math.IsNaN(l.Y) || math.IsInf(l.Y, 0) {
			return nil, fmt.Errorf("%w: %s has non-finite coordinates", ErrInvalidLandmarkSet, Name(i))
		}
		if math.IsNaN(l.Visibility) || l.Visibility < 0 || l.Visibility > 1 {
			return nil, fmt.Errorf("%w: %s visibility %v outside [0, 1]", ErrInvalidLandmarkSet, Name(i), l.Visibility)
		}
		s.points[i] = l
	}

	return s, nil
}

// At returns the landmark at index i. It panics if i is out of range.
func (s *LandmarkSet) At(i int) Landmark {
	return s.points[i]
}

// Points returns a copy of all landmarks in index order.
func (s *LandmarkSet) Points() []Landmark {
	out := make([]Landmark, NumLandmarks)
	copy(out, s.points[:])
	return out
}

func (s *LandmarkSet) LeftShoulder() Landmark  { return s.points[LeftShoulder] }
func (s *LandmarkSet) RightShoulder() Landmark { return s.points[RightShoulder] }
func (s *LandmarkSet) LeftElbow() Landmark     { return s.points[LeftElbow] }
func (s *LandmarkSet) RightElbow() Landmark    { return s.points[RightElbow] }
func (s *LandmarkSet) LeftWrist() Landmark     { return s.points[LeftWrist] }
func (s *LandmarkSet) RightWrist() Landmark    { return s.points[RightWrist] }
func (s *LandmarkSet) LeftHip() Landmark       { return s.points[LeftHip] }
func (s *LandmarkSet) RightHip() Landmark      { return s.points[RightHip] }
func (s *LandmarkSet) LeftKnee() Landmark      { return s.points[LeftKnee] }
func (s *LandmarkSet) RightKnee() Landmark     { return s.points[RightKnee] }
func (s *LandmarkSet) LeftAnkle() Landmark     { return s.points[LeftAnkle] }
func (s *LandmarkSet) RightAnkle() Landmark    { return s.points[RightAnkle] }

// MarshalJSON encodes the set as a plain array of landmarks.
func (s *LandmarkSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.points[:])
}

// UnmarshalJSON decodes an array of landmarks, applying the same checks as NewLandmarkSet.
func (s *LandmarkSet) UnmarshalJSON(data []byte) error {
	var raw []Landmark
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewLandmarkSet(raw)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}
