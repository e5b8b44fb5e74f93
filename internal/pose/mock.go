package pose

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	pose  *LandmarkSet
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPose sets the pose that will be returned by Detect. A nil pose simulates "no pose found".
func (m *MockDetector) SetPose(pose *LandmarkSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pose = pose
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured pose or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*LandmarkSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.pose, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// StandingPoseLandmarks returns the raw landmarks of a front-facing person standing
// upright with arms relaxed at their sides. The subject's left side appears on the
// right of the image.
func StandingPoseLandmarks() []Landmark {
	lm := make([]Landmark, NumLandmarks)

	// Face
	lm[Nose] = Landmark{X: 0.50, Y: 0.12}
	lm[LeftEyeInner] = Landmark{X: 0.51, Y: 0.105}
	lm[LeftEye] = Landmark{X: 0.52, Y: 0.105}
	lm[LeftEyeOuter] = Landmark{X: 0.53, Y: 0.105}
	lm[RightEyeInner] = Landmark{X: 0.49, Y: 0.105}
	lm[RightEye] = Landmark{X: 0.48, Y: 0.105}
	lm[RightEyeOuter] = Landmark{X: 0.47, Y: 0.105}
	lm[LeftEar] = Landmark{X: 0.545, Y: 0.115}
	lm[RightEar] = Landmark{X: 0.455, Y: 0.115}
	lm[MouthLeft] = Landmark{X: 0.515, Y: 0.14}
	lm[MouthRight] = Landmark{X: 0.485, Y: 0.14}

	// Arms hanging slightly away from the torso
	lm[LeftShoulder] = Landmark{X: 0.60, Y: 0.25}
	lm[RightShoulder] = Landmark{X: 0.40, Y: 0.25}
	lm[LeftElbow] = Landmark{X: 0.64, Y: 0.38}
	lm[RightElbow] = Landmark{X: 0.36, Y: 0.38}
	lm[LeftWrist] = Landmark{X: 0.66, Y: 0.50}
	lm[RightWrist] = Landmark{X: 0.34, Y: 0.50}
	lm[LeftPinky] = Landmark{X: 0.67, Y: 0.53}
	lm[RightPinky] = Landmark{X: 0.33, Y: 0.53}
	lm[LeftIndex] = Landmark{X: 0.665, Y: 0.535}
	lm[RightIndex] = Landmark{X: 0.335, Y: 0.535}
	lm[LeftThumb] = Landmark{X: 0.655, Y: 0.52}
	lm[RightThumb] = Landmark{X: 0.345, Y: 0.52}

	// Legs
	lm[LeftHip] = Landmark{X: 0.56, Y: 0.55}
	lm[RightHip] = Landmark{X: 0.44, Y: 0.55}
	lm[LeftKnee] = Landmark{X: 0.565, Y: 0.72}
	lm[RightKnee] = Landmark{X: 0.435, Y: 0.72}
	lm[LeftAnkle] = Landmark{X: 0.57, Y: 0.90}
	lm[RightAnkle] = Landmark{X: 0.43, Y: 0.90}
	lm[LeftHeel] = Landmark{X: 0.57, Y: 0.92}
	lm[RightHeel] = Landmark{X: 0.43, Y: 0.92}
	lm[LeftFootIndex] = Landmark{X: 0.58, Y: 0.95}
	lm[RightFootIndex] = Landmark{X: 0.42, Y: 0.95}

	for i := range lm {
		lm[i].Visibility = 0.98
	}

	return lm
}

// StandingPose returns StandingPoseLandmarks as a validated LandmarkSet.
func StandingPose() *LandmarkSet {
	s, err := NewLandmarkSet(StandingPoseLandmarks())
	if err != nil {
		panic(err)
	}
	return s
}
