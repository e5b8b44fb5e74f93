package overlay

import (
	"errors"
	"image"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/sareefit/internal/body"
	"github.com/ayusman/sareefit/internal/pose"
)

func TestJoints(t *testing.T) {
	segments := []body.Segment{
		{From: body.Point{X: 10, Y: 10}, To: body.Point{X: 20, Y: 10}},
		{From: body.Point{X: 10, Y: 10}, To: body.Point{X: 10.4, Y: 30.6}},
	}

	joints := Joints(segments)

	want := []image.Point{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 10, Y: 31}}
	if len(joints) != len(want) {
		t.Fatalf("len(joints) = %d, want %d", len(joints), len(want))
	}
	for i := range want {
		if joints[i] != want[i] {
			t.Errorf("joints[%d] = %v, want %v", i, joints[i], want[i])
		}
	}
}

func TestDecode_Empty(t *testing.T) {
	img, err := Decode(nil)
	defer img.Close()
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Decode(nil) error = %v, want ErrInvalidImage", err)
	}
}

func TestDecode_Garbage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV")
	}

	img, err := Decode([]byte("definitely not a jpeg"))
	defer img.Close()
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Decode(garbage) error = %v, want ErrInvalidImage", err)
	}
}

func TestDraw(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	set := pose.StandingPose()
	anchors, err := body.ComputeAnchors(set, 640, 480)
	if err != nil {
		t.Fatalf("ComputeAnchors() error = %v", err)
	}

	if err := Draw(&img, set, &anchors); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	// Left shoulder joint at (384, 120).
	joint := img.GetVecbAt(120, 384)
	if joint[0] != JointColor.B || joint[1] != JointColor.G || joint[2] != JointColor.R {
		t.Errorf("joint pixel = %v, want maroon", joint)
	}

	// Middle of the shoulder line at (320, 120).
	bone := img.GetVecbAt(120, 320)
	if bone[0] != BoneColor.B || bone[1] != BoneColor.G || bone[2] != BoneColor.R {
		t.Errorf("bone pixel = %v, want gold", bone)
	}

	// Corners stay untouched.
	corner := img.GetVecbAt(0, 0)
	if corner[0] != 0 || corner[1] != 0 || corner[2] != 0 {
		t.Errorf("corner pixel = %v, want black", corner)
	}
}

func TestDraw_RejectsNilLandmarks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	img := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer img.Close()

	if err := Draw(&img, nil, nil); !errors.Is(err, pose.ErrInvalidLandmarkSet) {
		t.Errorf("Draw(nil) error = %v, want ErrInvalidLandmarkSet", err)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	src, err := EncodeJPEG(img)
	if err != nil {
		t.Fatalf("EncodeJPEG() error = %v", err)
	}

	out, err := Render(src, pose.StandingPose(), nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	decoded, err := Decode(out)
	defer decoded.Close()
	if err != nil {
		t.Fatalf("Decode(rendered) error = %v", err)
	}
	if decoded.Cols() != 640 || decoded.Rows() != 480 {
		t.Errorf("rendered size = %dx%d, want 640x480", decoded.Cols(), decoded.Rows())
	}
}
