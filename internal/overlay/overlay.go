// Package overlay decodes uploaded photos and draws detected skeletons onto them.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/sareefit/internal/body"
	"github.com/ayusman/sareefit/internal/pose"
)

// ErrInvalidImage is returned when uploaded bytes cannot be decoded.
var ErrInvalidImage = errors.New("invalid image")

var (
	// BoneColor is the gold used for skeleton lines.
	BoneColor = color.RGBA{R: 0xD4, G: 0xAF, B: 0x37, A: 0xFF}
	// JointColor is the maroon used for joints and anchors.
	JointColor = color.RGBA{R: 0x8B, G: 0x00, B: 0x00, A: 0xFF}
)

const (
	BoneThickness = 2
	JointRadius   = 4
	AnchorRadius  = 6
)

// Decode reads JPEG or PNG bytes into a BGR Mat. The caller must Close it.
func Decode(data []byte) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.NewMat(), fmt.Errorf("%w: empty", ErrInvalidImage)
	}
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return mat, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if mat.Empty() {
		return mat, fmt.Errorf("%w: could not decode", ErrInvalidImage)
	}
	return mat, nil
}

// Draw renders the skeleton of landmarks onto img, plus the waist and neck
// anchors when anchors is non-nil.
func Draw(img *gocv.Mat, landmarks *pose.LandmarkSet, anchors *body.AnchorPoints) error {
	segments, err := body.SkeletonSegments(landmarks, img.Cols(), img.Rows())
	if err != nil {
		return err
	}

	for _, s := range segments {
		gocv.Line(img, toImagePoint(s.From), toImagePoint(s.To), BoneColor, BoneThickness)
	}

	for _, p := range Joints(segments) {
		gocv.Circle(img, p, JointRadius, JointColor, -1)
	}

	if anchors != nil {
		for _, p := range []body.Point{anchors.NeckCenter, anchors.WaistCenter} {
			gocv.Circle(img, toImagePoint(p), AnchorRadius, JointColor, BoneThickness)
		}
	}
	return nil
}

// Joints returns the distinct segment endpoints in drawing order.
func Joints(segments []body.Segment) []image.Point {
	seen := make(map[image.Point]bool)
	var joints []image.Point
	for _, s := range segments {
		for _, p := range []body.Point{s.From, s.To} {
			ip := toImagePoint(p)
			if !seen[ip] {
				seen[ip] = true
				joints = append(joints, ip)
			}
		}
	}
	return joints
}

// EncodeJPEG encodes img as JPEG.
func EncodeJPEG(img gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// Render decodes data, draws the skeleton and returns the annotated JPEG.
func Render(data []byte, landmarks *pose.LandmarkSet, anchors *body.AnchorPoints) ([]byte, error) {
	img, err := Decode(data)
	defer img.Close()
	if err != nil {
		return nil, err
	}
	if err := Draw(&img, landmarks, anchors); err != nil {
		return nil, err
	}
	return EncodeJPEG(img)
}

func toImagePoint(p body.Point) image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}
