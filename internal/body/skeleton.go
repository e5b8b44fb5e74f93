package body

import "github.com/ayusman/sareefit/internal/pose"

// Bone is a pair of landmark indices drawn as one skeleton segment.
type Bone struct {
	From int
	To   int
}

// Skeleton lists the segments drawn over a detected pose: the shoulder and
// hip spans, both arms, both torso sides and both legs.
var Skeleton = []Bone{
	{pose.LeftShoulder, pose.RightShoulder},
	{pose.LeftShoulder, pose.LeftElbow},
	{pose.LeftElbow, pose.LeftWrist},
	{pose.RightShoulder, pose.RightElbow},
	{pose.RightElbow, pose.RightWrist},
	{pose.LeftShoulder, pose.LeftHip},
	{pose.RightShoulder, pose.RightHip},
	{pose.LeftHip, pose.RightHip},
	{pose.LeftHip, pose.LeftKnee},
	{pose.LeftKnee, pose.LeftAnkle},
	{pose.RightHip, pose.RightKnee},
	{pose.RightKnee, pose.RightAnkle},
}

// Segment is a skeleton bone in pixel space.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// SkeletonSegments scales every skeleton bone to pixel coordinates.
func SkeletonSegments(landmarks *pose.LandmarkSet, imageWidth, imageHeight int) ([]Segment, error) {
	if err := defaultEstimator.check(landmarks, imageWidth, imageHeight); err != nil {
		return nil, err
	}

	w := float64(imageWidth)
	h := float64(imageHeight)

	segments := make([]Segment, len(Skeleton))
	for i, b := range Skeleton {
		from := landmarks.At(b.From)
		to := landmarks.At(b.To)
		segments[i] = Segment{
			From: Point{X: from.X * w, Y: from.Y * h},
			To:   Point{X: to.X * w, Y: to.Y * h},
		}
	}
	return segments, nil
}
