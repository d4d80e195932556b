// Package track converts raw spatial-tracking device reports into stable,
// per-frame maps of named hand joints.
package track

import (
	"math"
	"time"
)

// Side identifies which hand a sample belongs to.
type Side string

const (
	// Left is the left hand.
	Left Side = "left"
	// Right is the right hand.
	Right Side = "right"
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Left {
		return Right
	}
	return Left
}

// Sides lists both hand sides in a fixed order.
var Sides = [2]Side{Left, Right}

// Joint indices following the MediaPipe hand landmark convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist     = 0
	ThumbCMC  = 1
	ThumbMCP  = 2
	ThumbIP   = 3
	ThumbTip  = 4
	IndexMCP  = 5
	IndexPIP  = 6
	IndexDIP  = 7
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
	MiddleDIP = 11
	MiddleTip = 12
	RingMCP   = 13
	RingPIP   = 14
	RingDIP   = 15
	RingTip   = 16
	PinkyMCP  = 17
	PinkyPIP  = 18
	PinkyDIP  = 19
	PinkyTip  = 20
	NumJoints = 21
)

// Vec3 is a 3D position in the tracking reference frame, in meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalized returns v scaled to unit length, or the zero vector if v is
// too short to normalize.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Mid returns the midpoint of v and o.
func Mid(v, o Vec3) Vec3 {
	return v.Add(o).Scale(0.5)
}

// Hand holds the joints reported for one hand in one frame. Joints the
// device did not report are absent, never stale.
type Hand struct {
	points  [NumJoints]Vec3
	present [NumJoints]bool
	score   float64
}

// Joint returns the position of joint j and whether it was tracked this
// frame.
func (h *Hand) Joint(j int) (Vec3, bool) {
	if h == nil || j < 0 || j >= NumJoints {
		return Vec3{}, false
	}
	if !h.present[j] {
		return Vec3{}, false
	}
	return h.points[j], true
}

// Score returns the tracking confidence the device reported for this hand.
func (h *Hand) Score() float64 {
	if h == nil {
		return 0
	}
	return h.score
}

// Frame is one frame's worth of sampled joints for both hands. A nil hand
// means the device did not track that hand this frame.
type Frame struct {
	Time  time.Time
	hands map[Side]*Hand
}

// Hand returns the sampled hand for the given side, or nil if untracked.
func (f *Frame) Hand(s Side) *Hand {
	if f == nil {
		return nil
	}
	return f.hands[s]
}

// Joint returns the position of joint j on side s, and whether it was
// tracked this frame.
func (f *Frame) Joint(s Side, j int) (Vec3, bool) {
	return f.Hand(s).Joint(j)
}
