package object

import (
	"math"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/track"
)

// Object is the focused 3D object the arbiter manipulates: a world
// position, a bounding radius, and a scale/yaw transform with smoothed
// targets. Rendering is someone else's problem; the object only tracks
// where it is and how big it should become.
type Object struct {
	key      string
	position track.Vec3
	placed   bool
	radius   float64

	scale       float64
	targetScale float64

	rotation       float64
	targetRotation float64
	spring         AngleSpring
	chaseBase      float64
}

// New creates an object with a fresh key, unit scale, and the given
// bounding radius. The object starts unplaced: it has no world position
// until SetPosition is called.
func New(cfg *config.Tuning, radius float64) *Object {
	return &Object{
		key:         uuid.NewString(),
		radius:      radius,
		scale:       1,
		targetScale: 1,
		spring: AngleSpring{
			TimeConstant: cfg.SpringTimeConstant,
			MaxSpeed:     cfg.SpringMaxSpeedDeg * math.Pi / 180,
		},
		chaseBase: cfg.ChaseBase,
	}
}

// Key returns the object's identity, used to bind panel state and
// reaction counters.
func (o *Object) Key() string {
	return o.key
}

// WorldPosition returns the object's world position, ok=false while the
// object is unplaced.
func (o *Object) WorldPosition() (track.Vec3, bool) {
	return o.position, o.placed
}

// Bounds returns the bounding sphere (center, radius) scaled by the
// current scale, ok=false while unplaced.
func (o *Object) Bounds() (track.Vec3, float64, bool) {
	return o.position, o.radius * o.scale, o.placed
}

// SetPosition places the object at a world position.
func (o *Object) SetPosition(p track.Vec3) {
	o.position = p
	o.placed = true
}

// Scale returns the current (smoothed) scale.
func (o *Object) Scale() float64 {
	return o.scale
}

// TargetScale returns the scale the smoother is chasing.
func (o *Object) TargetScale() float64 {
	return o.targetScale
}

// SetTargetScale sets the scale target; the current scale converges on it
// over subsequent ticks.
func (o *Object) SetTargetScale(s float64) {
	o.targetScale = s
}

// Rotation returns the current (smoothed) yaw, radians.
func (o *Object) Rotation() float64 {
	return o.rotation
}

// TargetRotation returns the yaw target, radians.
func (o *Object) TargetRotation() float64 {
	return o.targetRotation
}

// SetTargetRotation sets the yaw target, radians.
func (o *Object) SetTargetRotation(r float64) {
	o.targetRotation = r
}

// HaltRotation zeroes carried angular velocity and stops chasing: the
// target collapses onto the current yaw. Called when a two-hand session
// dissolves.
func (o *Object) HaltRotation() {
	o.targetRotation = o.rotation
	o.spring.Halt()
}

// Tick integrates current scale and yaw toward their targets by dt
// seconds.
func (o *Object) Tick(dt float64) {
	o.scale = Chase(o.scale, o.targetScale, o.chaseBase, dt)
	o.rotation = o.spring.Step(o.rotation, o.targetRotation, dt)
}
