// Package gesture recognizes hand poses from sampled joints: debounced
// pinch state per hand plus discrete pose events (thumbs-up, heart, peace,
// L-shape, stop-palm).
package gesture

import "github.com/ayusman/mudra/internal/track"

// Event is a discrete gesture event. The set of implementations is closed
// so dispatch switches can be checked for exhaustiveness.
type Event interface {
	event()
}

// PinchStart fires when a hand's debounced pinch turns on. Point is the
// pinch midpoint at commit time, if available.
type PinchStart struct {
	Side  track.Side
	Point track.Vec3
}

// PinchEnd fires when a hand's debounced pinch turns off.
type PinchEnd struct {
	Side track.Side
}

// ThumbsUpStart fires on the rising edge of a debounced thumbs-up pose.
// Origin is the thumb tip, used as the launch point for reaction visuals.
type ThumbsUpStart struct {
	Side   track.Side
	Origin track.Vec3
}

// HeartStart fires on the rising edge of the two-hand heart pose.
type HeartStart struct{}

// PeaceStart fires on the rising edge of a debounced peace pose.
type PeaceStart struct {
	Side track.Side
}

// LShapeStart fires on the rising edge of a debounced L-shape pose.
type LShapeStart struct {
	Side track.Side
}

// StopPalm fires when an open palm has faced the viewer near the focused
// object for the full hold duration.
type StopPalm struct {
	Side track.Side
}

func (PinchStart) event()    {}
func (PinchEnd) event()      {}
func (ThumbsUpStart) event() {}
func (HeartStart) event()    {}
func (PeaceStart) event()    {}
func (LShapeStart) event()   {}
func (StopPalm) event()      {}
