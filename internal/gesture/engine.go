package gesture

import (
	"math"
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/track"
)

// ObjectProximity exposes the focused object's geometry for the stop-palm
// proximity gate. Both accessors report ok=false when no object is focused
// or its position is unknown this frame.
type ObjectProximity interface {
	WorldPosition() (track.Vec3, bool)
	Bounds() (center track.Vec3, radius float64, ok bool)
}

// Viewer supplies the viewer's forward direction for palm-orientation
// gating.
type Viewer interface {
	Forward() track.Vec3
}

// HandState is the committed per-hand gesture state, mutated once per
// frame after debouncing.
type HandState struct {
	Pinch    bool
	ThumbsUp bool
}

// Engine evaluates geometric pose predicates over the current frame's
// joints and emits debounced discrete events. No pose state is persisted
// beyond what the debouncer and the stop-palm hold timers keep.
type Engine struct {
	cfg *config.Tuning
	deb *Debouncer

	frame  *track.Frame
	hands  map[track.Side]*HandState
	object ObjectProximity
	viewer Viewer

	stopHold  map[track.Side]time.Time // zero time = no hold in progress
	stopFired map[track.Side]time.Time
}

// NewEngine creates a gesture engine. object and viewer may be nil, in
// which case stop-palm recognition is disabled.
func NewEngine(cfg *config.Tuning, object ObjectProximity, viewer Viewer) *Engine {
	return &Engine{
		cfg: cfg,
		deb: NewDebouncer(cfg.DebounceWindow, config.Ms(cfg.DebounceSettleMs)),
		hands: map[track.Side]*HandState{
			track.Left:  {},
			track.Right: {},
		},
		object:    object,
		viewer:    viewer,
		stopHold:  make(map[track.Side]time.Time),
		stopFired: make(map[track.Side]time.Time),
	}
}

// State returns the committed gesture state for one hand.
func (e *Engine) State(side track.Side) HandState {
	return *e.hands[side]
}

// Frame returns the frame the engine last evaluated.
func (e *Engine) Frame() *track.Frame {
	return e.frame
}

// Update evaluates all recognizers against the given frame and returns the
// discrete events that fired. The frame's timestamp drives every timer, so
// scripted frames replay deterministically.
func (e *Engine) Update(frame *track.Frame) []Event {
	e.frame = frame
	now := frame.Time

	var events []Event

	for _, side := range track.Sides {
		state := e.hands[side]

		pinch, changed := e.deb.Update(string(side)+".pinch", e.pinchRaw(side), now)
		if changed {
			state.Pinch = pinch
			if pinch {
				point, _ := e.PinchMidpoint(side)
				events = append(events, PinchStart{Side: side, Point: point})
			} else {
				events = append(events, PinchEnd{Side: side})
			}
		}

		up, changed := e.deb.Update(string(side)+".thumbsup", e.thumbsUpRaw(side), now)
		if changed {
			state.ThumbsUp = up
			if up {
				origin, _ := e.frame.Joint(side, track.ThumbTip)
				events = append(events, ThumbsUpStart{Side: side, Origin: origin})
			}
		}

		if peace, changed := e.deb.Update(string(side)+".peace", e.peaceRaw(side), now); changed && peace {
			events = append(events, PeaceStart{Side: side})
		}

		if l, changed := e.deb.Update(string(side)+".lshape", e.lShapeRaw(side), now); changed && l {
			events = append(events, LShapeStart{Side: side})
		}

		if ev := e.updateStopPalm(side, now); ev != nil {
			events = append(events, *ev)
		}
	}

	if heart, changed := e.deb.Update("heart", e.heartRaw(), now); changed && heart {
		events = append(events, HeartStart{})
	}

	return events
}

// PinchMidpoint returns the midpoint of thumb tip and index tip for one
// hand, or ok=false if either joint is untracked this frame.
func (e *Engine) PinchMidpoint(side track.Side) (track.Vec3, bool) {
	thumb, ok := e.frame.Joint(side, track.ThumbTip)
	if !ok {
		return track.Vec3{}, false
	}
	index, ok := e.frame.Joint(side, track.IndexTip)
	if !ok {
		return track.Vec3{}, false
	}
	return track.Mid(thumb, index), true
}

// ThumbTip returns the thumb tip position for one hand.
func (e *Engine) ThumbTip(side track.Side) (track.Vec3, bool) {
	return e.frame.Joint(side, track.ThumbTip)
}

// IndexTip returns the index tip position for one hand.
func (e *Engine) IndexTip(side track.Side) (track.Vec3, bool) {
	return e.frame.Joint(side, track.IndexTip)
}

// pinchRaw: thumb tip and index tip within the pinch distance.
func (e *Engine) pinchRaw(side track.Side) bool {
	thumb, ok := e.frame.Joint(side, track.ThumbTip)
	if !ok {
		return false
	}
	index, ok := e.frame.Joint(side, track.IndexTip)
	if !ok {
		return false
	}
	return thumb.Dist(index) < e.cfg.PinchDist
}

// thumbsUpRaw: thumb extended away from the wrist while the other four
// fingertips stay curled near it.
func (e *Engine) thumbsUpRaw(side track.Side) bool {
	wrist, ok := e.frame.Joint(side, track.Wrist)
	if !ok {
		return false
	}
	thumb, ok := e.frame.Joint(side, track.ThumbTip)
	if !ok {
		return false
	}
	if thumb.Dist(wrist) <= e.cfg.ThumbExtendDist {
		return false
	}

	for _, tip := range [4]int{track.IndexTip, track.MiddleTip, track.RingTip, track.PinkyTip} {
		p, ok := e.frame.Joint(side, tip)
		if !ok {
			return false
		}
		if p.Dist(wrist) >= e.cfg.FingerCurlDist {
			return false
		}
	}
	return true
}

// heartRaw: both hands' index tips close together and both thumb tips
// close together, forming the symmetric two-hand heart shape.
func (e *Engine) heartRaw() bool {
	li, ok := e.frame.Joint(track.Left, track.IndexTip)
	if !ok {
		return false
	}
	ri, ok := e.frame.Joint(track.Right, track.IndexTip)
	if !ok {
		return false
	}
	lt, ok := e.frame.Joint(track.Left, track.ThumbTip)
	if !ok {
		return false
	}
	rt, ok := e.frame.Joint(track.Right, track.ThumbTip)
	if !ok {
		return false
	}
	return li.Dist(ri) < e.cfg.HeartJoinDist && lt.Dist(rt) < e.cfg.HeartJoinDist
}

// peaceRaw: index and middle extended and spread, ring and pinky curled.
func (e *Engine) peaceRaw(side track.Side) bool {
	wrist, ok := e.frame.Joint(side, track.Wrist)
	if !ok {
		return false
	}
	index, ok := e.frame.Joint(side, track.IndexTip)
	if !ok {
		return false
	}
	middle, ok := e.frame.Joint(side, track.MiddleTip)
	if !ok {
		return false
	}
	if index.Dist(wrist) <= e.cfg.ThumbExtendDist || middle.Dist(wrist) <= e.cfg.ThumbExtendDist {
		return false
	}
	if index.Dist(middle) < e.cfg.PeaceSpreadDist {
		return false
	}

	for _, tip := range [2]int{track.RingTip, track.PinkyTip} {
		p, ok := e.frame.Joint(side, tip)
		if !ok {
			return false
		}
		if p.Dist(wrist) >= e.cfg.FingerCurlDist {
			return false
		}
	}
	return true
}

// lShapeRaw: thumb and index extended, the remaining fingers curled.
func (e *Engine) lShapeRaw(side track.Side) bool {
	wrist, ok := e.frame.Joint(side, track.Wrist)
	if !ok {
		return false
	}
	thumb, ok := e.frame.Joint(side, track.ThumbTip)
	if !ok {
		return false
	}
	index, ok := e.frame.Joint(side, track.IndexTip)
	if !ok {
		return false
	}
	if thumb.Dist(wrist) <= e.cfg.ThumbExtendDist || index.Dist(wrist) <= e.cfg.ThumbExtendDist {
		return false
	}

	for _, tip := range [3]int{track.MiddleTip, track.RingTip, track.PinkyTip} {
		p, ok := e.frame.Joint(side, tip)
		if !ok {
			return false
		}
		if p.Dist(wrist) >= e.cfg.FingerCurlDist {
			return false
		}
	}
	return true
}

// updateStopPalm runs the composite stop-palm gate for one side: open
// hand, palm near the focused object, thumb-index spread, and the back of
// the hand facing the viewer. All gates must hold for the full hold
// duration; any single gate failing fully resets the hold timer.
func (e *Engine) updateStopPalm(side track.Side, now time.Time) *StopPalm {
	if !e.stopPalmRaw(side) {
		e.stopHold[side] = time.Time{}
		return nil
	}

	held := e.stopHold[side]
	if held.IsZero() {
		e.stopHold[side] = now
		return nil
	}

	if now.Sub(held) < config.Ms(e.cfg.StopPalmHoldMs) {
		return nil
	}

	if last, ok := e.stopFired[side]; ok && now.Sub(last) < config.Ms(e.cfg.StopPalmCooldownMs) {
		return nil
	}

	e.stopFired[side] = now
	e.stopHold[side] = time.Time{}
	return &StopPalm{Side: side}
}

func (e *Engine) stopPalmRaw(side track.Side) bool {
	if e.object == nil || e.viewer == nil {
		return false
	}

	// Gate 1: hand open, not pinching.
	if e.hands[side].Pinch {
		return false
	}

	wrist, ok := e.frame.Joint(side, track.Wrist)
	if !ok {
		return false
	}
	middleMCP, ok := e.frame.Joint(side, track.MiddleMCP)
	if !ok {
		return false
	}
	palm := track.Mid(wrist, middleMCP)

	// Gate 2: palm near the focused object. Prefer surface distance; fall
	// back to center distance with a cushion when bounds are unknown.
	if center, radius, ok := e.object.Bounds(); ok {
		if palm.Dist(center)-radius > e.cfg.StopPalmDist {
			return false
		}
	} else if pos, ok := e.object.WorldPosition(); ok {
		if palm.Dist(pos) > e.cfg.StopPalmDist+e.cfg.StopPalmCushion {
			return false
		}
	} else {
		return false
	}

	// Gate 3: thumb-index spread rejects a partial fist.
	thumb, ok := e.frame.Joint(side, track.ThumbTip)
	if !ok {
		return false
	}
	index, ok := e.frame.Joint(side, track.IndexTip)
	if !ok {
		return false
	}
	if thumb.Dist(index) < e.cfg.StopPalmSpread {
		return false
	}

	// Gate 4: back of the hand facing the viewer.
	normal, ok := e.palmNormal(side)
	if !ok {
		return false
	}
	forward := e.viewer.Forward().Normalized()
	limit := -math.Cos(e.cfg.StopPalmFacingDeg * math.Pi / 180)
	return normal.Dot(forward) <= limit
}

// palmNormal estimates the back-of-hand direction from the wrist and the
// index/pinky knuckles. Left and right hands wind the knuckle triangle in
// opposite directions, so the left normal is flipped.
func (e *Engine) palmNormal(side track.Side) (track.Vec3, bool) {
	wrist, ok := e.frame.Joint(side, track.Wrist)
	if !ok {
		return track.Vec3{}, false
	}
	indexMCP, ok := e.frame.Joint(side, track.IndexMCP)
	if !ok {
		return track.Vec3{}, false
	}
	pinkyMCP, ok := e.frame.Joint(side, track.PinkyMCP)
	if !ok {
		return track.Vec3{}, false
	}

	n := indexMCP.Sub(wrist).Cross(pinkyMCP.Sub(wrist)).Normalized()
	if n.Len() < 0.5 {
		return track.Vec3{}, false
	}
	if side == track.Left {
		n = n.Scale(-1)
	}
	return n, true
}
