package interact

import (
	"log"
	"math"
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/track"
)

// Arbiter resolves gesture events plus continuous joint positions into the
// single interaction mode in effect. It runs once per frame, after the
// gesture engine, and owns every session (grab, pending grab, two-hand,
// scroll, panel) exclusively: creating one cancels whatever it supersedes.
type Arbiter struct {
	cfg    *config.Tuning
	engine *gesture.Engine
	object ObjectOwner
	panel  Panel
	feed   Feed

	reactions *Dispatcher

	pinches map[track.Side]*pinchState
	grab    *GrabSession
	pending *PendingGrab
	twoHand *TwoHandSession

	lastTapAt time.Time
	out       []Event
}

// NewArbiter creates an arbiter. object must be non-nil; panel and feed
// may be nil, disabling panel interaction and feed advancement.
func NewArbiter(cfg *config.Tuning, engine *gesture.Engine, object ObjectOwner, panel Panel, feed Feed) *Arbiter {
	return &Arbiter{
		cfg:       cfg,
		engine:    engine,
		object:    object,
		panel:     panel,
		feed:      feed,
		reactions: NewDispatcher(cfg, panel, object),
		pinches:   make(map[track.Side]*pinchState),
	}
}

// Update consumes this frame's gesture events and joint positions and
// returns the interaction events that fired. All timing derives from the
// frame timestamp.
func (a *Arbiter) Update(frame *track.Frame, events []gesture.Event) []Event {
	now := frame.Time
	a.out = nil

	for _, ev := range events {
		switch ev := ev.(type) {
		case gesture.PinchStart:
			a.onPinchStart(ev.Side, now)
		case gesture.PinchEnd:
			a.onPinchEnd(ev.Side, now)
		case gesture.StopPalm:
			// Open-palm stop halts any residual spin.
			a.object.HaltRotation()
		default:
			a.out = append(a.out, a.reactions.HandleGesture(ev, a.bothPinching(), now)...)
		}
	}

	a.trackPoints()
	a.updatePending(now)
	a.updateTwoHand(now)
	a.updateGrab()
	a.updateScroll(now)
	a.updatePanel(now)

	return a.out
}

// Mode reports the single interaction mode currently in effect.
func (a *Arbiter) Mode() Mode {
	switch {
	case a.twoHand != nil:
		return ModeTwoHand
	case a.grab != nil:
		return ModeGrabbing
	case a.pending != nil:
		return ModeGrabPending
	}
	for _, side := range track.Sides {
		st := a.pinches[side]
		if st == nil {
			continue
		}
		if st.panel {
			return ModePanel
		}
		if st.scrollArmed && !st.neverScroll {
			if !st.lastStepAt.IsZero() {
				return ModeScrollActive
			}
			return ModeScrollCandidate
		}
	}
	return ModeIdle
}

// Grabbing reports whether a grab session is active, for tests and
// diagnostics.
func (a *Arbiter) Grabbing() bool { return a.grab != nil }

// TwoHanded reports whether a two-hand transform session is active.
func (a *Arbiter) TwoHanded() bool { return a.twoHand != nil }

// GrabPendingActive reports whether a provisional grab is awaiting its hold.
func (a *Arbiter) GrabPendingActive() bool { return a.pending != nil }

func (a *Arbiter) emit(ev Event) {
	a.out = append(a.out, ev)
}

func (a *Arbiter) bothPinching() bool {
	return a.engine.State(track.Left).Pinch && a.engine.State(track.Right).Pinch
}

// panelOwned reports whether the given hand's pinch is a panel session.
func (a *Arbiter) panelOwned(side track.Side) bool {
	st := a.pinches[side]
	return st != nil && st.panel
}

// twoHandEligible reports whether a two-hand session may run: both hands
// pinching and neither of them owning a panel interaction. A hand is in at
// most one session at a time, so a panel pinch never doubles as half of a
// transform.
func (a *Arbiter) twoHandEligible() bool {
	return a.bothPinching() && !a.panelOwned(track.Left) && !a.panelOwned(track.Right)
}

// onPinchStart resolves a newly-started pinch by the fixed priority order:
// panel hit, two-hand deferral, instant grab, far scroll arming, or a
// hold-to-grab in the ambiguous middle zone.
func (a *Arbiter) onPinchStart(side track.Side, now time.Time) {
	st := &pinchState{startAt: now}
	a.pinches[side] = st

	point, havePoint := a.engine.PinchMidpoint(side)
	if havePoint {
		st.startPoint = point
		st.lastPoint = point
		st.havePoint = true
	}

	// 1. Pinch over the panel: UI interaction, never scroll.
	if havePoint && a.panel != nil {
		if _, in := a.panel.HitTest(point); in {
			st.panel = true
			st.neverScroll = true
			a.cancelPending()
			return
		}
	}

	// 2. Other hand already pinching (and not inside the panel): defer to
	// two-hand capture. A panel-owning hand keeps its session to itself.
	if a.engine.State(side.Other()).Pinch && !a.panelOwned(side.Other()) {
		st.neverScroll = true
		a.cancelPending()
		return
	}

	// Without a pinch point the remaining checks cannot run; the pinch
	// stays inert rather than guessing.
	if !havePoint {
		st.neverScroll = true
		return
	}

	// 3. Close to the object surface: grab immediately.
	dist, havePos := a.surfaceDistance(point)
	if havePos && dist <= a.cfg.GrabInstantDist {
		a.acquireGrab(side, point, st)
		return
	}

	// 4. Far from the object (or no object at all): arm scrolling.
	if dist >= a.cfg.ScrollFarDist {
		st.scrollArmed = true
		return
	}

	// 5. Ambiguous middle zone: never scroll, hold to grab.
	st.neverScroll = true
	a.cancelPending()
	p := &PendingGrab{Side: side, StartY: point.Y}
	p.timer.Set(now.Add(config.Ms(a.cfg.GrabHoldMs)))
	a.pending = p
}

// onPinchEnd releases whatever the pinch owned and runs the tap fallback.
// Per-pinch bookkeeping is reset unconditionally.
func (a *Arbiter) onPinchEnd(side track.Side, now time.Time) {
	st := a.pinches[side]
	delete(a.pinches, side)

	if a.pending != nil && a.pending.Side == side {
		a.cancelPending()
	}
	if a.grab != nil && a.grab.Side == side {
		a.grab = nil
		a.emit(Placed{Side: side})
		log.Printf("interact: object placed (%s)", side)
	}
	if a.twoHand != nil {
		a.dissolveTwoHand()
	}
	if st == nil {
		return
	}

	release := st.lastPoint
	haveRelease := st.havePoint
	if point, ok := a.engine.PinchMidpoint(side); ok {
		release = point
		haveRelease = true
	}

	if st.panel && haveRelease {
		a.resolvePanelRelease(st, side, release, now)
	}

	a.maybeTap(st, side, release, haveRelease, now)
}

// resolvePanelRelease re-tests the release point and fires the control
// under it exactly once. A release over empty panel space is a no-op.
func (a *Arbiter) resolvePanelRelease(st *pinchState, side track.Side, release track.Vec3, now time.Time) {
	kind, in := a.panel.HitTest(release)
	if !in {
		return
	}

	switch kind {
	case overlay.ControlLike:
		if ev, ok := a.reactions.Fire(ReactionLike, side, release, now); ok {
			st.panelResolved = true
			a.emit(ev)
		}
	case overlay.ControlHeart:
		if ev, ok := a.reactions.Fire(ReactionSave, side, release, now); ok {
			st.panelResolved = true
			a.emit(ev)
		}
	case overlay.ControlRepost:
		if ev, ok := a.reactions.Fire(ReactionRepost, side, release, now); ok {
			st.panelResolved = true
			a.emit(ev)
		}
	case overlay.ControlPost:
		st.panelResolved = true
		a.emit(CommentPosted{ObjectKey: a.object.Key()})
	}
}

// maybeTap treats a short, nearly motionless pinch released near the
// object as a tap that re-shows the panel, rate-limited against debounce
// edge double-fires.
func (a *Arbiter) maybeTap(st *pinchState, side track.Side, release track.Vec3, haveRelease bool, now time.Time) {
	if st.panelResolved || !haveRelease || !st.havePoint {
		return
	}
	if now.Sub(st.startAt) >= config.Ms(a.cfg.TapMaxDurationMs) {
		return
	}
	if st.lastPoint.Dist(st.startPoint) >= a.cfg.TapMaxTravel {
		return
	}
	pos, ok := a.object.WorldPosition()
	if !ok || release.Dist(pos) > a.cfg.TapProximity {
		return
	}
	if !a.lastTapAt.IsZero() && now.Sub(a.lastTapAt) < config.Ms(a.cfg.TapCooldownMs) {
		return
	}

	a.lastTapAt = now
	if a.panel != nil {
		a.panel.ShowFor(a.object.Key())
		a.emit(PanelShown{ObjectKey: a.object.Key()})
	}
	a.emit(Tap{Side: side})
}

// trackPoints refreshes each held pinch's last known point, feeding tap
// travel measurement and panel release resolution.
func (a *Arbiter) trackPoints() {
	for side, st := range a.pinches {
		if point, ok := a.engine.PinchMidpoint(side); ok {
			st.lastPoint = point
			if !st.havePoint {
				st.startPoint = point
				st.havePoint = true
			}
		}
	}
}

// updatePending checks the hold-to-grab timer: promote on expiry if the
// hand held still and alone, cancel on any violation.
func (a *Arbiter) updatePending(now time.Time) {
	p := a.pending
	if p == nil {
		return
	}

	if !a.engine.State(p.Side).Pinch {
		a.cancelPending()
		return
	}
	if a.engine.State(p.Side.Other()).Pinch && !a.panelOwned(p.Side.Other()) {
		a.cancelPending()
		return
	}

	point, ok := a.engine.PinchMidpoint(p.Side)
	if ok && math.Abs(point.Y-p.StartY) > a.cfg.GrabCancelDrift {
		a.cancelPending()
		return
	}

	if !p.timer.Due(now) {
		return
	}

	a.cancelPending()
	if !ok {
		return
	}
	if _, placed := a.object.WorldPosition(); !placed {
		return
	}
	if st := a.pinches[p.Side]; st != nil {
		a.acquireGrab(p.Side, point, st)
	}
}

// updateTwoHand captures the baseline once both hands are confirmed
// pinching, then applies filtered scale and rotation deltas relative to
// it each frame.
func (a *Arbiter) updateTwoHand(now time.Time) {
	if !a.twoHandEligible() {
		if a.twoHand != nil {
			a.dissolveTwoHand()
		}
		return
	}

	// Two-hand mode takes precedence over any one-hand session.
	a.grab = nil
	a.cancelPending()

	lm, lok := a.engine.PinchMidpoint(track.Left)
	rm, rok := a.engine.PinchMidpoint(track.Right)
	if !lok || !rok {
		return
	}

	if a.twoHand == nil {
		base := lm.Dist(rm)
		if base < 1e-6 {
			return
		}
		a.twoHand = &TwoHandSession{
			BaseDistance:     base,
			BaseScale:        a.object.Scale(),
			BaseAngle:        yawOf(rm.Sub(lm)),
			BaseRotation:     a.object.Rotation(),
			LeftStart:        lm,
			RightStart:       rm,
			filteredDistance: base,
		}
		log.Printf("interact: two-hand baseline captured (%.3fm)", base)
		return
	}

	s := a.twoHand

	// Scale: filtered distance ratio, gain exponent, clamp, deadband.
	d := lm.Dist(rm)
	s.filteredDistance += (d - s.filteredDistance) * a.cfg.TwoHandFilterAlpha
	ratio := s.filteredDistance / s.BaseDistance
	scale := s.BaseScale * math.Pow(ratio, a.cfg.ScaleGain)
	if scale < a.cfg.ScaleMin {
		scale = a.cfg.ScaleMin
	}
	if scale > a.cfg.ScaleMax {
		scale = a.cfg.ScaleMax
	}
	if math.Abs(scale-a.object.TargetScale()) > a.cfg.ScaleDeadband {
		a.object.SetTargetScale(scale)
	}

	// Rotation: horizontal-plane angle of the inter-hand vector relative
	// to baseline, gated on real hand displacement and a deadzone, with a
	// per-frame step clamp. The smoothed rotation is applied by the
	// object's spring, not here.
	moved := lm.Dist(s.LeftStart) + rm.Dist(s.RightStart)
	if moved < a.cfg.RotateMoveEpsilon {
		return
	}
	delta := wrapAngle(yawOf(rm.Sub(lm)) - s.BaseAngle)
	if math.Abs(delta) < a.cfg.RotateDeadzoneDeg*math.Pi/180 {
		return
	}
	desired := s.BaseRotation + delta
	step := wrapAngle(desired - a.object.Rotation())
	maxStep := a.cfg.RotateMaxStepDeg * math.Pi / 180
	if step > maxStep {
		step = maxStep
	}
	if step < -maxStep {
		step = -maxStep
	}
	a.object.SetTargetRotation(a.object.Rotation() + step)
}

// updateGrab drags the object with the grabbing hand, keeping the offset
// captured at acquisition.
func (a *Arbiter) updateGrab() {
	g := a.grab
	if g == nil {
		return
	}
	if a.twoHandEligible() {
		a.grab = nil
		return
	}
	if !a.engine.State(g.Side).Pinch {
		a.grab = nil
		return
	}
	if point, ok := a.engine.PinchMidpoint(g.Side); ok {
		a.object.SetPosition(point.Add(g.Offset))
	}
}

// updateScroll accumulates filtered vertical pinch motion into discrete
// feed steps for an armed single-hand pinch.
func (a *Arbiter) updateScroll(now time.Time) {
	for _, side := range track.Sides {
		st := a.pinches[side]
		if st == nil || st.panel {
			continue
		}
		if !a.engine.State(side).Pinch {
			continue
		}
		// A pinch on the other hand suspends scrolling, unless that pinch
		// is busy with the panel and can never become half of a two-hand.
		if a.engine.State(side.Other()).Pinch && !a.panelOwned(side.Other()) {
			continue
		}
		point, ok := a.engine.PinchMidpoint(side)
		if !ok {
			continue
		}

		// Drifting into grab range permanently disarms this pinch.
		if d, havePos := a.surfaceDistance(point); havePos && d <= a.cfg.GrabInstantDist {
			st.neverScroll = true
		}
		if !st.scrollArmed || st.neverScroll {
			continue
		}

		if now.Sub(st.startAt) < config.Ms(a.cfg.ScrollMinHoldMs) || !st.filterSet {
			st.filteredY = point.Y
			st.filterSet = true
			continue
		}

		prev := st.filteredY
		st.filteredY += (point.Y - st.filteredY) * a.cfg.ScrollFilterAlpha
		dy := st.filteredY - prev
		if math.Abs(dy) > a.cfg.ScrollVelocityFloor {
			st.accum += dy
		}
		if math.Abs(st.accum) < a.cfg.ScrollStepThreshold {
			continue
		}
		if !st.lastStepAt.IsZero() && now.Sub(st.lastStepAt) < config.Ms(a.cfg.ScrollCooldownMs) {
			continue
		}

		delta := 1
		if st.accum > 0 {
			delta = -1
		}
		if a.feed != nil {
			a.feed.Advance(delta)
		}
		a.emit(FeedAdvance{Delta: delta})
		st.accum = 0
		st.lastStepAt = now
	}
}

// updatePanel scrolls the comments region with the same filtered-step
// mechanics as the feed, on a shorter cooldown.
func (a *Arbiter) updatePanel(now time.Time) {
	for _, side := range track.Sides {
		st := a.pinches[side]
		if st == nil || !st.panel {
			continue
		}
		if !a.engine.State(side).Pinch {
			continue
		}
		point, ok := a.engine.PinchMidpoint(side)
		if !ok {
			continue
		}

		kind, in := a.panel.HitTest(point)
		if !in || kind != overlay.ControlComments {
			st.filterSet = false
			continue
		}

		if !st.filterSet {
			st.filteredY = point.Y
			st.filterSet = true
			continue
		}

		prev := st.filteredY
		st.filteredY += (point.Y - st.filteredY) * a.cfg.ScrollFilterAlpha
		dy := st.filteredY - prev
		if math.Abs(dy) > a.cfg.ScrollVelocityFloor {
			st.accum += dy
		}
		if math.Abs(st.accum) < a.cfg.ScrollStepThreshold {
			continue
		}
		if !st.lastStepAt.IsZero() && now.Sub(st.lastStepAt) < config.Ms(a.cfg.PanelScrollCooldownMs) {
			continue
		}

		steps := 1
		if st.accum > 0 {
			steps = -1
		}
		a.panel.ScrollBy(steps)
		a.emit(PanelScroll{Steps: steps})
		st.accum = 0
		st.lastStepAt = now
	}
}

// acquireGrab starts a grab session, recording the offset so the object
// does not snap to the hand.
func (a *Arbiter) acquireGrab(side track.Side, point track.Vec3, st *pinchState) {
	pos, ok := a.object.WorldPosition()
	if !ok {
		return
	}
	a.cancelPending()
	st.neverScroll = true
	a.grab = &GrabSession{Side: side, Offset: pos.Sub(point)}
	log.Printf("interact: grab acquired (%s)", side)
}

func (a *Arbiter) cancelPending() {
	if a.pending != nil {
		a.pending.timer.Cancel()
		a.pending = nil
	}
}

func (a *Arbiter) dissolveTwoHand() {
	a.twoHand = nil
	a.object.HaltRotation()
	log.Printf("interact: two-hand session dissolved")
}

// surfaceDistance is the proximity metric for grab/scroll gating: object
// center distance minus bounding radius minus a margin, clamped at zero.
// Returns ok=false (infinite distance) when the object has no position.
func (a *Arbiter) surfaceDistance(point track.Vec3) (float64, bool) {
	if center, radius, ok := a.object.Bounds(); ok {
		d := point.Dist(center) - radius - a.cfg.SurfaceMargin
		if d < 0 {
			d = 0
		}
		return d, true
	}
	if pos, ok := a.object.WorldPosition(); ok {
		d := point.Dist(pos) - a.cfg.SurfaceMargin
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return math.Inf(1), false
}

// yawOf is the signed angle of v projected onto the horizontal plane.
func yawOf(v track.Vec3) float64 {
	return math.Atan2(v.Z, v.X)
}

// wrapAngle wraps an angle into [-π, π].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
