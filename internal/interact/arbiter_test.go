package interact

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/track"
)

// fakeFeed records feed advances.
type fakeFeed struct {
	advances []int
}

func (f *fakeFeed) Advance(delta int) { f.advances = append(f.advances, delta) }

// harness drives the arbiter through the real gesture engine with scripted
// joint frames, so debounce timing behaves exactly as in production.
type harness struct {
	cfg     *config.Tuning
	eng     *gesture.Engine
	arb     *Arbiter
	obj     *fakeObject
	panel   *fakePanel
	feed    *fakeFeed
	sampler *track.Sampler
}

func newHarness(panel *fakePanel) *harness {
	cfg := config.Default()
	obj := newFakeObject()
	feed := &fakeFeed{}
	eng := gesture.NewEngine(cfg, obj, nil)

	var p Panel
	if panel != nil {
		p = panel
	}
	return &harness{
		cfg:     cfg,
		eng:     eng,
		arb:     NewArbiter(cfg, eng, obj, p, feed),
		obj:     obj,
		panel:   panel,
		feed:    feed,
		sampler: track.NewSampler(0),
	}
}

// step feeds one scripted frame through engine and arbiter.
func (h *harness) step(ms int64, hands ...track.HandReport) []Event {
	f := h.sampler.Sample(track.Report{TimestampMs: ms, Hands: hands})
	return h.arb.Update(f, h.eng.Update(f))
}

// run feeds a frame every 30ms over [fromMs, toMs] and collects events
// with their timestamps.
func (h *harness) run(fromMs, toMs int64, handsAt func(ms int64) []track.HandReport) []timedEvent {
	var out []timedEvent
	for ms := fromMs; ms <= toMs; ms += 30 {
		var hands []track.HandReport
		if handsAt != nil {
			hands = handsAt(ms)
		}
		for _, ev := range h.step(ms, hands...) {
			out = append(out, timedEvent{ms: ms, ev: ev})
		}
	}
	return out
}

type timedEvent struct {
	ms int64
	ev Event
}

// handAt builds a hand report at a base position. Unset joints are spread
// along the X axis so the default layout matches no pose predicate.
func handAt(handedness string, base track.Vec3, joints map[int]track.Vec3) track.HandReport {
	pts := make([]track.Vec3, track.NumJoints)
	for i := range pts {
		pts[i] = base.Add(track.Vec3{X: 0.05 * float64(i)})
	}
	for j, p := range joints {
		pts[j] = base.Add(p)
	}
	return track.HandReport{Points: pts, Handedness: handedness, Score: 0.9}
}

// pinchHand is a hand pinching at the given point.
func pinchHand(handedness string, at track.Vec3) track.HandReport {
	return handAt(handedness, at, map[int]track.Vec3{
		track.ThumbTip: {X: -0.005},
		track.IndexTip: {X: 0.005},
	})
}

func feedAdvances(events []timedEvent) []timedEvent {
	var out []timedEvent
	for _, te := range events {
		if _, ok := te.ev.(FeedAdvance); ok {
			out = append(out, te)
		}
	}
	return out
}

func hasEvent(events []timedEvent, match func(Event) bool) bool {
	for _, te := range events {
		if match(te.ev) {
			return true
		}
	}
	return false
}

func TestArbiter_PinchNearObjectGrabsInstantly(t *testing.T) {
	h := newHarness(nil)
	h.obj.SetPosition(track.Vec3{Z: -0.5})

	// Steady pinch near the surface; the debounced start commits at 120ms
	// and grabs immediately, no hold required.
	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", track.Vec3{Z: -0.3})}
	})
	if !h.arb.Grabbing() {
		t.Fatal("expected an instant grab near the object")
	}
	if h.arb.Mode() != ModeGrabbing {
		t.Fatalf("mode = %v, want grabbing", h.arb.Mode())
	}

	// The object follows the hand with the acquisition offset preserved.
	h.step(150, pinchHand("Right", track.Vec3{X: 0.1, Z: -0.3}))
	pos, _ := h.obj.WorldPosition()
	want := track.Vec3{X: 0.1, Z: -0.5}
	if pos.Dist(want) > 1e-9 {
		t.Errorf("dragged position = %+v, want %+v", pos, want)
	}

	// Release: hand vanishes, the debounced end commits, the object stays
	// where it was placed.
	events := h.run(180, 400, nil)
	if !hasEvent(events, func(ev Event) bool { _, ok := ev.(Placed); return ok }) {
		t.Error("expected a Placed event on release")
	}
	if h.arb.Grabbing() {
		t.Error("grab should be released")
	}
	if h.arb.Mode() != ModeIdle {
		t.Errorf("mode after release = %v, want idle", h.arb.Mode())
	}
	pos, _ = h.obj.WorldPosition()
	if pos.Dist(want) > 1e-9 {
		t.Errorf("object moved after release: %+v", pos)
	}
}

func TestArbiter_FarPinchScrollsFeed(t *testing.T) {
	h := newHarness(nil)
	// No focused object: every pinch is infinitely far, so scroll arms.

	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", track.Vec3{Y: 0.3, Z: -0.4})}
	})
	if h.arb.Mode() != ModeScrollCandidate {
		t.Fatalf("mode = %v, want scroll-candidate", h.arb.Mode())
	}

	// Steady downward drag: discrete advances, never continuous motion.
	events := h.run(150, 1200, func(ms int64) []track.HandReport {
		y := 0.3 - 0.02*float64(ms-120)/30
		return []track.HandReport{pinchHand("Right", track.Vec3{Y: y, Z: -0.4})}
	})

	fires := feedAdvances(events)
	if len(fires) < 2 {
		t.Fatalf("expected repeated feed advances, got %d", len(fires))
	}
	for i, f := range fires {
		if f.ev.(FeedAdvance).Delta != 1 {
			t.Errorf("advance %d delta = %d, want 1", i, f.ev.(FeedAdvance).Delta)
		}
		if i > 0 && f.ms-fires[i-1].ms < int64(h.cfg.ScrollCooldownMs) {
			t.Errorf("advances %d and %d only %dms apart", i-1, i, f.ms-fires[i-1].ms)
		}
	}
	if len(h.feed.advances) != len(fires) {
		t.Errorf("feed recorded %d advances, events carried %d", len(h.feed.advances), len(fires))
	}
	if h.arb.Mode() != ModeScrollActive {
		t.Errorf("mode = %v, want scroll-active", h.arb.Mode())
	}
}

func TestArbiter_UpwardDragScrollsBackward(t *testing.T) {
	h := newHarness(nil)

	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", track.Vec3{Y: -0.3, Z: -0.4})}
	})
	events := h.run(150, 1200, func(ms int64) []track.HandReport {
		y := -0.3 + 0.02*float64(ms-120)/30
		return []track.HandReport{pinchHand("Right", track.Vec3{Y: y, Z: -0.4})}
	})

	fires := feedAdvances(events)
	if len(fires) == 0 {
		t.Fatal("expected feed advances")
	}
	for i, f := range fires {
		if f.ev.(FeedAdvance).Delta != -1 {
			t.Errorf("advance %d delta = %d, want -1", i, f.ev.(FeedAdvance).Delta)
		}
	}
}

func TestArbiter_ScrollPermanentlyDisarmsNearObject(t *testing.T) {
	h := newHarness(nil)
	h.obj.SetPosition(track.Vec3{Z: -0.5})

	// Arm far from the object.
	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", track.Vec3{Y: 0.5, Z: -0.5})}
	})
	if h.arb.Mode() != ModeScrollCandidate {
		t.Fatalf("mode = %v, want scroll-candidate", h.arb.Mode())
	}

	// Drift into grab range, then back out and drag hard: the pinch is
	// disarmed for its whole lifetime.
	h.step(150, pinchHand("Right", track.Vec3{Y: 0.1, Z: -0.5}))
	events := h.run(180, 1200, func(ms int64) []track.HandReport {
		y := 0.5 - 0.02*float64(ms-150)/30
		return []track.HandReport{pinchHand("Right", track.Vec3{Y: y, Z: -0.5})}
	})

	if len(feedAdvances(events)) != 0 {
		t.Error("disarmed pinch must never scroll")
	}
	if h.arb.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.arb.Mode())
	}
}

func TestArbiter_MiddleZoneHoldPromotesToGrab(t *testing.T) {
	h := newHarness(nil)
	h.obj.SetPosition(track.Vec3{Z: -0.5})
	at := track.Vec3{Z: -0.14} // between the grab and scroll radii

	hold := func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", at)}
	}

	h.run(0, 300, hold)
	if !h.arb.GrabPendingActive() {
		t.Fatal("expected a pending grab in the middle zone")
	}
	if h.arb.Mode() != ModeGrabPending {
		t.Fatalf("mode = %v, want grab-pending", h.arb.Mode())
	}
	if h.arb.Grabbing() {
		t.Fatal("grab must not start before the hold elapses")
	}

	// 330ms: the 200ms hold since the 120ms commit has elapsed.
	h.run(330, 360, hold)
	if !h.arb.Grabbing() {
		t.Error("held pinch should promote to a grab")
	}
	if h.arb.GrabPendingActive() {
		t.Error("pending state should clear on promotion")
	}
}

func TestArbiter_PendingGrabCancelsOnVerticalDrift(t *testing.T) {
	h := newHarness(nil)
	h.obj.SetPosition(track.Vec3{Z: -0.5})
	at := track.Vec3{Z: -0.14}

	h.run(0, 180, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", at)}
	})
	if !h.arb.GrabPendingActive() {
		t.Fatal("expected a pending grab")
	}

	// Drift past the cancel threshold before the hold elapses.
	drifted := at.Add(track.Vec3{Y: 0.06})
	h.run(210, 400, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", drifted)}
	})

	if h.arb.GrabPendingActive() {
		t.Error("drift should cancel the pending grab")
	}
	if h.arb.Grabbing() {
		t.Error("a drifted pending grab must not promote")
	}
	if h.arb.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.arb.Mode())
	}
}

func TestArbiter_SecondPinchSupersedesPending(t *testing.T) {
	h := newHarness(nil)
	h.obj.SetPosition(track.Vec3{Z: -0.5})

	right := pinchHand("Right", track.Vec3{X: 0.15, Z: -0.14})
	left := pinchHand("Left", track.Vec3{X: -0.15, Z: -0.14})

	// Right alone: pending grab by 120ms.
	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{right}
	})
	if !h.arb.GrabPendingActive() {
		t.Fatal("expected a pending grab")
	}

	// Left joins at 150ms and commits at 330ms, just past the pending
	// deadline; the new pinch start still supersedes the hold before it
	// can promote. Two-hand wins, pending dies.
	h.run(150, 450, func(int64) []track.HandReport {
		return []track.HandReport{right, left}
	})

	if h.arb.GrabPendingActive() {
		t.Error("second pinch should cancel the pending grab")
	}
	if h.arb.Grabbing() {
		t.Error("grab and two-hand are mutually exclusive")
	}
	if !h.arb.TwoHanded() {
		t.Error("both hands pinching should open a two-hand session")
	}
}

func TestArbiter_TwoHandScaleFollowsDistanceRatio(t *testing.T) {
	h := newHarness(nil)

	apart := func(half float64) []track.HandReport {
		return []track.HandReport{
			pinchHand("Left", track.Vec3{X: -half, Z: -0.4}),
			pinchHand("Right", track.Vec3{X: half, Z: -0.4}),
		}
	}

	// Both pinches commit together; the baseline is 0.3m.
	h.run(0, 120, func(int64) []track.HandReport { return apart(0.15) })
	if !h.arb.TwoHanded() {
		t.Fatal("expected a two-hand session")
	}
	if h.arb.Mode() != ModeTwoHand {
		t.Fatalf("mode = %v, want two-hand", h.arb.Mode())
	}

	// Hands spread to double the baseline. The filtered ratio converges to
	// 2, and the gain exponent maps that to 2^2.2.
	h.run(150, 1200, func(int64) []track.HandReport { return apart(0.3) })

	want := math.Pow(2, h.cfg.ScaleGain)
	if math.Abs(h.obj.targetScale-want) > 0.05*want {
		t.Errorf("target scale = %f, want about %f", h.obj.targetScale, want)
	}
	if h.obj.targetScale > h.cfg.ScaleMax {
		t.Errorf("target scale %f exceeds the clamp", h.obj.targetScale)
	}

	// One hand releases: the session dissolves and residual spin halts.
	h.run(1230, 1500, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Left", track.Vec3{X: -0.3, Z: -0.4})}
	})
	if h.arb.TwoHanded() {
		t.Error("session should dissolve when a hand releases")
	}
	if h.obj.halted == 0 {
		t.Error("dissolving should halt rotation")
	}
	if math.Abs(h.obj.targetScale-want) > 0.05*want {
		t.Error("scale should persist after the session dissolves")
	}
}

func TestArbiter_TwoHandScaleClampsAtMax(t *testing.T) {
	h := newHarness(nil)

	apart := func(half float64) []track.HandReport {
		return []track.HandReport{
			pinchHand("Left", track.Vec3{X: -half, Z: -0.4}),
			pinchHand("Right", track.Vec3{X: half, Z: -0.4}),
		}
	}

	h.run(0, 120, func(int64) []track.HandReport { return apart(0.05) })
	// 0.1m baseline stretched to 1m: raw ratio^gain is far beyond the cap.
	h.run(150, 1500, func(int64) []track.HandReport { return apart(0.5) })

	if h.obj.targetScale != h.cfg.ScaleMax {
		t.Errorf("target scale = %f, want clamped to %f", h.obj.targetScale, h.cfg.ScaleMax)
	}
}

func twoHandRotated(theta float64) []track.HandReport {
	// The inter-hand vector keeps its 0.3m length and rotates by theta in
	// the horizontal plane.
	half := track.Vec3{X: 0.15 * math.Cos(theta), Z: 0.15 * math.Sin(theta)}
	center := track.Vec3{Z: -0.4}
	return []track.HandReport{
		pinchHand("Left", center.Sub(half)),
		pinchHand("Right", center.Add(half)),
	}
}

func TestArbiter_TwoHandRotationFollowsHandAngle(t *testing.T) {
	h := newHarness(nil)

	h.run(0, 120, func(int64) []track.HandReport { return twoHandRotated(0) })
	if !h.arb.TwoHanded() {
		t.Fatal("expected a two-hand session")
	}

	theta := 20 * math.Pi / 180
	h.run(150, 400, func(int64) []track.HandReport { return twoHandRotated(theta) })

	if math.Abs(h.obj.targetRotation-theta) > 1e-9 {
		t.Errorf("target rotation = %f, want %f", h.obj.targetRotation, theta)
	}
}

func TestArbiter_TwoHandRotationDeadzone(t *testing.T) {
	h := newHarness(nil)

	h.run(0, 120, func(int64) []track.HandReport { return twoHandRotated(0) })

	// 1.4 degrees moves the hands past the displacement epsilon but stays
	// inside the angular deadzone: no rotation target is set.
	theta := 1.4 * math.Pi / 180
	h.run(150, 400, func(int64) []track.HandReport { return twoHandRotated(theta) })

	if h.obj.targetRotation != 0 {
		t.Errorf("deadzone rotation leaked through: %f", h.obj.targetRotation)
	}
}

func TestArbiter_TwoHandRotationStepClamp(t *testing.T) {
	h := newHarness(nil)

	h.run(0, 120, func(int64) []track.HandReport { return twoHandRotated(0) })

	// A 70 degree swing is clamped to the per-frame step limit. The fake
	// object never integrates, so the target stays one clamped step out.
	theta := 70 * math.Pi / 180
	h.run(150, 400, func(int64) []track.HandReport { return twoHandRotated(theta) })

	maxStep := h.cfg.RotateMaxStepDeg * math.Pi / 180
	if math.Abs(h.obj.targetRotation-maxStep) > 1e-9 {
		t.Errorf("target rotation = %f, want clamped step %f", h.obj.targetRotation, maxStep)
	}
}

func TestArbiter_GrabYieldsToTwoHand(t *testing.T) {
	h := newHarness(nil)
	h.obj.SetPosition(track.Vec3{Z: -0.5})

	// Instant grab with the right hand.
	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", track.Vec3{Z: -0.3})}
	})
	if !h.arb.Grabbing() {
		t.Fatal("expected a grab")
	}

	// Left pinch joins at 150ms and commits at 330ms: the grab dissolves
	// into a two-hand session.
	h.run(150, 450, func(int64) []track.HandReport {
		return []track.HandReport{
			pinchHand("Right", track.Vec3{Z: -0.3}),
			pinchHand("Left", track.Vec3{X: -0.3, Z: -0.3}),
		}
	})

	if h.arb.Grabbing() {
		t.Error("grab must yield to the two-hand session")
	}
	if !h.arb.TwoHanded() {
		t.Error("expected a two-hand session")
	}
}

func TestArbiter_PanelPinchFiresControlOnRelease(t *testing.T) {
	panel := &fakePanel{
		hit: func(track.Vec3) (overlay.ControlKind, bool) { return overlay.ControlLike, true },
	}
	h := newHarness(panel)
	h.obj.SetPosition(track.Vec3{Z: -0.5})

	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", track.Vec3{Z: -0.3})}
	})
	if h.arb.Mode() != ModePanel {
		t.Fatalf("mode = %v, want panel", h.arb.Mode())
	}
	if h.arb.Grabbing() {
		t.Fatal("a panel pinch must not grab, even near the object")
	}

	events := h.run(150, 400, nil)

	var reaction *Reaction
	for _, te := range events {
		if r, ok := te.ev.(Reaction); ok {
			reaction = &r
		}
		if _, ok := te.ev.(Tap); ok {
			t.Error("a resolved panel release must not double as a tap")
		}
		if _, ok := te.ev.(FeedAdvance); ok {
			t.Error("a panel pinch must never scroll the feed")
		}
	}
	if reaction == nil || reaction.Kind != ReactionLike {
		t.Fatalf("expected a like reaction, got %+v", reaction)
	}
	if len(panel.bumped) != 1 || panel.bumped[0] != overlay.ControlLike {
		t.Errorf("panel bumps = %v", panel.bumped)
	}
}

func TestArbiter_PostReleaseEmitsCommentPosted(t *testing.T) {
	panel := &fakePanel{
		hit: func(track.Vec3) (overlay.ControlKind, bool) { return overlay.ControlPost, true },
	}
	h := newHarness(panel)

	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", track.Vec3{Z: -0.4})}
	})
	events := h.run(150, 400, nil)

	found := false
	for _, te := range events {
		if cp, ok := te.ev.(CommentPosted); ok {
			found = true
			if cp.ObjectKey != h.obj.Key() {
				t.Errorf("comment object = %q", cp.ObjectKey)
			}
		}
	}
	if !found {
		t.Error("expected a CommentPosted event")
	}
}

func TestArbiter_PanelCommentsScrollInSteps(t *testing.T) {
	panel := &fakePanel{
		hit: func(track.Vec3) (overlay.ControlKind, bool) { return overlay.ControlComments, true },
	}
	h := newHarness(panel)

	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", track.Vec3{Y: 0.3, Z: -0.4})}
	})

	events := h.run(150, 1000, func(ms int64) []track.HandReport {
		y := 0.3 - 0.02*float64(ms-120)/30
		return []track.HandReport{pinchHand("Right", track.Vec3{Y: y, Z: -0.4})}
	})

	var fires []timedEvent
	for _, te := range events {
		if _, ok := te.ev.(PanelScroll); ok {
			fires = append(fires, te)
		}
	}
	if len(fires) < 2 {
		t.Fatalf("expected repeated panel scrolls, got %d", len(fires))
	}
	for i := 1; i < len(fires); i++ {
		if fires[i].ms-fires[i-1].ms < int64(h.cfg.PanelScrollCooldownMs) {
			t.Errorf("scrolls %d and %d only %dms apart", i-1, i, fires[i].ms-fires[i-1].ms)
		}
	}
	if len(panel.scrolled) != len(fires) {
		t.Errorf("panel recorded %d scrolls, events carried %d", len(panel.scrolled), len(fires))
	}
}

func TestArbiter_PanelHandExcludedFromTwoHand(t *testing.T) {
	// The comments strip occupies the left half of space, so only the left
	// hand's pinch lands on the panel.
	panel := &fakePanel{
		hit: func(p track.Vec3) (overlay.ControlKind, bool) {
			if p.X < -0.05 {
				return overlay.ControlComments, true
			}
			return "", false
		},
	}
	h := newHarness(panel)

	// Left commits at 120ms and starts scrolling the comments.
	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Left", track.Vec3{X: -0.2, Y: 0.3, Z: -0.4})}
	})
	if h.arb.Mode() != ModePanel {
		t.Fatalf("mode = %v, want panel", h.arb.Mode())
	}

	// Right joins (commits at 330ms) and spreads outward, the opening move
	// of a two-hand transform. The panel hand must not become half of one.
	events := h.run(150, 900, func(ms int64) []track.HandReport {
		y := 0.3 - 0.02*float64(ms-120)/30
		rx := 0.2
		if ms > 450 {
			rx += 0.02 * float64(ms-450) / 30
		}
		return []track.HandReport{
			pinchHand("Left", track.Vec3{X: -0.2, Y: y, Z: -0.4}),
			pinchHand("Right", track.Vec3{X: rx, Z: -0.4}),
		}
	})

	if h.arb.TwoHanded() {
		t.Error("a panel-owning hand must not open a two-hand session")
	}
	if h.obj.targetScale != 1 {
		t.Errorf("two-hand scale leaked through: target %f", h.obj.targetScale)
	}
	if h.obj.targetRotation != 0 {
		t.Errorf("two-hand rotation leaked through: target %f", h.obj.targetRotation)
	}

	// The panel session keeps scrolling, including after the right pinch
	// committed.
	var lastScroll int64 = -1
	for _, te := range events {
		if _, ok := te.ev.(PanelScroll); ok && te.ms > lastScroll {
			lastScroll = te.ms
		}
	}
	if lastScroll < 360 {
		t.Errorf("last panel scroll at %dms; expected scrolling to continue past the second pinch", lastScroll)
	}
	if h.arb.Mode() != ModePanel {
		t.Errorf("mode = %v, want panel", h.arb.Mode())
	}
}

func TestArbiter_QuickPinchNearObjectTaps(t *testing.T) {
	h := newHarness(&fakePanel{})
	h.obj.SetPosition(track.Vec3{Z: -0.5})
	at := track.Vec3{Z: -0.3}

	// Commit at 120ms, release immediately: under the tap duration, no
	// travel, close to the object.
	h.run(0, 120, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", at)}
	})
	events := h.run(150, 400, nil)

	if !hasEvent(events, func(ev Event) bool { _, ok := ev.(Tap); return ok }) {
		t.Fatal("expected a Tap")
	}
	if !hasEvent(events, func(ev Event) bool { _, ok := ev.(PanelShown); return ok }) {
		t.Error("a tap should re-show the panel")
	}
	if len(h.panel.shownFor) != 1 || h.panel.shownFor[0] != h.obj.Key() {
		t.Errorf("panel shows = %v", h.panel.shownFor)
	}

	// A second quick pinch inside the tap cooldown stays silent.
	h.run(430, 550, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", at)}
	})
	events = h.run(580, 800, nil)
	if hasEvent(events, func(ev Event) bool { _, ok := ev.(Tap); return ok }) {
		t.Error("tap cooldown should suppress the second tap")
	}
}

func TestArbiter_LongPinchDoesNotTap(t *testing.T) {
	h := newHarness(&fakePanel{})
	h.obj.SetPosition(track.Vec3{Z: -0.5})
	at := track.Vec3{Z: -0.3}

	// Hold well past the tap duration before releasing.
	h.run(0, 600, func(int64) []track.HandReport {
		return []track.HandReport{pinchHand("Right", at)}
	})
	events := h.run(630, 900, nil)

	if hasEvent(events, func(ev Event) bool { _, ok := ev.(Tap); return ok }) {
		t.Error("a long hold must not register as a tap")
	}
}

func TestArbiter_StopPalmHaltsRotation(t *testing.T) {
	h := newHarness(nil)

	f := h.sampler.Sample(track.Report{TimestampMs: 1000})
	h.arb.Update(f, []gesture.Event{gesture.StopPalm{Side: track.Right}})

	if h.obj.halted != 1 {
		t.Errorf("halted %d times, want 1", h.obj.halted)
	}
}
