package interact

import (
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/track"
)

// Dispatcher maps recognized discrete gestures to reactions, each with an
// independent cooldown keyed by reaction kind, and notifies the overlay
// so it can bump counters and flash a chip.
type Dispatcher struct {
	cfg    *config.Tuning
	panel  Panel
	object ObjectOwner

	lastFired     map[ReactionKind]time.Time
	lastPanelShow time.Time
}

// NewDispatcher creates a dispatcher routing reactions to the given panel
// and object.
func NewDispatcher(cfg *config.Tuning, panel Panel, object ObjectOwner) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		panel:     panel,
		object:    object,
		lastFired: make(map[ReactionKind]time.Time),
	}
}

// HandleGesture maps a non-pinch gesture event to its reaction.
// twoHandPinch suppresses the heart reaction while both hands are
// pinching, so a scale gesture cannot accidentally save.
func (d *Dispatcher) HandleGesture(ev gesture.Event, twoHandPinch bool, now time.Time) []Event {
	switch ev := ev.(type) {
	case gesture.ThumbsUpStart:
		if out, ok := d.Fire(ReactionLike, ev.Side, ev.Origin, now); ok {
			return []Event{out}
		}
	case gesture.HeartStart:
		if twoHandPinch {
			return nil
		}
		if out, ok := d.Fire(ReactionSave, "", track.Vec3{}, now); ok {
			return []Event{out}
		}
	case gesture.PeaceStart:
		if out, ok := d.Fire(ReactionRepost, ev.Side, track.Vec3{}, now); ok {
			return []Event{out}
		}
	case gesture.LShapeStart:
		if d.panel == nil {
			return nil
		}
		if !d.lastPanelShow.IsZero() && now.Sub(d.lastPanelShow) < config.Ms(d.cfg.ReactionCooldownMs) {
			return nil
		}
		d.lastPanelShow = now
		d.panel.ShowFor(d.object.Key())
		return []Event{PanelShown{ObjectKey: d.object.Key()}}
	}
	return nil
}

// Fire emits one reaction of the given kind if its cooldown has elapsed,
// bumping the matching overlay counter. Returns ok=false when the
// reaction was suppressed by its cooldown.
func (d *Dispatcher) Fire(kind ReactionKind, side track.Side, origin track.Vec3, now time.Time) (Event, bool) {
	if last, ok := d.lastFired[kind]; ok && now.Sub(last) < config.Ms(d.cfg.ReactionCooldownMs) {
		return nil, false
	}
	d.lastFired[kind] = now

	if d.panel != nil {
		d.panel.Bump(controlFor(kind))
	}

	return Reaction{
		Kind:      kind,
		Side:      side,
		Origin:    origin,
		ObjectKey: d.object.Key(),
	}, true
}

func controlFor(kind ReactionKind) overlay.ControlKind {
	switch kind {
	case ReactionLike:
		return overlay.ControlLike
	case ReactionSave:
		return overlay.ControlHeart
	case ReactionRepost:
		return overlay.ControlRepost
	}
	return ""
}
