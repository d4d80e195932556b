package app

import (
	"fmt"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/interact"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/track"
)

// fallbackDt is used for the first frame and whenever frame timestamps
// are unusable.
const fallbackDt = 1.0 / 60

// runLoop is the single frame loop: sampler, engine, arbiter, then the
// object's smoothing tick, in that fixed order, one frame at a time.
// Every timer in the pipeline derives from the frame timestamp, so the
// loop itself never consults the wall clock.
func (a *App) runLoop() {
	var last time.Time

	for {
		select {
		case <-a.stopCh:
			return
		case report, ok := <-a.config.Source.Reports():
			if !ok {
				log.Println("app: tracking source exhausted")
				return
			}
			a.installPendingTuning()
			if !a.IsEnabled() {
				continue
			}

			frame := a.sampler.Sample(report)

			dt := fallbackDt
			if !last.IsZero() {
				if d := frame.Time.Sub(last).Seconds(); d > 0 && d < 1 {
					dt = d
				}
			}
			last = frame.Time

			gestureEvents := a.engine.Update(frame)
			interactionEvents := a.arbiter.Update(frame, gestureEvents)
			a.object.Tick(dt)

			// Keep the panel anchored to the object.
			if pos, ok := a.object.WorldPosition(); ok {
				a.panel.MoveTo(pos)
			}

			a.mu.Lock()
			a.mode = a.arbiter.Mode().String()
			a.mu.Unlock()

			a.dispatch(gestureEvents, interactionEvents)
		}
	}
}

// installPendingTuning swaps in a scheduled tuning update at a frame
// boundary. Only the loop goroutine writes the shared Tuning struct the
// engine and arbiter read every frame.
func (a *App) installPendingTuning() {
	a.mu.Lock()
	p := a.pendingTuning
	a.pendingTuning = nil
	a.mu.Unlock()

	if p != nil {
		*a.config.Tuning = *p
	}
}

// dispatch fans this frame's events out to the publish hook, the store,
// and the gesture callback.
func (a *App) dispatch(gestureEvents []gesture.Event, interactionEvents []interact.Event) {
	for _, ev := range gestureEvents {
		name := gestureEventName(ev)
		a.noteGesture(name)
		if a.config.Publish != nil {
			a.config.Publish(name, ev)
		}
	}

	for _, ev := range interactionEvents {
		name := interactionEventName(ev)
		if a.config.Publish != nil {
			a.config.Publish(name, ev)
		}
		a.persist(ev)
	}
}

func (a *App) noteGesture(name string) {
	a.mu.Lock()
	a.lastGesture = name
	fn := a.onGesture
	a.mu.Unlock()

	if fn != nil {
		fn(name)
	}
}

// persist writes durable interaction outcomes to the store. Failures are
// logged and dropped; persistence never stalls the frame loop's frame.
func (a *App) persist(ev interact.Event) {
	if a.config.Store == nil {
		return
	}

	switch ev := ev.(type) {
	case interact.Reaction:
		err := a.config.Store.Reactions().Record(&store.Reaction{
			ObjectKey: ev.ObjectKey,
			Kind:      string(ev.Kind),
			Side:      string(ev.Side),
		})
		if err != nil {
			log.Printf("app: failed to record reaction: %v", err)
		}
	case interact.Placed:
		a.logInteraction("placed", string(ev.Side), "")
	case interact.Tap:
		a.logInteraction("tap", string(ev.Side), "")
	case interact.FeedAdvance:
		a.logInteraction("feed-advance", "", fmt.Sprintf("%+d", ev.Delta))
	case interact.CommentPosted:
		a.logInteraction("comment-posted", "", ev.ObjectKey)
	}
}

func (a *App) logInteraction(kind, side, detail string) {
	err := a.config.Store.Interactions().Record(&store.Interaction{
		Kind:      kind,
		Side:      side,
		ObjectKey: a.object.Key(),
		Detail:    detail,
	})
	if err != nil {
		log.Printf("app: failed to log interaction: %v", err)
	}
}

// gestureEventName names a gesture event for the wire and the tray.
func gestureEventName(ev gesture.Event) string {
	switch ev := ev.(type) {
	case gesture.PinchStart:
		return "pinchstart." + string(ev.Side)
	case gesture.PinchEnd:
		return "pinchend." + string(ev.Side)
	case gesture.ThumbsUpStart:
		return "thumbsupstart." + string(ev.Side)
	case gesture.HeartStart:
		return "heartstart"
	case gesture.PeaceStart:
		return "peacestart." + string(ev.Side)
	case gesture.LShapeStart:
		return "lshapestart." + string(ev.Side)
	case gesture.StopPalm:
		return "stoppalm." + string(ev.Side)
	}
	return "gesture"
}

// interactionEventName names an interaction event for the wire.
func interactionEventName(ev interact.Event) string {
	switch ev.(type) {
	case interact.FeedAdvance:
		return "feedadvance"
	case interact.PanelScroll:
		return "panelscroll"
	case interact.Placed:
		return "placed"
	case interact.Tap:
		return "tap"
	case interact.PanelShown:
		return "panelshown"
	case interact.Reaction:
		return "reaction"
	case interact.CommentPosted:
		return "commentposted"
	}
	return "interaction"
}

// Viewer supplies the viewer's forward direction for palm-orientation
// gating. Tracking data arrives in a viewer-relative frame, so the
// forward vector is fixed: the viewer looks down -Z.
type Viewer struct {
	forward track.Vec3
}

// NewViewer creates a Viewer with the standard forward direction.
func NewViewer() *Viewer {
	return &Viewer{forward: track.Vec3{Z: -1}}
}

// Forward returns the viewer's forward direction.
func (v *Viewer) Forward() track.Vec3 {
	return v.forward
}
