// Package interact arbitrates between competing interpretations of the
// same raw hand signals: for any pose the user holds, exactly one of feed
// scrolling, grabbing, two-hand transform, or panel interaction may be in
// effect at a time.
package interact

import (
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/track"
)

// ObjectOwner is the capability interface the focused-object owner must
// implement. The arbiter writes position directly and scale/rotation as
// targets; the owner's tick integrates targets into current values.
type ObjectOwner interface {
	Key() string
	WorldPosition() (track.Vec3, bool)
	Bounds() (center track.Vec3, radius float64, ok bool)
	SetPosition(track.Vec3)
	Scale() float64
	TargetScale() float64
	SetTargetScale(float64)
	Rotation() float64
	SetTargetRotation(float64)
	HaltRotation()
}

// Panel is the overlay panel the arbiter routes UI pinches to.
type Panel interface {
	HitTest(point track.Vec3) (overlay.ControlKind, bool)
	ScrollBy(steps int)
	ShowFor(objectKey string)
	Bump(kind overlay.ControlKind)
}

// Feed advances the content feed by whole steps.
type Feed interface {
	Advance(delta int)
}

// Event is a discrete interaction outcome produced by the arbiter. The
// set of implementations is closed.
type Event interface {
	interactionEvent()
}

// FeedAdvance fires when accumulated scroll motion crosses the step
// threshold. Delta is ±1.
type FeedAdvance struct {
	Delta int
}

// PanelScroll fires when pinch motion over the comments region crosses
// the step threshold.
type PanelScroll struct {
	Steps int
}

// Placed fires when a grab is released and the object stays where it was
// dragged.
type Placed struct {
	Side track.Side
}

// Tap fires when a short, nearly motionless pinch near the object is
// treated as a tap, re-showing the panel.
type Tap struct {
	Side track.Side
}

// PanelShown fires when the panel is shown or re-bound to an object,
// whether by tap or by an L-shape gesture.
type PanelShown struct {
	ObjectKey string
}

// Reaction fires when a recognized gesture or panel control resolves to a
// reaction. Origin is the world point reaction visuals should launch
// from.
type Reaction struct {
	Kind      ReactionKind
	Side      track.Side
	Origin    track.Vec3
	ObjectKey string
}

// CommentPosted fires when the panel's post button is released over.
type CommentPosted struct {
	ObjectKey string
}

func (FeedAdvance) interactionEvent()   {}
func (PanelScroll) interactionEvent()   {}
func (Placed) interactionEvent()        {}
func (Tap) interactionEvent()           {}
func (PanelShown) interactionEvent()    {}
func (Reaction) interactionEvent()      {}
func (CommentPosted) interactionEvent() {}

// ReactionKind identifies a reaction routed to the focused object.
type ReactionKind string

const (
	// ReactionLike is fired by a thumbs-up or the panel's like button.
	ReactionLike ReactionKind = "like"
	// ReactionSave is fired by the two-hand heart pose or the panel's
	// heart button.
	ReactionSave ReactionKind = "save"
	// ReactionRepost is fired by the peace pose or the panel's repost
	// button.
	ReactionRepost ReactionKind = "repost"
)

// Mode is the single interaction mode in effect for the hand pair.
type Mode int

const (
	ModeIdle Mode = iota
	ModeScrollCandidate
	ModeScrollActive
	ModeGrabPending
	ModeGrabbing
	ModeTwoHand
	ModePanel
)

// String returns a short human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeScrollCandidate:
		return "scroll-candidate"
	case ModeScrollActive:
		return "scroll-active"
	case ModeGrabPending:
		return "grab-pending"
	case ModeGrabbing:
		return "grabbing"
	case ModeTwoHand:
		return "two-hand"
	case ModePanel:
		return "panel"
	}
	return "unknown"
}
