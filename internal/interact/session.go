package interact

import (
	"time"

	"github.com/ayusman/mudra/internal/track"
)

// holdTimer is an explicit cancellable deadline checked synchronously
// during the frame update. Setting an already-active timer replaces the
// old deadline, so a superseded hold can never fire late.
type holdTimer struct {
	deadline time.Time
	active   bool
}

func (t *holdTimer) Set(deadline time.Time) {
	t.deadline = deadline
	t.active = true
}

func (t *holdTimer) Cancel() {
	t.active = false
}

func (t *holdTimer) Due(now time.Time) bool {
	return t.active && !now.Before(t.deadline)
}

// GrabSession exists while one hand drags the object. Offset is the
// object position minus the pinch point at acquisition, preserved for the
// whole session so the object does not snap to the hand.
type GrabSession struct {
	Side   track.Side
	Offset track.Vec3
}

// PendingGrab is a provisional grab in the ambiguous middle zone,
// awaiting its hold duration. It promotes to a GrabSession only if the
// same hand remains the sole pincher, has not drifted vertically past the
// cancel threshold, and the object still resolves a position at expiry.
type PendingGrab struct {
	Side   track.Side
	StartY float64
	timer  holdTimer
}

// TwoHandSession is the baseline captured the instant both hands are
// confirmed pinching; all scale and rotation deltas are relative to it.
type TwoHandSession struct {
	BaseDistance float64
	BaseScale    float64
	BaseAngle    float64
	BaseRotation float64
	LeftStart    track.Vec3
	RightStart   track.Vec3

	filteredDistance float64
}

// pinchState is the per-pinch bookkeeping created at pinch start and
// discarded unconditionally at pinch end.
type pinchState struct {
	startAt    time.Time
	startPoint track.Vec3
	lastPoint  track.Vec3
	havePoint  bool

	// Scroll session state.
	scrollArmed bool
	neverScroll bool
	filteredY   float64
	filterSet   bool
	accum       float64
	lastStepAt  time.Time

	// Panel interaction state.
	panel         bool
	panelResolved bool
}
