// Package overlay models the heads-up panel attached to the focused
// object: control regions, world-space hit testing, comment scrolling, and
// per-object reaction counters. Rasterizing the panel is an external
// concern; this package only decides what a world point is over.
package overlay

import (
	"math"
	"sync"

	"github.com/ayusman/mudra/internal/track"
)

// ControlKind identifies a hit-testable region of the panel.
type ControlKind string

const (
	ControlLike     ControlKind = "like"
	ControlHeart    ControlKind = "heart"
	ControlRepost   ControlKind = "repost"
	ControlPost     ControlKind = "post"
	ControlComments ControlKind = "comments"
)

// Panel geometry, meters. The panel is an upright rect centered on its
// anchor: a comments strip across the upper two thirds and a button row
// along the bottom.
const (
	panelWidth     = 0.36
	panelHeight    = 0.28
	panelDepth     = 0.06 // hit-test slab thickness
	buttonRowFrac  = 0.3  // bottom fraction occupied by buttons
	commentMargin  = 0.02
	anchorOffsetY  = 0.05 // panel floats above the object anchor
	maxScrollSteps = 500
)

// Panel is the overlay panel state for whatever object it is bound to.
type Panel struct {
	mu sync.Mutex

	anchor    track.Vec3
	visible   bool
	objectKey string

	scrollOffset int
	counters     map[string]map[ControlKind]int
}

// NewPanel creates a hidden, unbound panel.
func NewPanel() *Panel {
	return &Panel{
		counters: make(map[string]map[ControlKind]int),
	}
}

// ShowFor binds the panel to an object and makes it visible. Re-binding to
// the same object just re-shows it; a new object resets the comment
// scroll.
func (p *Panel) ShowFor(objectKey string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.objectKey != objectKey {
		p.scrollOffset = 0
	}
	p.objectKey = objectKey
	p.visible = true
}

// Hide makes the panel invisible; hit tests miss while hidden.
func (p *Panel) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = false
}

// Visible reports whether the panel is currently shown.
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// ObjectKey returns the key of the object the panel is bound to.
func (p *Panel) ObjectKey() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.objectKey
}

// MoveTo re-anchors the panel, typically every frame to track the object.
func (p *Panel) MoveTo(anchor track.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchor = anchor
}

// HitTest resolves a world point to the control region under it. Misses
// while the panel is hidden or when the point is outside the panel slab.
func (p *Panel) HitTest(point track.Vec3) (ControlKind, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.visible {
		return "", false
	}

	center := p.anchor
	center.Y += anchorOffsetY + panelHeight/2

	dx := point.X - center.X
	dy := point.Y - center.Y
	dz := point.Z - center.Z

	if math.Abs(dx) > panelWidth/2 || math.Abs(dy) > panelHeight/2 || math.Abs(dz) > panelDepth/2 {
		return "", false
	}

	// Bottom row: four buttons, left to right.
	if dy < -panelHeight/2+panelHeight*buttonRowFrac {
		q := (dx + panelWidth/2) / panelWidth
		switch {
		case q < 0.25:
			return ControlLike, true
		case q < 0.5:
			return ControlHeart, true
		case q < 0.75:
			return ControlRepost, true
		default:
			return ControlPost, true
		}
	}

	// Upper region: comments strip, inset by a margin. Points on the
	// margin are inside the panel but over no control.
	if math.Abs(dx) <= panelWidth/2-commentMargin && dy <= panelHeight/2-commentMargin {
		return ControlComments, true
	}
	return "", true
}

// ScrollBy advances the comment scroll by the given number of discrete
// steps, clamped so the offset cannot run away.
func (p *Panel) ScrollBy(steps int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.scrollOffset += steps
	if p.scrollOffset < 0 {
		p.scrollOffset = 0
	}
	if p.scrollOffset > maxScrollSteps {
		p.scrollOffset = maxScrollSteps
	}
}

// ScrollOffset returns the current comment scroll position.
func (p *Panel) ScrollOffset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrollOffset
}

// Bump increments the reaction counter of the given kind for the bound
// object, for the transient chip the renderer flashes.
func (p *Panel) Bump(kind ControlKind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.objectKey == "" {
		return
	}
	byKind := p.counters[p.objectKey]
	if byKind == nil {
		byKind = make(map[ControlKind]int)
		p.counters[p.objectKey] = byKind
	}
	byKind[kind]++
}

// Count returns the counter of the given kind for an object.
func (p *Panel) Count(objectKey string, kind ControlKind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters[objectKey][kind]
}
