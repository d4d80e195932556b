package overlay

import (
	"testing"

	"github.com/ayusman/mudra/internal/track"
)

// panelCenter returns the panel's rect center for an anchor, mirroring the
// float offset above the object.
func panelCenter(anchor track.Vec3) track.Vec3 {
	anchor.Y += anchorOffsetY + panelHeight/2
	return anchor
}

func shownPanel(anchor track.Vec3) *Panel {
	p := NewPanel()
	p.ShowFor("obj-1")
	p.MoveTo(anchor)
	return p
}

func TestPanel_HiddenMissesEverything(t *testing.T) {
	p := NewPanel()
	p.MoveTo(track.Vec3{})

	if _, in := p.HitTest(panelCenter(track.Vec3{})); in {
		t.Error("hidden panel should never hit")
	}
}

func TestPanel_HitTestButtonRow(t *testing.T) {
	anchor := track.Vec3{Z: -0.5}
	p := shownPanel(anchor)
	c := panelCenter(anchor)

	// The bottom row splits into four buttons, left to right.
	rowY := c.Y - panelHeight/2 + panelHeight*buttonRowFrac/2
	cases := []struct {
		x    float64
		want ControlKind
	}{
		{c.X - panelWidth*3/8, ControlLike},
		{c.X - panelWidth/8, ControlHeart},
		{c.X + panelWidth/8, ControlRepost},
		{c.X + panelWidth*3/8, ControlPost},
	}
	for _, tc := range cases {
		kind, in := p.HitTest(track.Vec3{X: tc.x, Y: rowY, Z: anchor.Z})
		if !in || kind != tc.want {
			t.Errorf("button at x=%f: got %q in=%v, want %q", tc.x, kind, in, tc.want)
		}
	}
}

func TestPanel_HitTestCommentsRegion(t *testing.T) {
	anchor := track.Vec3{Z: -0.5}
	p := shownPanel(anchor)
	c := panelCenter(anchor)

	kind, in := p.HitTest(track.Vec3{X: c.X, Y: c.Y + panelHeight/4, Z: anchor.Z})
	if !in || kind != ControlComments {
		t.Errorf("upper panel center: got %q in=%v, want comments", kind, in)
	}
}

func TestPanel_HitTestMarginIsInsideButNoControl(t *testing.T) {
	anchor := track.Vec3{Z: -0.5}
	p := shownPanel(anchor)
	c := panelCenter(anchor)

	// A point just inside the right edge, above the button row, falls on
	// the comment margin: inside the panel, over no control.
	kind, in := p.HitTest(track.Vec3{
		X: c.X + panelWidth/2 - commentMargin/2,
		Y: c.Y + panelHeight/4,
		Z: anchor.Z,
	})
	if !in {
		t.Fatal("margin point should still be inside the panel")
	}
	if kind != "" {
		t.Errorf("margin point resolved to control %q", kind)
	}
}

func TestPanel_HitTestRespectsDepthSlab(t *testing.T) {
	anchor := track.Vec3{Z: -0.5}
	p := shownPanel(anchor)
	c := panelCenter(anchor)

	if _, in := p.HitTest(track.Vec3{X: c.X, Y: c.Y, Z: anchor.Z + panelDepth}); in {
		t.Error("point outside the depth slab should miss")
	}
}

func TestPanel_ShowForNewObjectResetsScroll(t *testing.T) {
	p := NewPanel()
	p.ShowFor("obj-1")
	p.ScrollBy(7)

	// Re-showing the same object keeps the scroll position.
	p.ShowFor("obj-1")
	if p.ScrollOffset() != 7 {
		t.Errorf("re-show reset the scroll: %d", p.ScrollOffset())
	}

	// Binding a different object resets it.
	p.ShowFor("obj-2")
	if p.ScrollOffset() != 0 {
		t.Errorf("new object kept the old scroll: %d", p.ScrollOffset())
	}
	if p.ObjectKey() != "obj-2" {
		t.Errorf("bound key = %q", p.ObjectKey())
	}
}

func TestPanel_ScrollClamps(t *testing.T) {
	p := NewPanel()
	p.ShowFor("obj-1")

	p.ScrollBy(-5)
	if p.ScrollOffset() != 0 {
		t.Errorf("scroll went below zero: %d", p.ScrollOffset())
	}

	p.ScrollBy(maxScrollSteps + 100)
	if p.ScrollOffset() != maxScrollSteps {
		t.Errorf("scroll exceeded the cap: %d", p.ScrollOffset())
	}
}

func TestPanel_HideTogglesVisibility(t *testing.T) {
	p := shownPanel(track.Vec3{})
	if !p.Visible() {
		t.Fatal("shown panel should be visible")
	}
	p.Hide()
	if p.Visible() {
		t.Error("hidden panel should not be visible")
	}
}

func TestPanel_BumpCountsPerObject(t *testing.T) {
	p := NewPanel()

	// Unbound bumps are discarded.
	p.Bump(ControlLike)
	if p.Count("obj-1", ControlLike) != 0 {
		t.Error("unbound bump should be discarded")
	}

	p.ShowFor("obj-1")
	p.Bump(ControlLike)
	p.Bump(ControlLike)
	p.Bump(ControlHeart)

	if got := p.Count("obj-1", ControlLike); got != 2 {
		t.Errorf("like count = %d, want 2", got)
	}
	if got := p.Count("obj-1", ControlHeart); got != 1 {
		t.Errorf("heart count = %d, want 1", got)
	}
	if got := p.Count("obj-2", ControlLike); got != 0 {
		t.Errorf("unrelated object count = %d, want 0", got)
	}
}
