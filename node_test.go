package stage

import (
	"image"
	"testing"
)

// --- Constructor defaults ---

func TestNewNodeDefaults(t *testing.T) {
	ctx := newTestContext(t)
	n := NewNode(ctx, "test")
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != "test" {
		t.Errorf("Name = %q, want %q", n.Name, "test")
	}
	if n.Alpha() != 255 {
		t.Errorf("Alpha = %d, want 255", n.Alpha())
	}
	if !n.Static {
		t.Error("plain node should be static")
	}
	if !n.Opaque || !n.OpaqueToAncestor || n.OpaqueToDescendant || n.OpaqueToSibling {
		t.Errorf("opacity flags = %v %v %v %v, want true true false false",
			n.Opaque, n.OpaqueToAncestor, n.OpaqueToDescendant, n.OpaqueToSibling)
	}
	if n.Displayable() {
		t.Error("plain node should not be displayable")
	}
	if n.Context() != ctx {
		t.Error("Context should return the creating context")
	}
}

func TestUniqueIDs(t *testing.T) {
	ctx := newTestContext(t)
	a := NewNode(ctx, "a")
	b := NewNode(ctx, "b")
	if a.ID == b.ID {
		t.Errorf("IDs should be unique, both = %d", a.ID)
	}
}

func TestNewNodeNilContextPanics(t *testing.T) {
	expectPanic(t, "NewNode(nil)", func() { NewNode(nil, "x") })
}

// --- Tree ---

func TestAddChildPanics(t *testing.T) {
	ctx := newTestContext(t)
	a := NewNode(ctx, "a")
	b := NewNode(ctx, "b")
	a.AddChild(b)
	expectPanic(t, "nil child", func() { a.AddChild(nil) })
	expectPanic(t, "cycle", func() { b.AddChild(a) })
	expectPanic(t, "self", func() { a.AddChild(a) })
	expectPanic(t, "wrong parent", func() { b.RemoveChild(a) })
}

func TestAddChildReparents(t *testing.T) {
	ctx := newTestContext(t)
	p1 := NewNode(ctx, "p1")
	p2 := NewNode(ctx, "p2")
	c := NewNode(ctx, "c")
	p1.AddChild(c)
	p2.AddChild(c)
	if len(p1.Children()) != 0 {
		t.Errorf("p1 children = %d, want 0", len(p1.Children()))
	}
	if c.Parent() != p2 {
		t.Error("child should belong to p2")
	}
	if p2.FindChild("c") != c {
		t.Error("FindChild should find c")
	}
}

func TestRemoveChild(t *testing.T) {
	ctx := newTestContext(t)
	p := NewNode(ctx, "p")
	c := NewNode(ctx, "c")
	p.AddChild(c)
	p.RemoveChild(c)
	if c.Parent() != nil || len(p.Children()) != 0 {
		t.Error("child should be detached")
	}
	if c.Destroyed() {
		t.Error("RemoveChild should not destroy")
	}
}

func TestDestroyIdempotentAndDetaches(t *testing.T) {
	ctx := newTestContext(t)
	p := NewNode(ctx, "p")
	c := NewNode(ctx, "c")
	gc := NewNode(ctx, "gc")
	p.AddChild(c)
	c.AddChild(gc)
	c.Destroy()
	c.Destroy()
	if !c.Destroyed() {
		t.Error("c should be destroyed")
	}
	if len(p.Children()) != 0 {
		t.Error("destroyed child should be detached from its parent")
	}
	if !gc.removed() {
		t.Error("descendant of a destroyed node should count as removed")
	}
	if gc.Destroyed() {
		t.Error("Destroy should not mark descendants")
	}
}

// --- Position ---

func TestChildFollowsParent(t *testing.T) {
	ctx := newTestContext(t)
	p := plainNode(ctx, "p", 0, 0, 100, 100, 0)
	c := plainNode(ctx, "c", 10, 20, 10, 10, 0)
	c.Static = false
	p.AddChild(c)
	if x, y := c.RelativePosition(); x != 10 || y != 20 {
		t.Errorf("relative = (%d, %d), want (10, 20)", x, y)
	}
	p.SetPosition(5, 7)
	if c.X() != 15 || c.Y() != 27 {
		t.Errorf("child = (%d, %d), want (15, 27)", c.X(), c.Y())
	}
}

func TestStaticChildStays(t *testing.T) {
	ctx := newTestContext(t)
	p := plainNode(ctx, "p", 0, 0, 100, 100, 0)
	c := plainNode(ctx, "c", 10, 20, 10, 10, 0)
	p.AddChild(c)
	p.SetPosition(50, 50)
	if c.X() != 10 || c.Y() != 20 {
		t.Errorf("static child = (%d, %d), want (10, 20)", c.X(), c.Y())
	}
}

func TestMovingChildUpdatesRelative(t *testing.T) {
	ctx := newTestContext(t)
	p := plainNode(ctx, "p", 100, 100, 10, 10, 0)
	c := plainNode(ctx, "c", 100, 100, 10, 10, 0)
	c.Static = false
	p.AddChild(c)
	c.Shift(3, 4)
	if x, y := c.RelativePosition(); x != 3 || y != 4 {
		t.Errorf("relative = (%d, %d), want (3, 4)", x, y)
	}
	c.SetRelativePosition(-5, 6)
	if c.X() != 95 || c.Y() != 106 {
		t.Errorf("child = (%d, %d), want (95, 106)", c.X(), c.Y())
	}
}

func TestSetPositionRounds(t *testing.T) {
	ctx := newTestContext(t)
	n := NewNode(ctx, "n")
	n.SetPosition(1.5, -2.5)
	if n.X() != 2 || n.Y() != -3 {
		t.Errorf("position = (%d, %d), want (2, -3)", n.X(), n.Y())
	}
	n.SetX(7.4)
	n.SetY(8.6)
	if n.X() != 7 || n.Y() != 9 {
		t.Errorf("position = (%d, %d), want (7, 9)", n.X(), n.Y())
	}
}

func TestRect(t *testing.T) {
	ctx := newTestContext(t)
	n := plainNode(ctx, "n", 5, 6, 7, 8, 0)
	if got := n.Rect(); got != image.Rect(5, 6, 12, 14) {
		t.Errorf("Rect = %v", got)
	}
}

// --- Size ---

func TestSetSizeClamps(t *testing.T) {
	ctx := newTestContext(t)
	n := NewNode(ctx, "n")
	n.SetSize(-5, 10)
	if n.Width() != 0 || n.Height() != 10 {
		t.Errorf("size = %dx%d, want 0x10", n.Width(), n.Height())
	}
	n.SetWidth(4)
	n.SetHeight(-1)
	if n.Width() != 4 || n.Height() != 0 {
		t.Errorf("size = %dx%d, want 4x0", n.Width(), n.Height())
	}
}

func TestSetSizeAnchored(t *testing.T) {
	tests := []struct {
		name         string
		ax, ay       Anchor
		wantX, wantY int
	}{
		{"leading", AnchorLeading, AnchorLeading, 100, 100},
		{"center", AnchorCenter, AnchorCenter, 125, 125},
		{"trailing", AnchorTrailing, AnchorTrailing, 150, 150},
		{"mixed", AnchorLeading, AnchorTrailing, 100, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(t)
			n := plainNode(ctx, "n", 100, 100, 100, 100, 0)
			n.AnchorX, n.AnchorY = tt.ax, tt.ay
			n.SetSizeAnchored(50, 50)
			if n.X() != tt.wantX || n.Y() != tt.wantY {
				t.Errorf("position = (%d, %d), want (%d, %d)", n.X(), n.Y(), tt.wantX, tt.wantY)
			}
			if n.Width() != 50 || n.Height() != 50 {
				t.Errorf("size = %dx%d, want 50x50", n.Width(), n.Height())
			}
		})
	}
}

// --- Z ---

func TestSetZShiftsDescendants(t *testing.T) {
	ctx := newTestContext(t)
	p := plainNode(ctx, "p", 0, 0, 1, 1, 1)
	c := plainNode(ctx, "c", 0, 0, 1, 1, 2)
	gc := plainNode(ctx, "gc", 0, 0, 1, 1, 2.5)
	p.AddChild(c)
	c.AddChild(gc)
	p.SetZ(4)
	if p.Z() != 4 || c.Z() != 5 || gc.Z() != 5.5 {
		t.Errorf("z = %v %v %v, want 4 5 5.5", p.Z(), c.Z(), gc.Z())
	}
}

// --- Rotation ---

func TestSetRotation(t *testing.T) {
	ctx := newTestContext(t)
	n := plainNode(ctx, "n", 0, 0, 40, 20, 0)
	n.SetRotation(90)
	if n.Width() != 20 || n.Height() != 40 {
		t.Errorf("after 90: %dx%d, want 20x40", n.Width(), n.Height())
	}
	n.SetRotation(270)
	if n.Width() != 20 || n.Height() != 40 {
		t.Errorf("after 270: %dx%d, want 20x40", n.Width(), n.Height())
	}
	n.SetRotation(0)
	if n.Width() != 40 || n.Height() != 20 {
		t.Errorf("after 0: %dx%d, want 40x20", n.Width(), n.Height())
	}
	if n.Rotation() != 0 {
		t.Errorf("Rotation = %d, want 0", n.Rotation())
	}
	expectPanic(t, "SetRotation(45)", func() { n.SetRotation(45) })
}

func TestSetRotationCenterAnchored(t *testing.T) {
	ctx := newTestContext(t)
	n := plainNode(ctx, "n", 100, 100, 40, 20, 0)
	n.AnchorX, n.AnchorY = AnchorCenter, AnchorCenter
	n.SetRotation(90)
	if n.X() != 110 || n.Y() != 90 {
		t.Errorf("position = (%d, %d), want (110, 90)", n.X(), n.Y())
	}
}

// --- Scheduling ---

func TestScheduleChildrenFirstByZ(t *testing.T) {
	ctx := newTestContext(t)
	root := plainNode(ctx, "root", 0, 0, 1, 1, 1)
	a := plainNode(ctx, "a", 0, 0, 1, 1, 1)
	b := plainNode(ctx, "b", 0, 0, 1, 1, 0)
	a1 := plainNode(ctx, "a1", 0, 0, 1, 1, 2)
	root.AddChildren(a, b)
	a.AddChild(a1)

	got := root.Schedule()
	want := []*Node{b, a, root, a1}
	if len(got) != len(want) {
		t.Fatalf("Schedule len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Schedule[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFindByName(t *testing.T) {
	ctx := newTestContext(t)
	nodes := []*Node{NewNode(ctx, "a"), NewNode(ctx, "b")}
	if FindByName(nodes, "b") != nodes[1] {
		t.Error("FindByName should find b")
	}
	if FindByName(nodes, "c") != nil {
		t.Error("FindByName should return nil for a missing name")
	}
}
