package stage

import (
	"image"
	"testing"
)

func TestOverlayChildren(t *testing.T) {
	ctx := newTestContext(t)
	o := NewOverlay(ctx, DefaultOverlayOptions(ctx))
	if OverlayBox(o) == nil {
		t.Fatal("overlay should have a background box")
	}
	if o.Opaque {
		t.Error("overlay frame should not be opaque")
	}
	buttons := OverlayButtons(o)
	if len(buttons) != 1 || buttons[0].Name != "close_button" {
		t.Fatalf("buttons = %v, want [close_button]", buttons)
	}
	want := ctx.Config.Width - 60 - 30 - 5
	if buttons[0].X() != want || buttons[0].Y() != 5 {
		t.Errorf("close button at (%d, %d), want (%d, 5)", buttons[0].X(), buttons[0].Y(), want)
	}
}

func TestOverlayCloseOnEscape(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestScene(t, ctx)
	o := NewOverlay(ctx, DefaultOverlayOptions(ctx))
	s.Add(o)
	tick(ctx, image.Point{}, false)

	ctx.Tick(InputState{Pressed: []Key{KeyEscape}})
	if !o.Destroyed() {
		t.Error("escape should close the overlay")
	}
}

func TestOverlayCloseButtonClick(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestScene(t, ctx)
	o := NewOverlay(ctx, DefaultOverlayOptions(ctx))
	s.Add(o)
	btn := OverlayButtons(o)[0]
	tick(ctx, image.Pt(btn.X()+5, btn.Y()+5), true)
	if !o.Destroyed() {
		t.Error("clicking the close button should close the overlay")
	}
}

func TestOverlayWithoutCloseButton(t *testing.T) {
	ctx := newTestContext(t)
	opts := DefaultOverlayOptions(ctx)
	opts.CloseButton = false
	if got := OverlayButtons(NewOverlay(ctx, opts)); len(got) != 0 {
		t.Errorf("buttons = %v, want none", got)
	}
}

func TestConfirmationExternalClick(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestScene(t, ctx)
	yes := 0
	c := NewConfirmation(ctx, 100, 100, Do(func() { yes++ }))
	s.Add(c)

	tick(ctx, image.Pt(150, 150), true)
	if c.Destroyed() {
		t.Fatal("a click inside should keep the confirmation open")
	}
	tick(ctx, image.Pt(150, 150), false)

	tick(ctx, image.Pt(10, 10), true)
	if !c.Destroyed() {
		t.Error("a click outside should close the confirmation")
	}
	if yes != 0 {
		t.Errorf("yes = %d, want 0", yes)
	}
}

func TestConfirmationYes(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestScene(t, ctx)
	yes := 0
	c := NewConfirmation(ctx, 100, 100, Do(func() { yes++ }))
	s.Add(c)
	ctx.Tick(InputState{Pressed: []Key{KeyReturn}})
	if !c.Destroyed() || yes != 1 {
		t.Errorf("return: destroyed = %v, yes = %d", c.Destroyed(), yes)
	}
}

func TestConfirmationNo(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestScene(t, ctx)
	yes := 0
	c := NewConfirmation(ctx, 100, 100, Do(func() { yes++ }))
	s.Add(c)
	no := c.FindChild("overlay_no_button")
	if no == nil {
		t.Fatal("missing no button")
	}
	tick(ctx, image.Pt(no.X()+5, no.Y()+5), true)
	if !c.Destroyed() || yes != 0 {
		t.Errorf("no: destroyed = %v, yes = %d", c.Destroyed(), yes)
	}
}
