package stage

import (
	"image"
	"slices"
)

// ClickDetector tracks edge and held clicks of both mouse buttons over a
// rectangle.
type ClickDetector struct {
	// RequireContinuousHover, when false, keeps a hold alive after the
	// pointer leaves the rectangle, as long as the button stays down.
	RequireContinuousHover bool

	LeftClick  bool // left button went down over the rect this tick
	LeftHold   bool // left button is held over the rect
	RightClick bool
	RightHold  bool
}

// Update re-evaluates the detector for rect.
func (d *ClickDetector) Update(in *Input, rect image.Rectangle) {
	over := in.Pointer().In(rect)

	leftActive := d.LeftClick || d.LeftHold
	d.LeftClick = in.LeftDown() && over && !in.LeftDownLastTick()
	d.LeftHold = in.LeftDown() && (over || (!d.RequireContinuousHover && leftActive))

	rightActive := d.RightClick || d.RightHold
	d.RightHold = in.RightDown() && (over || (!d.RequireContinuousHover && rightActive))
	d.RightClick = in.RightDown() && over && !in.RightDownLastTick()
}

// Reset clears all click state.
func (d *ClickDetector) Reset() {
	d.LeftClick, d.LeftHold, d.RightClick, d.RightHold = false, false, false, false
}

// KeyBinding runs Callback when Key is newly pressed while the button is
// not blocked.
type KeyBinding struct {
	Key      Key
	Callback Callback
}

// Button is the click capability of a node.
type Button struct {
	Detector ClickDetector

	LeftClick  Callback
	LeftHold   Callback
	RightClick Callback
	RightHold  Callback

	// KeyBindings fire in order, before any click callback.
	KeyBindings []KeyBinding

	// Newly pressed trigger keys count as a click of that side.
	LeftTriggerKeys  []Key
	RightTriggerKeys []Key

	IndicateHover  bool
	IndicateClicks bool
	IndicatorColor Color

	// Status is re-evaluated every tick.
	Status Status
}

// ButtonOptions configures NewButton. Start from DefaultButtonOptions.
type ButtonOptions struct {
	BoxOptions

	LeftClick        Callback
	LeftHold         Callback
	RightClick       Callback
	RightHold        Callback
	KeyBindings      []KeyBinding
	LeftTriggerKeys  []Key
	RightTriggerKeys []Key

	IndicateHover          bool
	IndicateClicks         bool
	IndicatorColor         Color
	RequireContinuousHover bool
}

// DefaultButtonOptions returns the options of a grey 200x120 bordered
// button that indicates hover and clicks.
func DefaultButtonOptions(ctx *EngineContext) ButtonOptions {
	box := DefaultBoxOptions(ctx)
	box.Z = 1
	box.Width, box.Height = 200, 120
	box.Color = ColorGrey
	box.Border = true
	return ButtonOptions{
		BoxOptions:             box,
		IndicateHover:          true,
		IndicateClicks:         true,
		IndicatorColor:         ColorWhite,
		RequireContinuousHover: true,
	}
}

// NewButton creates a box with a Button capability.
func NewButton(ctx *EngineContext, opts ButtonOptions) *Node {
	for _, cb := range []Callback{opts.LeftClick, opts.LeftHold, opts.RightClick, opts.RightHold} {
		cb.check()
	}
	for _, kb := range opts.KeyBindings {
		kb.Callback.check()
	}
	n := NewBox(ctx, opts.BoxOptions)
	n.Button = &Button{
		Detector:         ClickDetector{RequireContinuousHover: opts.RequireContinuousHover},
		LeftClick:        opts.LeftClick,
		LeftHold:         opts.LeftHold,
		RightClick:       opts.RightClick,
		RightHold:        opts.RightHold,
		KeyBindings:      slices.Clone(opts.KeyBindings),
		LeftTriggerKeys:  slices.Clone(opts.LeftTriggerKeys),
		RightTriggerKeys: slices.Clone(opts.RightTriggerKeys),
		IndicateHover:    opts.IndicateHover,
		IndicateClicks:   opts.IndicateClicks,
		IndicatorColor:   opts.IndicatorColor,
	}
	return n
}

// Bind adds a key binding.
func (b *Button) Bind(k Key, cb Callback) {
	cb.check()
	b.KeyBindings = append(b.KeyBindings, KeyBinding{Key: k, Callback: cb})
}

// process runs one tick of click handling for n.
func (b *Button) process(n *Node, s *Scene) {
	in := n.ctx.Input
	b.Detector.Update(in, n.Rect())
	b.checkPresses(n, s, in)

	var alpha uint8
	switch {
	case b.Status == StatusPressed && b.IndicateClicks:
		alpha = n.ctx.Config.IndicatorPressAlpha
	case (b.Status == StatusPressed || b.Status == StatusHover) && b.IndicateHover:
		alpha = n.ctx.Config.IndicatorHoverAlpha
	}
	if v := n.Visual; v != nil {
		v.indicatorAlpha = alpha
		v.indicatorColor = b.IndicatorColor
	}
}

// checkPresses fires the callbacks triggered this tick and sets Status.
// Nothing fires while another node blocks the pointer.
func (b *Button) checkPresses(n *Node, s *Scene, in *Input) {
	p := in.Pointer()
	over := p.In(n.Rect())
	if s.clickBlocked(n, p) {
		b.Status = StatusNormal
		return
	}

	fired := false
	for _, kb := range b.KeyBindings {
		if in.NewlyPressed(kb.Key) {
			kb.Callback.Invoke()
		}
	}

	left := b.Detector.LeftClick || anyNewlyPressed(in, b.LeftTriggerKeys)
	right := b.Detector.RightClick || anyNewlyPressed(in, b.RightTriggerKeys)
	fire := func(cond bool, cb Callback) {
		if cond && !cb.IsZero() {
			fired = true
			cb.Invoke()
		}
	}
	fire(left, b.LeftClick)
	fire(b.Detector.LeftHold, b.LeftHold)
	fire(right, b.RightClick)
	fire(b.Detector.RightHold, b.RightHold)

	dragging := !b.Detector.RequireContinuousHover && (b.Detector.LeftHold || b.Detector.RightHold)
	switch {
	case fired && (over || dragging):
		b.Status = StatusPressed
	case over:
		b.Status = StatusHover
	default:
		b.Status = StatusNormal
	}
}

func anyNewlyPressed(in *Input, keys []Key) bool {
	for _, k := range keys {
		if in.NewlyPressed(k) {
			return true
		}
	}
	return false
}
