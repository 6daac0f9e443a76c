package stage

import "image"

// Drag lets a button be moved with the mouse. A left click starts the
// drag; the node then follows the pointer at a constant offset until the
// left button is released.
type Drag struct {
	moving bool
	grab   image.Point
}

// NewDragButton creates a button that can be dragged. A LeftClick callback
// in opts runs after the drag starts.
func NewDragButton(ctx *EngineContext, opts ButtonOptions) *Node {
	user := opts.LeftClick
	opts.LeftClick = Callback{}
	opts.RequireContinuousHover = false
	n := NewButton(ctx, opts)
	n.Drag = &Drag{}
	start := Do(func() { n.Drag.start(n) })
	if user.IsZero() {
		n.Button.LeftClick = start
	} else {
		n.Button.LeftClick = Sequence(start, user)
	}
	return n
}

// Moving reports whether a drag is in progress.
func (d *Drag) Moving() bool { return d.moving }

func (d *Drag) start(n *Node) {
	d.moving = true
	d.regrab(n)
}

// follow moves n to the pointer while the drag is held.
func (d *Drag) follow(n *Node) {
	if n.Button == nil || !n.Button.Detector.LeftHold {
		d.moving = false
		return
	}
	if !d.moving {
		return
	}
	p := n.ctx.Input.Pointer().Sub(d.grab)
	if p.X != n.x || p.Y != n.y {
		n.SetPosition(float64(p.X), float64(p.Y))
	}
}

// regrab records the pointer's offset from the node's corner.
func (d *Drag) regrab(n *Node) {
	d.grab = n.ctx.Input.Pointer().Sub(image.Pt(n.x, n.y))
}
