package stage

import "image"

// --- Getters ---

// X returns the node's absolute x coordinate.
func (n *Node) X() int { return n.x }

// Y returns the node's absolute y coordinate.
func (n *Node) Y() int { return n.y }

// Z returns the node's ordering key.
func (n *Node) Z() float64 { return n.z }

// Width returns the node's width.
func (n *Node) Width() int { return n.width }

// Height returns the node's height.
func (n *Node) Height() int { return n.height }

// Alpha returns the node's alpha.
func (n *Node) Alpha() uint8 { return n.alpha }

// Rotation returns the rotation in degrees.
func (n *Node) Rotation() int { return n.rotation }

// RelativePosition returns the stored offset from the parent.
func (n *Node) RelativePosition() (int, int) { return n.relX, n.relY }

// Rect returns the node's screen rectangle.
func (n *Node) Rect() image.Rectangle {
	return image.Rect(n.x, n.y, n.x+n.width, n.y+n.height)
}

// --- Position ---

// SetPosition moves the node to (x, y), rounded to whole pixels. Non-static
// descendants follow.
func (n *Node) SetPosition(x, y float64) {
	n.x, n.y = roundCoord(x), roundCoord(y)
	n.moved()
}

// SetX sets the x coordinate.
func (n *Node) SetX(x float64) { n.SetPosition(x, float64(n.y)) }

// SetY sets the y coordinate.
func (n *Node) SetY(y float64) { n.SetPosition(float64(n.x), y) }

// Shift moves the node by (dx, dy).
func (n *Node) Shift(dx, dy float64) {
	n.SetPosition(float64(n.x)+dx, float64(n.y)+dy)
}

// SetRelativePosition places the node at an offset from its parent.
func (n *Node) SetRelativePosition(x, y int) {
	n.relX, n.relY = x, y
	if n.parent == nil {
		n.SetPosition(float64(x), float64(y))
		return
	}
	n.SetPosition(float64(n.parent.x+x), float64(n.parent.y+y))
}

// UpdatePosition re-derives a non-static node's position from its parent.
func (n *Node) UpdatePosition() {
	if n.Static || n.parent == nil {
		return
	}
	x, y := n.parent.x+n.relX, n.parent.y+n.relY
	if x != n.x || y != n.y {
		n.SetPosition(float64(x), float64(y))
	}
}

func (n *Node) updatePosition() {
	if n.Drag != nil {
		n.Drag.follow(n)
	}
	n.UpdatePosition()
}

func (n *Node) updateRelative() {
	if n.parent != nil && !n.Static {
		n.relX, n.relY = n.x-n.parent.x, n.y-n.parent.y
	}
}

func (n *Node) moved() {
	n.updateRelative()
	for _, c := range n.children {
		c.UpdatePosition()
	}
	if n.Drag != nil {
		n.Drag.regrab(n)
	}
}

// --- Z ---

// SetZ sets the node's z and shifts every descendant by the same delta.
func (n *Node) SetZ(z float64) {
	delta := z - n.z
	n.z = z
	for _, c := range n.children {
		c.shiftZ(delta)
	}
}

func (n *Node) shiftZ(delta float64) {
	n.z += delta
	for _, c := range n.children {
		c.shiftZ(delta)
	}
}

// --- Size ---

// SetSize sets width and height. Negative values are clamped to 0.
func (n *Node) SetSize(w, h int) {
	oldW, oldH := n.width, n.height
	n.width, n.height = max(w, 0), max(h, 0)
	if n.width != oldW || n.height != oldH {
		n.resized(oldW, oldH)
	}
}

// SetWidth sets the width. Negative values are clamped to 0.
func (n *Node) SetWidth(w int) { n.SetSize(w, n.height) }

// SetHeight sets the height. Negative values are clamped to 0.
func (n *Node) SetHeight(h int) { n.SetSize(n.width, h) }

// SetSizeAnchored resizes the node and moves it so the point selected by
// AnchorX and AnchorY stays where it was.
func (n *Node) SetSizeAnchored(w, h int) {
	oldW, oldH := n.width, n.height
	n.SetSize(w, h)
	dx := anchorShift(n.AnchorX, float64(n.width-oldW))
	dy := anchorShift(n.AnchorY, float64(n.height-oldH))
	if dx != 0 || dy != 0 {
		n.Shift(dx, dy)
	}
}

// resized keeps dependent state in step with a size change: the visual is
// marked dirty and border decoration is refitted in the same call.
func (n *Node) resized(oldW, oldH int) {
	if n.frame != nil {
		n.frame.adjust(n, n.width-oldW, n.height-oldH)
	}
	if v := n.Visual; v != nil {
		v.dirty = true
		v.relayout(n)
		if v.border != nil {
			v.border.SetSize(n.width, n.height)
		}
	}
}

// --- Rotation ---

// SetRotation sets the rotation in degrees, which must be a multiple of 90.
// Crossing between the horizontal and vertical orientations swaps width and
// height and re-anchors the node.
func (n *Node) SetRotation(angle int) {
	if angle%90 != 0 {
		panic("stage: rotation must be a multiple of 90 degrees")
	}
	old := n.rotation
	n.rotation = angle
	if ((old-angle)/90)%2 != 0 {
		n.SetSizeAnchored(n.height, n.width)
	}
	if n.Visual != nil {
		n.Visual.dirty = true
	}
}

// --- Alpha ---

// SetAlpha sets the node's alpha and forwards it to its surface and border.
func (n *Node) SetAlpha(a uint8) {
	n.alpha = a
	if v := n.Visual; v != nil && n.ctx.Cache.Has(v.canvas) {
		n.ctx.Cache.SetAlpha(v.canvas, a)
		if v.border != nil {
			v.border.SetAlpha(a)
		}
	}
	if n.frame != nil {
		for _, side := range n.frame.sides {
			side.SetAlpha(a)
		}
	}
}
