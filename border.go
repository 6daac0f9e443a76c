package stage

const defaultBorderThickness = 2

// Side indices of a border frame.
const (
	borderTop = iota
	borderBottom
	borderLeft
	borderRight
)

// borderFrame is attached to the non-displayable node that groups the four
// side boxes of a border.
type borderFrame struct {
	thickness int
	sides     [4]*Node
}

// AddBorder draws a rectangular outline on the node's edges. Any previous
// border is destroyed. The returned frame node follows the owner and is
// resized with it.
func (n *Node) AddBorder(col Color, thickness int) *Node {
	v := n.visual()
	if v.border != nil {
		v.border.Destroy()
	}
	if thickness <= 0 {
		thickness = defaultBorderThickness
	}

	b := NewNode(n.ctx, "border")
	b.x, b.y, b.z = n.x, n.y, n.z
	b.width, b.height = n.width, n.height
	b.alpha = n.alpha
	b.Static = false
	b.Opaque = false
	b.frame = &borderFrame{thickness: thickness}

	names := [4]string{"border_top", "border_bottom", "border_left", "border_right"}
	for i := range b.frame.sides {
		opts := DefaultBoxOptions(n.ctx)
		opts.Name = names[i]
		opts.Z = n.z
		opts.Color = col
		opts.Alpha = n.alpha
		opts.Opaque = false
		opts.Width, opts.Height = 0, 0
		side := NewBox(n.ctx, opts)
		b.frame.sides[i] = side
		b.AddChild(side)
	}
	b.frame.layout(b)

	n.AddChild(b)
	v.border = b
	return b
}

// Border returns the node's border frame, or nil.
func (n *Node) Border() *Node {
	if n.Visual == nil {
		return nil
	}
	return n.Visual.border
}

// SetBorderColor recolors the node's border, if it has one.
func (n *Node) SetBorderColor(col Color) {
	b := n.Border()
	if b == nil {
		return
	}
	for _, side := range b.frame.sides {
		side.SetColor(col)
	}
}

// adjust refits the sides after the frame's size changed by (dw, dh): the
// right and bottom sides move, top and bottom widen, left and right grow.
func (f *borderFrame) adjust(b *Node, dw, dh int) {
	if dw == 0 && dh == 0 {
		return
	}
	f.layout(b)
}

// layout places the sides along the edges of b.
func (f *borderFrame) layout(b *Node) {
	t := f.thickness
	x, y, w, h := b.x, b.y, b.width, b.height
	place := func(side *Node, sx, sy, sw, sh int) {
		side.SetSize(sw, sh)
		side.SetPosition(float64(sx), float64(sy))
	}
	place(f.sides[borderTop], x, y, w, t)
	place(f.sides[borderBottom], x, y+h-t, w, t)
	place(f.sides[borderLeft], x, y+t, t, h-2*t)
	place(f.sides[borderRight], x+w-t, y+t, t, h-2*t)
}
