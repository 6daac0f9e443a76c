package stage

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DefaultFontSize is the point size used when none is given.
const DefaultFontSize = 40

// Visual is the rendering capability of a node: a fill color or image,
// wrapped text and an optional hover/press indicator, drawn into a cached
// canvas surface once per tick.
type Visual struct {
	Color      Color
	TextColor  Color
	FontSize   int
	TextOffset int
	TextAlignX Anchor
	TextAlignY Anchor
	Wrap       bool

	// UpdateText, when set, supplies the node's text at every refresh.
	UpdateText func() string

	source string
	layout Layout

	imageSource int // caller's image entry
	imageID     int // imageSource transformed to the node's size

	canvas  int
	lineIDs []int
	border  *Node

	dirty          bool
	indicatorColor Color
	indicatorAlpha uint8
}

// BoxOptions configures NewBox. Start from DefaultBoxOptions.
type BoxOptions struct {
	Name          string
	X, Y          int
	Z             float64
	Width, Height int
	Color         Color
	Alpha         uint8
	Image         int // cache id of a source image, 0 for none

	Text            string
	TextOffset      int
	TextColor       Color
	FontSize        int
	TextAlignX      Anchor
	TextAlignY      Anchor
	Wrap            bool
	ResizeToFitText bool
	UpdateText      func() string

	Border  bool
	Static  bool
	Opaque  bool
	AnchorX Anchor
	AnchorY Anchor

	// Parent, when set, receives the box as a child.
	Parent *Node
}

// DefaultBoxOptions returns the options of a plain 100x100 white box with
// centered black text.
func DefaultBoxOptions(ctx *EngineContext) BoxOptions {
	return BoxOptions{
		Width:      100,
		Height:     100,
		Color:      ColorWhite,
		Alpha:      255,
		TextOffset: ctx.Config.TextOffset,
		TextColor:  ColorBlack,
		FontSize:   DefaultFontSize,
		TextAlignX: AnchorCenter,
		TextAlignY: AnchorCenter,
		Opaque:     true,
	}
}

// NewBox creates a displayable node with a Visual.
func NewBox(ctx *EngineContext, opts BoxOptions) *Node {
	n := NewNode(ctx, opts.Name)
	n.x, n.y, n.z = opts.X, opts.Y, opts.Z
	n.width, n.height = max(opts.Width, 0), max(opts.Height, 0)
	n.alpha = opts.Alpha
	n.Static = opts.Static
	n.Opaque = opts.Opaque
	n.AnchorX, n.AnchorY = opts.AnchorX, opts.AnchorY
	n.displayable = true

	size := opts.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	n.Visual = &Visual{
		Color:      opts.Color,
		TextColor:  opts.TextColor,
		FontSize:   size,
		TextOffset: max(opts.TextOffset, 0),
		TextAlignX: opts.TextAlignX,
		TextAlignY: opts.TextAlignY,
		Wrap:       opts.Wrap,
		UpdateText: opts.UpdateText,
	}
	n.Visual.canvas = ctx.Cache.Create(n.width, n.height, n.alpha)

	if opts.ResizeToFitText && opts.Text != "" {
		n.Visual.source = opts.Text
		n.ResizeToFitText(-1)
	}
	n.SetText(opts.Text)
	if opts.Image != 0 {
		n.SetImage(opts.Image)
	}
	if opts.Border {
		n.AddBorder(ColorBlack, defaultBorderThickness)
	}
	if opts.Parent != nil {
		opts.Parent.AddChild(n)
	}
	return n
}

func (n *Node) visual() *Visual {
	if n.Visual == nil {
		panic("stage: node " + n.String() + " has no visual")
	}
	return n.Visual
}

// --- Text ---

// SetText replaces the node's text and lays it out immediately.
func (n *Node) SetText(text string) {
	v := n.visual()
	v.source = text
	v.relayout(n)
}

// Text returns the laid-out text: what actually fits in the box.
func (n *Node) Text() string { return n.visual().layout.Text() }

// SourceText returns the text as last set, before layout.
func (n *Node) SourceText() string { return n.visual().source }

// Lines returns the laid-out lines.
func (n *Node) Lines() []string { return n.visual().layout.Lines }

// SetTextColor sets the text color.
func (n *Node) SetTextColor(c Color) { n.visual().TextColor = c }

// SetFontSize sets the point size and relays the text out.
func (n *Node) SetFontSize(size int) {
	if size <= 0 {
		panic("stage: font size must be positive")
	}
	v := n.visual()
	v.FontSize = size
	v.relayout(n)
}

// SetWrap enables or disables line wrapping.
func (n *Node) SetWrap(wrap bool) {
	v := n.visual()
	v.Wrap = wrap
	v.relayout(n)
}

// SetTextOffset sets the margin between the text and the box edge.
func (n *Node) SetTextOffset(offset int) {
	v := n.visual()
	v.TextOffset = max(offset, 0)
	v.relayout(n)
}

func (v *Visual) relayout(n *Node) {
	if v.source == "" {
		v.layout = Layout{}
		return
	}
	m := n.ctx.Cache.Fonts().Measurer(v.FontSize)
	v.layout = Wrap(v.source, m, n.width-2*v.TextOffset, n.height-2*v.TextOffset, v.Wrap)
}

// ResizeToFitText grows the box so that its unwrapped text fits with offset
// pixels of margin on each side. A negative offset uses the text offset.
// The box never shrinks and keeps its anchored point.
func (n *Node) ResizeToFitText(offset int) {
	v := n.visual()
	if offset < 0 {
		offset = v.TextOffset
	}
	tw, th := n.ctx.Cache.Fonts().Measure(v.source, v.FontSize)
	w, h := n.width, n.height
	if need := tw + 2*offset; need > w {
		w = need
	}
	if need := th + 2*offset; need > h {
		h = need
	}
	if w != n.width || h != n.height {
		n.SetSizeAnchored(w, h)
	}
	v.relayout(n)
}

// --- Fill and image ---

// SetColor sets the fill color used when no image is set.
func (n *Node) SetColor(c Color) { n.visual().Color = c }

// SetImage uses the cached image id as the box background. The image is
// transformed to the node's size and rotation.
func (n *Node) SetImage(id int) {
	v := n.visual()
	v.imageSource = id
	v.updateImage(n)
	n.MarkDirty()
}

// ClearImage removes the background image and frees its transformed copy.
func (n *Node) ClearImage() {
	v := n.visual()
	v.dropImage(n.ctx.Cache)
	n.MarkDirty()
}

// dropImage removes the transformed copy from the cache. The source image
// belongs to whoever loaded it and stays.
func (v *Visual) dropImage(c *Cache) {
	if v.imageID != 0 && c.Has(v.imageID) {
		c.Remove(v.imageID)
	}
	v.imageSource, v.imageID = 0, 0
}

// ImageID returns the source image id, or 0.
func (n *Node) ImageID() int { return n.visual().imageSource }

// Canvas returns the cache id of the node's rendered surface.
func (n *Node) Canvas() int { return n.visual().canvas }

func (v *Visual) updateImage(n *Node) {
	c := n.ctx.Cache
	if !c.Has(v.imageSource) {
		n.ctx.Log.Warn("image missing from cache", "node", n.String(), "id", v.imageSource)
		v.dropImage(c)
		return
	}
	v.imageID = c.Transform(v.imageSource, image.Pt(n.width, n.height), n.rotation, v.imageID)
}

// MarkDirty forces the canvas and image to be rebuilt at the next refresh.
func (n *Node) MarkDirty() {
	if n.Visual != nil {
		n.Visual.dirty = true
	}
}

// --- Rendering ---

// Refresh redraws the node's canvas: fill or image, then text, then the
// indicator. It runs once per tick for every displayed node.
func (n *Node) Refresh() {
	v := n.visual()
	c := n.ctx.Cache
	if v.UpdateText != nil {
		n.SetText(v.UpdateText())
	}

	if v.dirty || !c.Has(v.canvas) {
		v.relayout(n)
		if v.imageSource != 0 {
			v.updateImage(n)
		}
		if c.Has(v.canvas) {
			v.canvas = c.Transform(v.canvas, image.Pt(n.width, n.height), 0, v.canvas)
		} else {
			v.canvas = c.Create(n.width, n.height, n.alpha)
		}
		v.dirty = false
	}

	canvas := c.Get(v.canvas)
	if v.imageID != 0 {
		c.Reset(v.canvas)
		blit(canvas, c.Get(v.imageID), image.Point{}, 255)
	} else {
		fill(canvas, canvas.Bounds(), v.Color)
	}

	v.drawText(n, canvas)

	if v.indicatorAlpha != 0 {
		tmp := c.CreateTemporary(n.width, n.height, v.indicatorAlpha)
		surf := c.Get(tmp)
		fill(surf, surf.Bounds(), v.indicatorColor)
		blit(canvas, surf, image.Point{}, c.Entry(tmp).Alpha)
	}
}

// drawText renders every laid-out line into canvas. Line surfaces are kept
// in the cache and re-rendered only when their text, color or size change.
func (v *Visual) drawText(n *Node, canvas *image.RGBA) {
	c := n.ctx.Cache
	lines := v.layout.Lines
	if v.source == "" {
		lines = nil
	}

	ids := v.lineIDs[:0:0]
	total := 0
	for i, line := range lines {
		id := 0
		if i < len(v.lineIDs) {
			id = v.lineIDs[i]
		}
		if !v.lineCurrent(c, id, line) {
			id = c.CreateText(line, v.TextColor, v.FontSize, id)
		}
		ids = append(ids, id)
		total += c.Entry(id).Size.Y
	}
	for _, stale := range v.lineIDs[min(len(lines), len(v.lineIDs)):] {
		if c.Has(stale) {
			c.Remove(stale)
		}
	}
	v.lineIDs = ids

	var y int
	switch v.TextAlignY {
	case AnchorLeading:
		y = v.TextOffset
	case AnchorCenter:
		y = (n.height - total) / 2
	case AnchorTrailing:
		y = n.height - total - v.TextOffset
	}
	for _, id := range ids {
		e := c.Entry(id)
		var x int
		switch v.TextAlignX {
		case AnchorLeading:
			x = v.TextOffset
		case AnchorCenter:
			x = (n.width - e.Size.X) / 2
		case AnchorTrailing:
			x = n.width - v.TextOffset - e.Size.X
		}
		blit(canvas, e.Surface, image.Pt(x, y), 255)
		y += e.Size.Y
	}
}

func (v *Visual) lineCurrent(c *Cache, id int, line string) bool {
	if id == 0 || !c.Has(id) {
		return false
	}
	r := c.Entry(id).Recipe
	return r.Kind == RecipeText && r.Text == line && r.Color == v.TextColor && r.FontSize == v.FontSize
}

// fill paints r of dst with col, replacing what was there.
func fill(dst *image.RGBA, r image.Rectangle, col Color) {
	draw.Draw(dst, r, image.NewUniform(col.RGBA8()), image.Point{}, draw.Src)
}

// blit composites src over dst with its top-left corner at at, scaled by
// alpha.
func blit(dst, src *image.RGBA, at image.Point, alpha uint8) {
	if alpha == 0 {
		return
	}
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	if alpha == 255 {
		draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: alpha})
	draw.DrawMask(dst, r, src, src.Bounds().Min, mask, image.Point{}, draw.Over)
}
