package stage

// OverlayOptions configures NewOverlay. Start from DefaultOverlayOptions.
type OverlayOptions struct {
	Name          string
	X, Y          int
	Z             float64
	Width, Height int
	Alpha         uint8
	Static        bool
	Background    Color
	Border        bool

	CloseButton       bool
	CloseButtonSize   int
	CloseButtonOffset int
	CloseButtonImage  int // cache id; 0 draws an "X"

	Parent *Node
}

// DefaultOverlayOptions returns a full-window white overlay with a close
// button.
func DefaultOverlayOptions(ctx *EngineContext) OverlayOptions {
	return OverlayOptions{
		Name:              "overlay",
		Z:                 2,
		Width:             ctx.Config.Width - 60,
		Height:            ctx.Config.Height - 60,
		Alpha:             255,
		Static:            true,
		Background:        ColorWhite,
		Border:            true,
		CloseButton:       true,
		CloseButtonSize:   30,
		CloseButtonOffset: 5,
	}
}

// NewOverlay creates a panel: a non-opaque frame node holding an
// "overlay_box" background and, optionally, a "close_button" that destroys
// the overlay when clicked or when escape is pressed.
func NewOverlay(ctx *EngineContext, opts OverlayOptions) *Node {
	frame := NewNode(ctx, opts.Name)
	frame.x, frame.y, frame.z = opts.X, opts.Y, opts.Z
	frame.width, frame.height = max(opts.Width, 0), max(opts.Height, 0)
	frame.alpha = opts.Alpha
	frame.Static = opts.Static
	frame.Opaque = false

	box := DefaultBoxOptions(ctx)
	box.Name = "overlay_box"
	box.X, box.Y, box.Z = frame.x, frame.y, frame.z
	box.Width, box.Height = frame.width, frame.height
	box.Color = opts.Background
	box.Alpha = opts.Alpha
	box.Border = opts.Border
	frame.AddChild(NewBox(ctx, box))

	if opts.CloseButton {
		size, off := opts.CloseButtonSize, opts.CloseButtonOffset
		btn := DefaultButtonOptions(ctx)
		btn.Name = "close_button"
		btn.X = frame.x + frame.width - size - off
		btn.Y = frame.y + off
		btn.Z = frame.z
		btn.Width, btn.Height = size, size
		btn.FontSize = 15
		if opts.CloseButtonImage != 0 {
			btn.Image = opts.CloseButtonImage
		} else {
			btn.Text = "X"
		}
		btn.LeftClick = Do(frame.Destroy)
		btn.LeftTriggerKeys = []Key{KeyEscape}
		frame.AddChild(NewButton(ctx, btn))
	}

	if opts.Parent != nil {
		opts.Parent.AddChild(frame)
	}
	return frame
}

// OverlayBox returns the background box of an overlay.
func OverlayBox(overlay *Node) *Node {
	return overlay.FindChild("overlay_box")
}

// OverlayButtons returns the overlay's direct children that are buttons.
func OverlayButtons(overlay *Node) []*Node {
	var out []*Node
	for _, c := range overlay.children {
		if c.Button != nil {
			out = append(out, c)
		}
	}
	return out
}

// Confirmation layout.
const (
	confirmWidth   = 300
	confirmHeight  = 150
	confirmZ       = 10
	confirmButtonW = 70
	confirmButtonH = 50
	confirmOffset  = 7
	confirmFont    = 30
)

// NewConfirmation creates a small "Are you sure?" overlay at (x, y). Yes
// (or return) closes it and runs onYes; No (or escape) closes it. A click
// anywhere outside also closes it.
func NewConfirmation(ctx *EngineContext, x, y int, onYes Callback) *Node {
	onYes.check()
	opts := DefaultOverlayOptions(ctx)
	opts.Name = "confirmation_overlay"
	opts.X, opts.Y, opts.Z = x, y, confirmZ
	opts.Width, opts.Height = confirmWidth, confirmHeight
	opts.CloseButton = false
	frame := NewOverlay(ctx, opts)

	box := OverlayBox(frame)
	frame.OnProcess = func(n *Node) { DestroyOnExternalClicks(n, box.Rect()) }

	label := DefaultBoxOptions(ctx)
	label.Name = "confirmation_text"
	label.Y = y + confirmOffset
	label.Z = confirmZ
	label.Text = "Are you sure?"
	label.ResizeToFitText = true
	text := NewBox(ctx, label)
	text.SetPosition(float64(x+(confirmWidth-text.width)/2), float64(text.y))
	frame.AddChild(text)

	mk := func(name, caption string, cb Callback, trigger Key) *Node {
		b := DefaultButtonOptions(ctx)
		b.Name = name
		b.Z = confirmZ
		b.Width, b.Height = confirmButtonW, confirmButtonH
		b.Text = caption
		b.TextOffset = 5
		b.FontSize = confirmFont
		b.ResizeToFitText = true
		b.LeftClick = cb
		b.LeftTriggerKeys = []Key{trigger}
		return NewButton(ctx, b)
	}
	buttons := []*Node{
		mk("overlay_yes_button", "Yes", Sequence(Do(frame.Destroy), onYes), KeyReturn),
		mk("overlay_no_button", "No", Do(frame.Destroy), KeyEscape),
	}
	gap := (confirmWidth - len(buttons)*confirmButtonW) / (len(buttons) + 1)
	for i, b := range buttons {
		frame.AddChild(b)
		b.SetPosition(
			float64(x+(i+1)*gap+i*confirmButtonW),
			float64(y+confirmHeight-confirmOffset-confirmButtonH),
		)
	}
	return frame
}
