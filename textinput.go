package stage

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// InputKind restricts the characters a TextInput accepts.
type InputKind uint8

const (
	InputAny InputKind = iota
	InputDigits
	InputLetters
)

const (
	digitChars  = "0123456789"
	letterChars = "abcdefghijklmnopqrstuvwxyzåäöABCDEFGHIJKLMNOPQRSTUVWXYZÅÄÖ"
)

func (k InputKind) allows(r rune) bool {
	switch k {
	case InputDigits:
		return strings.ContainsRune(digitChars, r)
	case InputLetters:
		return strings.ContainsRune(letterChars, r)
	default:
		return r >= ' '
	}
}

// Backspace repeat timing: after a fresh press the first repeat waits
// backspaceFirstDelay steps, later repeats backspaceRepeatDelay steps.
const (
	backspaceFirstDelay  = 8
	backspaceRepeatDelay = 2
	backspaceStep        = 20 * time.Millisecond
)

// TextInput is the editing capability of a node: a fixed prefix followed by
// a buffer the user types into while the field is selected.
type TextInput struct {
	Prefix   string
	Allowed  InputKind
	OnReturn Callback

	IdleColor     Color
	SelectedColor Color

	Selected bool

	buffer   string
	pending  bool
	repeat   int
	repeatAt time.Time
}

// TextInputOptions configures NewTextInput. Start from
// DefaultTextInputOptions.
type TextInputOptions struct {
	ButtonOptions

	Prefix        string
	Initial       string
	Allowed       InputKind
	OnReturn      Callback
	IdleColor     Color
	SelectedColor Color
}

// DefaultTextInputOptions returns the options of a grey, left-aligned
// single-line field.
func DefaultTextInputOptions(ctx *EngineContext) TextInputOptions {
	btn := DefaultButtonOptions(ctx)
	btn.IndicateHover = false
	btn.FontSize = 20
	btn.TextOffset = 2 * ctx.Config.TextOffset
	btn.TextAlignX = AnchorLeading
	btn.TextAlignY = AnchorCenter
	return TextInputOptions{
		ButtonOptions: btn,
		IdleColor:     ColorGrey,
		SelectedColor: ColorLightGrey,
	}
}

// NewTextInput creates an editable text field. A LeftClick callback in opts
// runs after the field is selected.
func NewTextInput(ctx *EngineContext, opts TextInputOptions) *Node {
	opts.OnReturn.check()
	user := opts.LeftClick
	opts.LeftClick = Callback{}
	opts.Color = opts.IdleColor
	opts.Text = ""
	n := NewButton(ctx, opts.ButtonOptions)
	e := &TextInput{
		Prefix:        opts.Prefix,
		Allowed:       opts.Allowed,
		OnReturn:      opts.OnReturn,
		IdleColor:     opts.IdleColor,
		SelectedColor: opts.SelectedColor,
	}
	n.Editor = e
	sel := Do(func() { e.selectField(n) })
	if user.IsZero() {
		n.Button.LeftClick = sel
	} else {
		n.Button.LeftClick = Sequence(sel, user)
	}
	e.buffer = e.filter(opts.Initial)
	e.sync(n)
	return n
}

// Buffer returns the editable part of the text.
func (e *TextInput) Buffer() string { return e.buffer }

// SetBuffer replaces the editable part of the text.
func (e *TextInput) SetBuffer(n *Node, s string) {
	e.buffer = e.filter(s)
	e.sync(n)
}

func (e *TextInput) selectField(n *Node) {
	e.Selected = true
	n.ctx.StartTextInput()
}

func (e *TextInput) deselect(n *Node) {
	e.Selected = false
	e.repeat = 0
	n.ctx.StopTextInput()
}

// process runs after the node's Button each tick.
func (e *TextInput) process(n *Node) {
	in := n.ctx.Input
	if e.Selected && DetectExternalClicks(in, n.Rect()) {
		e.deselect(n)
	}
	if e.Selected {
		e.handleKeys(n, in)
		if e.pending {
			e.sync(n)
			e.pending = false
		}
	}
	if e.Selected {
		n.SetColor(e.SelectedColor)
	} else {
		n.SetColor(e.IdleColor)
	}
}

func (e *TextInput) handleKeys(n *Node, in *Input) {
	if t := in.TakeText(); t != "" {
		e.append(t)
	}
	if in.Pressed(KeyControl) && in.NewlyPressed(KeyV) {
		s, err := n.ctx.Clipboard.ReadAll()
		if err != nil {
			n.ctx.Log.Warn("paste failed", "node", n.String(), "err", err)
		} else {
			e.append(s)
		}
	}

	if !in.Pressed(KeyBackspace) {
		e.repeat = 0
	} else {
		e.backspace(n.ctx.Now(), in.NewlyPressed(KeyBackspace))
		return
	}
	if in.NewlyPressed(KeyReturn) {
		e.OnReturn.Invoke()
	}
}

func (e *TextInput) append(s string) {
	if f := e.filter(s); f != "" {
		e.buffer += f
		e.pending = true
	}
}

func (e *TextInput) filter(s string) string {
	var b strings.Builder
	for _, r := range s {
		if e.Allowed.allows(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// backspace deletes one grapheme, then waits out the repeat delay while
// the key stays down.
func (e *TextInput) backspace(now time.Time, fresh bool) {
	if e.repeat > 0 {
		if now.Sub(e.repeatAt) > backspaceStep {
			e.repeat -= 2
			e.repeatAt = now
		}
		return
	}
	e.buffer = dropLastGrapheme(e.buffer)
	e.pending = true
	e.repeatAt = now
	if fresh {
		e.repeat = backspaceFirstDelay
	} else {
		e.repeat = backspaceRepeatDelay
	}
}

// sync shows prefix and buffer on the node and cuts the buffer down to what
// the layout kept.
func (e *TextInput) sync(n *Node) {
	n.SetText(e.Prefix + e.buffer)
	l := n.visual().layout
	kept := len([]rune(l.Text())) - l.Inserted - len([]rune(e.Prefix))
	if r := []rune(e.buffer); kept < len(r) {
		e.buffer = string(r[:max(kept, 0)])
	}
}

func dropLastGrapheme(s string) string {
	last := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		last, _ = g.Positions()
	}
	return s[:last]
}
