// Package host runs a stage engine context inside an Ebitengine window.
//
// The host polls the mouse and keyboard once per tick, hands the snapshot
// to [stage.EngineContext.Tick], and uploads the composed frame to the
// screen. All drawing happens on the CPU inside stage.
package host

import (
	"image"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/phanxgames/stage"
)

// Options configures Run. Zero values take their defaults from the
// context's Config.
type Options struct {
	Title string

	// Scale multiplies the window size. Logical coordinates are unchanged.
	Scale float64

	// ExitAfterScript closes the window once an attached test runner is done.
	ExitAfterScript bool
}

// Game implements ebiten.Game on top of an engine context.
type Game struct {
	ctx   *stage.EngineContext
	opts  Options
	frame *image.RGBA
	keys  []ebiten.Key
	chars []rune
}

// NewGame wraps ctx. The frame buffer is sized from ctx.Config.
func NewGame(ctx *stage.EngineContext, opts Options) *Game {
	w, h := ctx.Config.Width, ctx.Config.Height
	return &Game{
		ctx:   ctx,
		opts:  opts,
		frame: image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// Update polls input and runs one engine tick.
func (g *Game) Update() error {
	g.ctx.Tick(g.poll())
	if r := g.ctx.TestRunner(); g.opts.ExitAfterScript && r != nil && r.Done() {
		return ebiten.Termination
	}
	return nil
}

// Draw composes the current scene and uploads it.
func (g *Game) Draw(screen *ebiten.Image) {
	g.ctx.Compose(g.frame)
	screen.WritePixels(g.frame.Pix)
}

// Layout keeps the logical screen at the configured size.
func (g *Game) Layout(_, _ int) (int, int) {
	b := g.frame.Bounds()
	return b.Dx(), b.Dy()
}

// poll reads the current mouse and keyboard state.
func (g *Game) poll() stage.InputState {
	mx, my := ebiten.CursorPosition()
	st := stage.InputState{
		LeftDown:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		RightDown: ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Pointer:   image.Pt(mx, my),
	}

	g.keys = ebiten.AppendPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		name := keyName(k)
		if name == "" || slices.Contains(st.Pressed, name) {
			continue
		}
		st.Pressed = append(st.Pressed, name)
	}

	if g.ctx.TextInputActive() {
		g.chars = ebiten.AppendInputChars(g.chars[:0])
		st.Text = string(g.chars)
	}
	return st
}

// keyName maps an Ebitengine key to the lower-case names stage uses.
// Left and right modifier variants collapse into one name.
func keyName(k ebiten.Key) stage.Key {
	switch k {
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return stage.KeyReturn
	case ebiten.KeyControlLeft, ebiten.KeyControlRight:
		return stage.KeyControl
	case ebiten.KeyShiftLeft, ebiten.KeyShiftRight:
		return "shift"
	case ebiten.KeyAltLeft, ebiten.KeyAltRight:
		return "alt"
	case ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
		return "meta"
	}
	name := k.String()
	if name == "" {
		return ""
	}
	name = strings.TrimPrefix(name, "Digit")
	return stage.Key(strings.ToLower(name))
}

// Run opens a window and drives ctx until the window closes.
func Run(ctx *stage.EngineContext, opts Options) error {
	title := opts.Title
	if title == "" {
		title = ctx.Config.Title
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(float64(ctx.Config.Width)*scale), int(float64(ctx.Config.Height)*scale))
	ebiten.SetTPS(ctx.Config.TPS)

	ctx.Log.Info("window opened", "title", title, "width", ctx.Config.Width, "height", ctx.Config.Height)
	if err := ebiten.RunGame(NewGame(ctx, opts)); err != nil {
		return errors.Wrap(err, "host: run game")
	}
	return nil
}
