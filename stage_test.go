package stage

import (
	"image"
	"testing"
	"time"
)

// monoMeasurer measures every rune as 10px wide with 20px lines.
type monoMeasurer struct{}

func (monoMeasurer) MeasureString(s string) int { return 10 * len([]rune(s)) }
func (monoMeasurer) LineHeight() int             { return 20 }

// fakeClipboard returns a fixed string.
type fakeClipboard struct {
	text string
	err  error
}

func (c fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

// newTestContext returns a context with a fixed clock and fake clipboard.
func newTestContext(t *testing.T) *EngineContext {
	t.Helper()
	ctx, err := NewEngineContext(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngineContext: %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx.Now = func() time.Time { return now }
	ctx.Clipboard = fakeClipboard{}
	return ctx
}

// newTestScene creates, registers and returns an empty current scene.
func newTestScene(t *testing.T, ctx *EngineContext) *Scene {
	t.Helper()
	return ctx.Scenes.Create(NewScene("test"))
}

// plainNode creates an opaque geometry node at the given rect.
func plainNode(ctx *EngineContext, name string, x, y, w, h int, z float64) *Node {
	n := NewNode(ctx, name)
	n.x, n.y, n.width, n.height, n.z = x, y, w, h, z
	return n
}

// tick runs one tick with the pointer at p.
func tick(ctx *EngineContext, p image.Point, leftDown bool) {
	ctx.Tick(InputState{LeftDown: leftDown, Pointer: p})
}

// --- Helpers ---

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestCenterSpan(t *testing.T) {
	if got := CenterSpan(0, 100, 20); got != 40 {
		t.Errorf("CenterSpan(0, 100, 20) = %d, want 40", got)
	}
}

func TestColorRGBA8Premultiplies(t *testing.T) {
	c := Color{1, 0.5, 0, 0.5}.RGBA8()
	if c.A != 128 || c.R != 128 || c.G != 64 || c.B != 0 {
		t.Errorf("RGBA8 = %v, want {128 64 0 128}", c)
	}
}

func TestStatusString(t *testing.T) {
	for _, s := range []Status{StatusNormal, StatusHover, StatusPressed} {
		if s.String() == "" {
			t.Errorf("Status(%d).String() is empty", s)
		}
	}
}
