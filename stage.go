package stage

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is written into a surface.
type Color struct {
	R, G, B, A float64
}

// RGB builds an opaque Color from 8-bit channel values.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// Palette used by the widget constructors.
var (
	ColorWhite     = Color{1, 1, 1, 1}
	ColorBlack     = Color{0, 0, 0, 1}
	ColorGrey      = RGB(100, 100, 100)
	ColorLightGrey = RGB(150, 150, 150)
	ColorBlue      = RGB(70, 120, 220)
	ColorClear     = Color{}
)

// RGBA8 returns the premultiplied 8-bit form of c.
func (c Color) RGBA8() color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(clamp01(c.R*c.A) * 255)),
		G: uint8(math.Round(clamp01(c.G*c.A) * 255)),
		B: uint8(math.Round(clamp01(c.B*c.A) * 255)),
		A: uint8(math.Round(clamp01(c.A) * 255)),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Anchor selects the edge or center of a node that stays fixed when the node
// is resized or rotated. The same values select text placement inside a box.
type Anchor uint8

const (
	AnchorLeading  Anchor = iota // left on the x axis, top on the y axis
	AnchorCenter                 // centered on the axis
	AnchorTrailing               // right on the x axis, bottom on the y axis
)

// anchorShift returns how far a node must move along an axis when its extent
// on that axis changes by delta, so that the anchored point stays put.
func anchorShift(a Anchor, delta float64) float64 {
	switch a {
	case AnchorLeading:
		return 0
	case AnchorCenter:
		return -delta / 2
	case AnchorTrailing:
		return -delta
	default:
		panic("stage: unknown anchor")
	}
}

// Status is the per-tick interaction state of a Button.
type Status uint8

const (
	StatusNormal  Status = iota // pointer elsewhere or click blocked
	StatusHover                 // pointer over the node
	StatusPressed               // a callback fired this tick
)

func (s Status) String() string {
	switch s {
	case StatusHover:
		return "hover"
	case StatusPressed:
		return "pressed"
	default:
		return "normal"
	}
}

// Key names a keyboard key using lower-case names ("escape", "return",
// "backspace", "a").
type Key string

// Keys recognised by the built-in widgets.
const (
	KeyEscape    Key = "escape"
	KeyReturn    Key = "return"
	KeyBackspace Key = "backspace"
	KeySpace     Key = "space"
	KeyControl   Key = "control"
	KeyV         Key = "v"
)

// roundCoord rounds half away from zero and converts to int.
func roundCoord(v float64) int {
	return int(math.Round(v))
}

// Clamp limits v to [lo, hi].
func Clamp[T int | float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CenterSpan returns the coordinate that centers an extent of the given size
// between low and high.
func CenterSpan(low, high, size float64) int {
	return roundCoord(low + (high-low)/2 - size/2)
}
