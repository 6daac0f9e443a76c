package stage

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontBank renders and measures text in a single typeface. Faces are created
// lazily per point size and kept for the lifetime of the bank.
type FontBank struct {
	font  *opentype.Font
	faces map[int]font.Face
}

// NewFontBank parses a TrueType/OpenType font. A nil ttf selects Go Regular.
func NewFontBank(ttf []byte) (*FontBank, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, errors.Wrap(err, "stage: parse font")
	}
	return &FontBank{font: f, faces: make(map[int]font.Face)}, nil
}

// Face returns the face for the given point size.
func (b *FontBank) Face(size int) font.Face {
	if size <= 0 {
		panic("stage: font size must be positive")
	}
	if f, ok := b.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(b.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(errors.Wrapf(err, "stage: font face %dpt", size))
	}
	b.faces[size] = f
	return f
}

// LineHeight returns the height of one rendered line at size.
func (b *FontBank) LineHeight(size int) int {
	return b.Face(size).Metrics().Height.Ceil()
}

// Measure returns the rendered width and height of a single line of text.
func (b *FontBank) Measure(text string, size int) (w, h int) {
	face := b.Face(size)
	return font.MeasureString(face, text).Ceil(), face.Metrics().Height.Ceil()
}

// Render draws text onto a transparent surface just large enough to hold it.
func (b *FontBank) Render(text string, c Color, size int) *image.RGBA {
	face := b.Face(size)
	w, h := b.Measure(text, size)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 {
		return dst
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c.RGBA8()),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: face.Metrics().Ascent},
	}
	d.DrawString(text)
	return dst
}

// Measurer returns a Measurer bound to one point size.
func (b *FontBank) Measurer(size int) Measurer {
	return sizedFace{bank: b, size: size}
}

type sizedFace struct {
	bank *FontBank
	size int
}

func (f sizedFace) MeasureString(s string) int {
	w, _ := f.bank.Measure(s, f.size)
	return w
}

func (f sizedFace) LineHeight() int {
	return f.bank.LineHeight(f.size)
}
