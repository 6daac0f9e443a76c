package stage

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Errors returned by image loading. Both are recoverable; callers can test
// for them with errors.Is.
var (
	ErrImageNotFound    = errors.New("stage: image not found")
	ErrUnsupportedImage = errors.New("stage: unsupported image format")
)

var decodableImages = map[string]bool{
	"png":  true,
	"jpg":  true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
}

// readImageFile reads the raw bytes of an image file.
func readImageFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrImageNotFound, "load %s", path)
		}
		return nil, errors.Wrapf(err, "stage: load %s", path)
	}
	return data, nil
}

// decodeImage sniffs and decodes encoded image bytes into an RGBA surface.
func decodeImage(data []byte) (*image.RGBA, error) {
	kind, err := filetype.Image(data)
	if err != nil || !decodableImages[kind.Extension] {
		return nil, errors.Wrapf(ErrUnsupportedImage, "sniffed %q", kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedImage, "decode %s: %v", kind.Extension, err)
	}
	return toOrigin(clone.AsRGBA(img)), nil
}

// toOrigin returns img moved so its bounds start at (0, 0).
func toOrigin(img *image.RGBA) *image.RGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	return rotateQuarters(img, 0)
}

// rawImage rebuilds a surface from premultiplied RGBA bytes.
func rawImage(pix []byte, w, h int) *image.RGBA {
	if len(pix) != 4*w*h {
		panic("stage: raw image size mismatch")
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img
}

// transformSurface rotates src counter-clockwise by angle degrees (a multiple
// of 90) and then scales it to size if the rotated size differs. The result
// never aliases src.
func transformSurface(src *image.RGBA, size image.Point, angle int) *image.RGBA {
	if angle%90 != 0 {
		panic("stage: rotation must be a multiple of 90 degrees")
	}
	if size.X < 0 || size.Y < 0 {
		panic("stage: negative surface size")
	}
	out := src
	if angle%360 != 0 {
		out = rotateQuarters(out, angle/90)
	}
	if out.Bounds().Size() != size {
		if size.X == 0 || size.Y == 0 || out.Bounds().Empty() {
			return image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
		}
		return transform.Resize(out, size.X, size.Y, transform.Linear)
	}
	if out == src {
		return clone.AsRGBA(src)
	}
	return out
}

// rotateQuarters permutes pixels for an exact rotation by n quarter turns
// counter-clockwise.
func rotateQuarters(src *image.RGBA, n int) *image.RGBA {
	n = ((n % 4) + 4) % 4
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if n%2 == 1 {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			var dx, dy int
			switch n {
			case 0:
				dx, dy = sx, sy
			case 1:
				dx, dy = sy, w-1-sx
			case 2:
				dx, dy = w-1-sx, h-1-sy
			case 3:
				dx, dy = h-1-sy, sx
			}
			si := src.PixOffset(b.Min.X+sx, b.Min.Y+sy)
			di := dst.PixOffset(dx, dy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}
