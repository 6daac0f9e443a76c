package stage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Screenshot queues a labeled capture of the next composed frame. The PNG
// is written to Config.ScreenshotDir with a timestamped name.
func (c *EngineContext) Screenshot(label string) {
	c.screenshots = append(c.screenshots, label)
}

// flushScreenshots writes frame once per queued label.
func (c *EngineContext) flushScreenshots(frame *image.RGBA) {
	if len(c.screenshots) == 0 {
		return
	}
	defer func() { c.screenshots = c.screenshots[:0] }()

	dir := c.Config.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.Log.Error("screenshot", "dir", dir, "err", err)
		return
	}

	img := unpremultiply(frame)
	stamp := c.Now().Format("20060102_150405")
	for _, label := range c.screenshots {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			c.Log.Error("screenshot", "err", err)
			continue
		}
		c.Log.Debug("screenshot written", "path", path)
	}
}

// unpremultiply converts a premultiplied frame to straight alpha.
func unpremultiply(src *image.RGBA) *image.NRGBA {
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := img.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := src.Pix[si], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3]
			if a > 0 && a < 255 {
				r = uint8(min(int(r)*255/int(a), 255))
				g = uint8(min(int(g)*255/int(a), 255))
				bl = uint8(min(int(bl)*255/int(a), 255))
			}
			img.Pix[di], img.Pix[di+1], img.Pix[di+2], img.Pix[di+3] = r, g, bl, a
			si += 4
			di += 4
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
