package stage

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"runtime"
	"sort"

	"github.com/anthonynsimon/bild/clone"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// TemporaryID identifies the single ephemeral cache slot. Each temporary
// allocation overwrites it, so the id must not be kept past the call that
// produced it.
const TemporaryID = -1

// RecipeKind selects how an entry is regenerated after Restore.
type RecipeKind uint8

const (
	RecipePlain RecipeKind = iota // blank surface of the declared size
	RecipeImage                   // decoded source, then replayed transform steps
	RecipeText                    // text rendered through the font bank
)

// Blob is binary recipe data. It is written as base64 in snapshots.
type Blob []byte

// MarshalYAML implements yaml.Marshaler.
func (b Blob) MarshalYAML() (any, error) {
	return base64.StdEncoding.EncodeToString(b), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Blob) UnmarshalYAML(value *yaml.Node) error {
	data, err := base64.StdEncoding.DecodeString(value.Value)
	if err != nil {
		return errors.Wrap(err, "stage: decode blob")
	}
	*b = data
	return nil
}

// TransformStep records one rotate-then-scale operation.
type TransformStep struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Angle  int `yaml:"angle"`
}

// Recipe holds everything needed to regenerate a surface without the
// original runtime object.
type Recipe struct {
	Kind RecipeKind `yaml:"kind"`

	// Image: either encoded file bytes or premultiplied RGBA pixels.
	Source    Blob            `yaml:"source,omitempty"`
	Raw       Blob            `yaml:"raw,omitempty"`
	RawWidth  int             `yaml:"raw_width,omitempty"`
	RawHeight int             `yaml:"raw_height,omitempty"`
	Steps     []TransformStep `yaml:"steps,omitempty"`

	// Text
	Text     string `yaml:"text,omitempty"`
	Color    Color  `yaml:"color,omitempty"`
	FontSize int    `yaml:"font_size,omitempty"`
}

// Entry is a single cached surface.
type Entry struct {
	ID      int
	Surface *image.RGBA `copier:"-"`
	Size    image.Point
	Alpha   uint8
	Recipe  Recipe
}

// Cache is an identity-keyed store of rendered surfaces. Entries are never
// evicted automatically; Remove is the only way to drop one.
type Cache struct {
	fonts   *FontBank
	entries map[int]*Entry
	paths   map[string]int
	nextID  int
	temp    *Entry
}

// NewCache creates an empty cache that renders text with fonts.
func NewCache(fonts *FontBank) *Cache {
	return &Cache{
		fonts:   fonts,
		entries: make(map[int]*Entry),
		paths:   make(map[string]int),
		nextID:  1,
	}
}

// Fonts returns the font bank used for text entries.
func (c *Cache) Fonts() *FontBank { return c.fonts }

// Len returns the number of retained (non-ephemeral) entries.
func (c *Cache) Len() int { return len(c.entries) }

func (c *Cache) allocate() int {
	id := c.nextID
	c.nextID++
	return id
}

func (c *Cache) mustEntry(id int) *Entry {
	if id == TemporaryID {
		if c.temp == nil {
			panic("stage: temporary surface requested before allocation")
		}
		return c.temp
	}
	e, ok := c.entries[id]
	if !ok {
		panic(fmt.Sprintf("stage: unknown surface id %d", id))
	}
	return e
}

// store writes e at target, or at a freshly allocated id when target is 0.
func (c *Cache) store(e *Entry, target int) int {
	if target == TemporaryID {
		e.ID = TemporaryID
		c.temp = e
		return TemporaryID
	}
	if target == 0 {
		target = c.allocate()
	} else if target >= c.nextID {
		c.nextID = target + 1
	}
	e.ID = target
	c.entries[target] = e
	return target
}

func plainEntry(w, h int, alpha uint8) *Entry {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("stage: negative surface size %dx%d", w, h))
	}
	return &Entry{
		Surface: image.NewRGBA(image.Rect(0, 0, w, h)),
		Size:    image.Pt(w, h),
		Alpha:   alpha,
		Recipe:  Recipe{Kind: RecipePlain},
	}
}

// Create allocates a blank, fully transparent surface.
func (c *Cache) Create(w, h int, alpha uint8) int {
	return c.store(plainEntry(w, h, alpha), 0)
}

// CreateTemporary behaves like Create but writes the ephemeral slot.
func (c *Cache) CreateTemporary(w, h int, alpha uint8) int {
	return c.store(plainEntry(w, h, alpha), TemporaryID)
}

// CreateImage stores a copy of img. The recipe keeps its raw pixels.
func (c *Cache) CreateImage(img image.Image) int {
	rgba := toOrigin(clone.AsRGBA(img))
	size := rgba.Bounds().Size()
	return c.store(&Entry{
		Surface: rgba,
		Size:    size,
		Alpha:   255,
		Recipe: Recipe{
			Kind:      RecipeImage,
			Raw:       Blob(append([]byte(nil), rgba.Pix...)),
			RawWidth:  size.X,
			RawHeight: size.Y,
		},
	}, 0)
}

// LoadImage decodes the image at path and caches it by path. Loading the
// same path again returns the existing id without touching the disk.
func (c *Cache) LoadImage(path string) (int, error) {
	if id, ok := c.paths[path]; ok {
		return id, nil
	}
	data, err := readImageFile(path)
	if err != nil {
		return 0, err
	}
	img, err := decodeImage(data)
	if err != nil {
		return 0, errors.Wrapf(err, "load %s", path)
	}
	id := c.storeDecoded(data, img)
	c.paths[path] = id
	return id, nil
}

func (c *Cache) storeDecoded(data []byte, img *image.RGBA) int {
	return c.store(&Entry{
		Surface: img,
		Size:    img.Bounds().Size(),
		Alpha:   255,
		Recipe:  Recipe{Kind: RecipeImage, Source: Blob(data)},
	}, 0)
}

// PreloadImages loads every path not already cached. Files are read and
// decoded concurrently; entries are registered in path order afterwards.
func (c *Cache) PreloadImages(ctx context.Context, paths []string) error {
	type decoded struct {
		data []byte
		img  *image.RGBA
	}
	results := make([]decoded, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		if _, ok := c.paths[path]; ok {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := readImageFile(path)
			if err != nil {
				return err
			}
			img, err := decodeImage(data)
			if err != nil {
				return errors.Wrapf(err, "load %s", path)
			}
			results[i] = decoded{data: data, img: img}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, path := range paths {
		if results[i].img == nil {
			continue
		}
		if _, ok := c.paths[path]; ok {
			continue
		}
		c.paths[path] = c.storeDecoded(results[i].data, results[i].img)
	}
	return nil
}

// ImageID returns the id of an image previously loaded from path.
func (c *Cache) ImageID(path string) (int, bool) {
	id, ok := c.paths[path]
	return id, ok
}

func (c *Cache) textEntry(text string, col Color, size int) *Entry {
	surf := c.fonts.Render(text, col, size)
	return &Entry{
		Surface: surf,
		Size:    surf.Bounds().Size(),
		Alpha:   255,
		Recipe:  Recipe{Kind: RecipeText, Text: text, Color: col, FontSize: size},
	}
}

// CreateText renders text and stores it at target, or at a new id when
// target is 0.
func (c *Cache) CreateText(text string, col Color, size int, target int) int {
	return c.store(c.textEntry(text, col, size), target)
}

// CreateTemporaryText renders text into the ephemeral slot.
func (c *Cache) CreateTemporaryText(text string, col Color, size int) int {
	return c.store(c.textEntry(text, col, size), TemporaryID)
}

// Get returns the surface for id. Unknown ids panic.
func (c *Cache) Get(id int) *image.RGBA {
	return c.mustEntry(id).Surface
}

// Entry returns the record for id. Unknown ids panic.
func (c *Cache) Entry(id int) *Entry {
	return c.mustEntry(id)
}

// Has reports whether id names a retained entry.
func (c *Cache) Has(id int) bool {
	_, ok := c.entries[id]
	return ok
}

// SetAlpha sets the blit alpha of an entry.
func (c *Cache) SetAlpha(id int, alpha uint8) {
	c.mustEntry(id).Alpha = alpha
}

// Reset clears the surface of id to fully transparent in place.
func (c *Cache) Reset(id int) {
	s := c.mustEntry(id).Surface
	clear(s.Pix)
}

// Transform rotates the surface of id by angle degrees, scales it to size if
// the rotated size differs, and stores the result at target (or a new id
// when target is 0). The returned id keeps a recipe that can regenerate the
// transformed pixels.
func (c *Cache) Transform(id int, size image.Point, angle int, target int) int {
	src := c.mustEntry(id)
	surf := transformSurface(src.Surface, size, angle)
	step := TransformStep{Width: size.X, Height: size.Y, Angle: angle}

	var recipe Recipe
	switch src.Recipe.Kind {
	case RecipePlain:
		recipe = Recipe{Kind: RecipePlain}
	case RecipeImage:
		recipe = copyRecipe(src.Recipe)
		recipe.Steps = append(recipe.Steps, step)
	case RecipeText:
		b := src.Surface.Bounds()
		recipe = Recipe{
			Kind:      RecipeImage,
			Raw:       Blob(append([]byte(nil), src.Surface.Pix...)),
			RawWidth:  b.Dx(),
			RawHeight: b.Dy(),
			Steps:     []TransformStep{step},
		}
	}

	alpha := src.Alpha
	if target != 0 && target != TemporaryID {
		if prev, ok := c.entries[target]; ok {
			alpha = prev.Alpha
		}
	}
	return c.store(&Entry{
		Surface: surf,
		Size:    surf.Bounds().Size(),
		Alpha:   alpha,
		Recipe:  recipe,
	}, target)
}

// Remove drops an entry and any path index pointing at it.
func (c *Cache) Remove(id int) {
	c.mustEntry(id)
	delete(c.entries, id)
	for path, pid := range c.paths {
		if pid == id {
			delete(c.paths, path)
		}
	}
}

func copyRecipe(r Recipe) Recipe {
	var out Recipe
	if err := copier.CopyWithOption(&out, &r, copier.Option{DeepCopy: true}); err != nil {
		panic(errors.Wrap(err, "stage: copy recipe"))
	}
	return out
}

// Clone returns a deep copy of the cache sharing only the font bank.
func (c *Cache) Clone() *Cache {
	out := NewCache(c.fonts)
	out.nextID = c.nextID
	for path, id := range c.paths {
		out.paths[path] = id
	}
	for id, e := range c.entries {
		var ne Entry
		if err := copier.CopyWithOption(&ne, e, copier.Option{DeepCopy: true}); err != nil {
			panic(errors.Wrap(err, "stage: clone entry"))
		}
		ne.Surface = clone.AsRGBA(e.Surface)
		out.entries[id] = &ne
	}
	return out
}

// ids returns retained ids in ascending order.
func (c *Cache) ids() []int {
	ids := make([]int, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// regenerate rebuilds a surface from its recipe.
func (c *Cache) regenerate(rec EntryRecord) (*image.RGBA, error) {
	r := rec.Recipe
	switch r.Kind {
	case RecipePlain:
		return image.NewRGBA(image.Rect(0, 0, rec.Width, rec.Height)), nil
	case RecipeText:
		return c.fonts.Render(r.Text, r.Color, r.FontSize), nil
	case RecipeImage:
		var img *image.RGBA
		if len(r.Source) > 0 {
			var err error
			img, err = decodeImage(r.Source)
			if err != nil {
				return nil, errors.Wrapf(err, "restore surface %d", rec.ID)
			}
		} else {
			img = rawImage(r.Raw, r.RawWidth, r.RawHeight)
		}
		for _, st := range r.Steps {
			img = transformSurface(img, image.Pt(st.Width, st.Height), st.Angle)
		}
		return img, nil
	default:
		return nil, errors.Errorf("stage: surface %d has unknown recipe kind %d", rec.ID, r.Kind)
	}
}
