package stage

import (
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// Clipboard reads the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

// EngineContext carries the engine-wide state that nodes and scenes need:
// settings, the surface cache, input, scenes and tick queues. It is passed
// explicitly to every constructor.
type EngineContext struct {
	Config    Config
	Cache     *Cache
	Input     *Input
	Scenes    *SceneManager
	Ticks     *TickManager
	Log       *slog.Logger
	Clipboard Clipboard

	// Now is the clock used for key repeat timing.
	Now func() time.Time

	textInput   bool
	lastNodeID  uint32
	injectQueue []InputState
	lastPointer image.Point
	runner      *TestRunner
	screenshots []string
}

// NewEngineContext creates a context from cfg. The font at cfg.FontPath is
// loaded when set; otherwise Go Regular is used.
func NewEngineContext(cfg Config) (*EngineContext, error) {
	var ttf []byte
	if cfg.FontPath != "" {
		data, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return nil, errors.Wrap(err, "stage: load font")
		}
		ttf = data
	}
	fonts, err := NewFontBank(ttf)
	if err != nil {
		return nil, err
	}
	ctx := &EngineContext{
		Config:    cfg,
		Cache:     NewCache(fonts),
		Input:     &Input{},
		Ticks:     &TickManager{},
		Log:       slog.New(slog.DiscardHandler),
		Clipboard: systemClipboard{},
		Now:       time.Now,
	}
	ctx.Scenes = newSceneManager(ctx)
	return ctx, nil
}

func (c *EngineContext) nextNodeID() uint32 {
	c.lastNodeID++
	return c.lastNodeID
}

// Tick runs one engine tick with the host's input. Injected input, when
// queued, replaces state for this tick.
func (c *EngineContext) Tick(state InputState) {
	if c.runner != nil {
		c.runner.step(c)
	}
	if injected, ok := c.nextInjected(); ok {
		state = injected
	}
	c.Input.begin(state)
	c.Ticks.runStart()

	if s := c.Scenes.Current(); s != nil {
		s.Update(c)
	}

	c.Ticks.runEnd()
	c.Input.end()
}

// Compose draws the current scene into dst and writes any queued
// screenshots of the result.
func (c *EngineContext) Compose(dst *image.RGBA) {
	if s := c.Scenes.Current(); s != nil {
		s.Compose(dst, c.Cache)
	} else {
		fill(dst, dst.Bounds(), c.Config.BackgroundColor())
	}
	c.flushScreenshots(dst)
}

// StartTextInput marks that a field is accepting typed text.
func (c *EngineContext) StartTextInput() { c.textInput = true }

// StopTextInput marks that no field is accepting typed text.
func (c *EngineContext) StopTextInput() { c.textInput = false }

// TextInputActive reports whether a field is accepting typed text. Hosts
// may use it to decide whether to collect text events.
func (c *EngineContext) TextInputActive() bool { return c.textInput }

// SaveState queues a snapshot of the surface cache to be written to path at
// the end of the current tick.
func (c *EngineContext) SaveState(path string) {
	c.Ticks.ScheduleEnd(Do(func() {
		if err := WriteSnapshotFile(path, c.Cache.Serialize()); err != nil {
			c.Log.Error("save state", "path", path, "err", err)
			return
		}
		c.Log.Info("state saved", "path", path, "entries", c.Cache.Len())
	}))
}

// LoadState queues a restore of the surface cache from path at the end of
// the current tick. Every visual in the current scene is redrawn afterwards.
func (c *EngineContext) LoadState(path string) {
	c.Ticks.ScheduleEnd(Do(func() {
		snap, err := ReadSnapshotFile(path)
		if err != nil {
			c.Log.Error("load state", "path", path, "err", err)
			return
		}
		if err := c.Cache.Restore(snap); err != nil {
			c.Log.Error("load state", "path", path, "err", err)
			return
		}
		if s := c.Scenes.Current(); s != nil {
			s.invalidate()
		}
		c.Log.Info("state loaded", "path", path, "entries", c.Cache.Len())
	}))
}
