package stage

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config holds engine settings. The zero value is not useful; start from
// DefaultConfig or LoadConfig.
type Config struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	TPS    int    `toml:"tps"`
	Title  string `toml:"title"`

	// FontPath optionally names a TTF/OTF file. Empty means Go Regular.
	FontPath   string `toml:"font_path"`
	TextOffset int    `toml:"text_offset"`

	IndicatorPressAlpha uint8 `toml:"indicator_press_alpha"`
	IndicatorHoverAlpha uint8 `toml:"indicator_hover_alpha"`

	// Background is the clear color as [r, g, b] in 0..255.
	Background [3]uint8 `toml:"background"`

	// Debug enables tree sanity checks and per-tick timing records.
	Debug bool `toml:"debug"`

	ScreenshotDir string `toml:"screenshot_dir"`
	SaveDir       string `toml:"save_dir"`
	ImageDir      string `toml:"image_dir"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Width:               1280,
		Height:              720,
		TPS:                 60,
		Title:               "stage",
		TextOffset:          5,
		IndicatorPressAlpha: 100,
		IndicatorHoverAlpha: 80,
		Background:          [3]uint8{0, 0, 0},
		ScreenshotDir:       "screenshots",
		SaveDir:             "saves",
		ImageDir:            "images",
	}
}

// BackgroundColor returns Background as a Color.
func (c Config) BackgroundColor() Color {
	return RGB(c.Background[0], c.Background[1], c.Background[2])
}

// LoadConfig reads TOML settings from path on top of DefaultConfig. A
// missing file yields the defaults. Paths starting with ~ are expanded.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	path, err := homedir.Expand(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "stage: config %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "stage: config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "stage: config %s", path)
	}
	if err := cfg.expandPaths(); err != nil {
		return cfg, errors.Wrapf(err, "stage: config %s", path)
	}
	return cfg, cfg.validate()
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.FontPath, &c.ScreenshotDir, &c.SaveDir, &c.ImageDir} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("stage: invalid window size %dx%d", c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return errors.Errorf("stage: invalid tps %d", c.TPS)
	}
	if c.TextOffset < 0 {
		return errors.Errorf("stage: negative text_offset %d", c.TextOffset)
	}
	return nil
}

// Save writes the settings as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "stage: encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "stage: save config %s", path)
}
