// Podsearch is a desktop front end for searching podcast transcripts.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/sqweek/dialog"

	"github.com/phanxgames/stage"
	"github.com/phanxgames/stage/host"
	"github.com/phanxgames/stage/internal/searchui"
)

// options holds the command line flags.
type options struct {
	Config      string
	Corpus      string
	Script      string
	Scale       float64
	Debug       bool
	WriteConfig bool
}

func main() {
	var opts options

	defaultConfig, err := xdg.ConfigFile(filepath.Join("podsearch", "config.toml"))
	if err != nil {
		defaultConfig = "podsearch.toml"
	}

	rootCmd := &cobra.Command{
		Use:   "podsearch [flags]",
		Short: "Search podcast transcripts",
		Example: `  # Search a local corpus
  podsearch --corpus transcripts.yaml

  # Replay a UI script and exit, capturing screenshots
  podsearch --corpus transcripts.yaml --script smoke.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	rootCmd.Flags().StringVarP(&opts.Config, "config", "c", defaultConfig, "Path to the TOML config file")
	rootCmd.Flags().StringVar(&opts.Corpus, "corpus", "", "YAML file of transcripts to search")
	rootCmd.Flags().StringVar(&opts.Script, "script", "", "JSON UI script to replay; exits when done")
	rootCmd.Flags().Float64Var(&opts.Scale, "scale", 1, "Window scale factor")
	rootCmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Enable debug logging and scene statistics")
	rootCmd.Flags().BoolVar(&opts.WriteConfig, "write-config", false, "Write the effective config to --config and exit")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	cfg, err := stage.LoadConfig(opts.Config)
	if err != nil {
		return err
	}
	cfg.Debug = cfg.Debug || opts.Debug
	if opts.WriteConfig {
		if err := os.MkdirAll(filepath.Dir(opts.Config), 0o755); err != nil {
			return errors.Wrap(err, "create config dir")
		}
		if err := cfg.Save(opts.Config); err != nil {
			return err
		}
		logger.Info("config written", "path", opts.Config)
		return nil
	}

	engine, err := stage.NewEngineContext(cfg)
	if err != nil {
		return err
	}
	engine.Log = logger

	if paths, _ := filepath.Glob(filepath.Join(cfg.ImageDir, "*.png")); len(paths) > 0 {
		if err := engine.Cache.PreloadImages(ctx, paths); err != nil {
			logger.Warn("preload images", "dir", cfg.ImageDir, "err", err)
		}
	}

	searcher := searchui.NewMemorySearcher(nil)
	if opts.Corpus != "" {
		if searcher, err = searchui.LoadCorpusFile(opts.Corpus); err != nil {
			return err
		}
		logger.Info("corpus loaded", "path", opts.Corpus, "transcripts", searcher.Len())
	}

	if opts.Script != "" {
		data, err := os.ReadFile(opts.Script)
		if err != nil {
			return errors.Wrap(err, "read script")
		}
		runner, err := stage.LoadTestScript(data)
		if err != nil {
			return err
		}
		engine.SetTestRunner(runner)
	}

	_, scene := searchui.NewMain(engine, searchui.Options{
		Searcher: searcher,
		PickSave: pickFile(cfg.SaveDir, true),
		PickLoad: pickFile(cfg.SaveDir, false),
	})
	engine.Scenes.Create(scene)

	return host.Run(engine, host.Options{
		Scale:           opts.Scale,
		ExitAfterScript: opts.Script != "",
	})
}

// pickFile opens a native file dialog for snapshot files in dir. A
// cancelled dialog yields an empty path.
func pickFile(dir string, save bool) searchui.PathPicker {
	return func() (string, error) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(err, "create save dir")
		}
		b := dialog.File().Filter("Stage snapshots", "yaml").SetStartDir(dir)
		var (
			path string
			err  error
		)
		if save {
			path, err = b.Title("Save state").Save()
		} else {
			path, err = b.Title("Load state").Load()
		}
		if errors.Is(err, dialog.ErrCancelled) {
			return "", nil
		}
		if err != nil {
			return "", errors.Wrap(err, "file dialog")
		}
		return filepath.Clean(path), nil
	}
}
