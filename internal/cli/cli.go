// Package cli implements the zenposter command-line interface.
//
// # Commands
//
//   - generate: render a batch of artworks with every derivative
//   - render: render one artwork by mode, seed and index
//   - modes: list the modes and their palettes
//   - pick: choose a mode interactively and render it
//   - serve: run the HTTP preview server
//   - cache: inspect or clear the preview cache
//
// All commands accept --config for a TOML file (see package config) and
// --verbose (-v) for debug logging. The logger travels through
// context.Context so long-running steps can report progress.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zenposter/pkg/buildinfo"
	"github.com/matzehuels/zenposter/pkg/cache"
	"github.com/matzehuels/zenposter/pkg/config"
	"github.com/matzehuels/zenposter/pkg/fonts"
	"github.com/matzehuels/zenposter/pkg/pipeline"
	"github.com/matzehuels/zenposter/pkg/scene"
)

// appName is used for directories and display.
const appName = "zenposter"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by every command.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Zenposter renders calm, seed-reproducible wall art",
		Long: `Zenposter composes minimalist poster artworks from a seed and exports
web images, print-ready files at physical sizes, and room mockups.
The same seed and index always reproduce the same pixels.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: user config dir/"+appName+"/"+config.FileName+")")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.modesCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "backend", cfg.Cache.Backend, "dpi", cfg.DPI)
	c.cfg = &cfg
	return cfg, nil
}

// newRunner builds a pipeline runner from the configuration. With noCache
// the preview cache is disabled regardless of the configured backend.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	reg, err := scene.NewRegistry(cfg.Palettes)
	if err != nil {
		return nil, err
	}

	store := cache.NewNullCache()
	if !noCache {
		store, err = cache.Open(ctx, cfg.Cache.Options())
		if err != nil {
			return nil, err
		}
	}

	r := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, "v"+buildinfo.Version+":"), c.Logger)
	r.Registry = reg
	r.Fonts = fonts.NewResolver(cfg.Fonts.Preferred...)
	if cfg.Cache.TTL.Duration > 0 {
		r.PreviewTTL = cfg.Cache.TTL.Duration
	}
	return r, nil
}
