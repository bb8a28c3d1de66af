package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zenposter/pkg/config"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/pipeline"
	"github.com/matzehuels/zenposter/pkg/scene"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	mode      string
	seed      int64
	index     int
	title     string
	subtitle  string
	palette   string
	out       string
	dpi       int
	watermark string
	noMockups bool
	preview   int // >0 writes only a JPEG preview of this width
	noCache   bool
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		seed:  pipeline.DefaultSeed,
		index: 1,
	}

	cmd := &cobra.Command{
		Use:   "render <mode>",
		Short: "Render one artwork",
		Long: `Render composes a single artwork. The mode is a number (1-4) or a slug
(boho, sacred, flow, harmony). By default every derivative is written to
--out; with --preview only a reduced JPEG is written, served from the
preview cache when possible.`,
		Example: `  zenposter render sacred --seed 4242 --out sacred
  zenposter render 3 --index 2 --title "Still Water" --out flow
  zenposter render harmony --preview 800 --out harmony.jpg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeModes,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.mode = args[0]
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory, or file with --preview (required)")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "base seed")
	cmd.Flags().IntVar(&opts.index, "index", opts.index, "artwork index within the seed")
	cmd.Flags().StringVar(&opts.title, "title", "", "title text")
	cmd.Flags().StringVar(&opts.subtitle, "subtitle", "", "subtitle text (default: mode name)")
	cmd.Flags().StringVar(&opts.palette, "palette", "", "palette override")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "print resolution (default from config)")
	cmd.Flags().StringVar(&opts.watermark, "watermark", "", "web watermark text (default from config)")
	cmd.Flags().BoolVar(&opts.noMockups, "no-mockups", false, "skip room mockups")
	cmd.Flags().IntVar(&opts.preview, "preview", 0, "write only a JPEG preview of this width")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the preview cache")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	id, err := scene.ParseModeID(opts.mode)
	if err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.subtitle == "" {
		if m, err := runner.Registry.Mode(id); err == nil {
			opts.subtitle = m.Name
		}
	}
	if opts.preview > 0 {
		return c.runPreview(ctx, runner, id, opts)
	}
	return c.runRenderFull(ctx, runner, cfg, id, opts)
}

func (c *CLI) runRenderFull(ctx context.Context, runner *pipeline.Runner, cfg config.Config, id scene.ModeID, opts renderOpts) error {
	po := pipeline.Options{
		Mode:        id,
		Palette:     opts.palette,
		Seed:        opts.seed,
		Index:       opts.index,
		Title:       opts.title,
		Subtitle:    opts.subtitle,
		Size:        cfg.Canvas.Size(),
		OutDir:      opts.out,
		DPI:         firstPositive(opts.dpi, cfg.DPI),
		Sizes:       cfg.Sizes,
		Watermark:   cfg.Watermark,
		SkipMockups: opts.noMockups,
		Logger:      loggerFromContext(ctx),
	}
	if opts.watermark != "" {
		po.Watermark = opts.watermark
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", id))
	spinner.Start()
	res, err := runner.Generate(ctx, po)
	switch {
	case err != nil && spinner.Cancelled():
		spinner.Stop()
		return err
	case err != nil:
		spinner.StopWithError(fmt.Sprintf("Rendering %s failed", id))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s in %s", id, (res.Stats.RenderTime + res.Stats.ExportTime).Round(time.Millisecond)))

	if err := pipeline.WriteJSON(filepath.Join(opts.out, pipeline.MetadataFile), res.Metadata); err != nil {
		return err
	}
	printArtwork(opts.out, res)
	return res.Manifest.Err()
}

func (c *CLI) runPreview(ctx context.Context, runner *pipeline.Runner, id scene.ModeID, opts renderOpts) error {
	data, cached, err := runner.RenderPreviewWithCacheInfo(ctx, pipeline.PreviewOptions{
		Mode:     id,
		Palette:  opts.palette,
		Seed:     opts.seed,
		Index:    opts.index,
		Width:    opts.preview,
		Title:    opts.title,
		Subtitle: opts.subtitle,
	})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(opts.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.out)
	}

	printSuccess("Preview %s", StyleValue.Render(id.String()))
	printStats(1, 0, 0, cached)
	printFile(opts.out)
	return nil
}
