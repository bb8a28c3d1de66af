package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zenposter/pkg/pipeline"
)

// generateOpts holds the flags of the generate command. Zero values fall
// back to the configuration file.
type generateOpts struct {
	out       string
	count     int
	seed      int64
	titles    string
	palette   string
	workers   int
	dpi       int
	watermark string
	noMockups bool
	noCache   bool
}

func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		count: pipeline.DefaultCount,
		seed:  pipeline.DefaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a batch of artworks with web, print and mockup files",
		Long: `Generate renders --count artworks, rotating through the four modes by
index. Each artwork is written to ZCP_<index> under --out together with its
web images, print files and mockups; metadata.json lists the whole batch.`,
		Example: `  zenposter generate --out posters
  zenposter generate --out posters --count 4 --seed 7 --titles titles.json
  zenposter generate --out posters --palette calm_flow --no-mockups`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory (required)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "number of artworks")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "base seed")
	cmd.Flags().StringVar(&opts.titles, "titles", "", "JSON file of {title, subtitle} entries")
	cmd.Flags().StringVar(&opts.palette, "palette", "", "palette for every mode (default: each mode's own)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel renders (default from config)")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "print resolution (default from config)")
	cmd.Flags().StringVar(&opts.watermark, "watermark", "", "web watermark text (default from config)")
	cmd.Flags().BoolVar(&opts.noMockups, "no-mockups", false, "skip room mockups")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the preview cache")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts generateOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	batch := pipeline.BatchOptions{
		Count:       opts.count,
		Seed:        opts.seed,
		Palette:     opts.palette,
		OutDir:      opts.out,
		Workers:     firstPositive(opts.workers, cfg.Workers),
		Size:        cfg.Canvas.Size(),
		DPI:         firstPositive(opts.dpi, cfg.DPI),
		Sizes:       cfg.Sizes,
		Watermark:   cfg.Watermark,
		SkipMockups: opts.noMockups,
	}
	if opts.watermark != "" {
		batch.Watermark = opts.watermark
	}
	if opts.titles != "" {
		if batch.Titles, err = pipeline.LoadTitles(opts.titles); err != nil {
			return err
		}
	}

	prog := newProgress(logger)
	logger.Info("Generating artworks", "count", batch.Count, "seed", batch.Seed, "workers", batch.Workers, "out", batch.OutDir)

	res, err := runner.GenerateBatch(ctx, batch)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d artworks", len(res.Items)-res.Failed()))

	printBatch(res)
	printFile(filepath.Join(opts.out, pipeline.MetadataFile))
	return res.Err()
}

// firstPositive returns the first value greater than zero, or zero.
func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
