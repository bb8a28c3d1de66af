package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/zenposter/pkg/cache"
	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/export"
	"github.com/matzehuels/zenposter/pkg/fonts"
	"github.com/matzehuels/zenposter/pkg/observability"
	"github.com/matzehuels/zenposter/pkg/scene"
	"github.com/matzehuels/zenposter/pkg/typography"
)

// Runner executes the pipeline against a mode registry, a preview cache and
// a font resolver. It holds no per-artwork state; one Runner serves
// concurrent calls.
type Runner struct {
	Registry *scene.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	Fonts    *fonts.Resolver
	Logger   *log.Logger

	// PreviewTTL bounds how long encoded previews stay cached.
	PreviewTTL time.Duration
}

// NewRunner creates a runner over the default registry.
// A nil cache disables caching; a nil keyer uses cache.DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: scene.DefaultRegistry(),
		Cache:    c,
		Keyer:    keyer,
		Fonts:    fonts.NewResolver(),
		Logger:   logger,

		PreviewTTL: cache.TTLPreview,
	}
}

// Render composes, finishes and titles one artwork at opts.Size.
func (r *Runner) Render(ctx context.Context, opts Options) (*canvas.Canvas, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	m, p, err := r.Registry.Resolve(opts.Mode, opts.Palette)
	if err != nil {
		return nil, err
	}
	return r.render(ctx, opts, m, p)
}

func (r *Runner) render(ctx context.Context, opts Options, m scene.Mode, p colors.Palette) (*canvas.Canvas, error) {
	seeds := opts.Seeds()
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnComposeStart(ctx, m.ID.String(), seeds.Scene)
	c, err := scene.Compose(opts.Size, m, p, seeds.SceneRNG())
	hooks.OnComposeComplete(ctx, m.ID.String(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	r.Logger.Debug("composed scene", "mode", m.ID, "palette", p.Name(), "seed", seeds.Scene, "duration", time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err = Finish(m.ID, seeds).Apply(c, func(stage string) {
		hooks.OnTextureStage(ctx, stage)
	})
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}

	c, err = typography.Overlay(c, opts.Title, opts.Subtitle, typography.DefaultTop, typography.DefaultPad,
		typography.WithFonts(r.Fonts))
	if err != nil {
		return nil, fmt.Errorf("typography: %w", err)
	}
	return c, nil
}

// Generate renders one artwork and writes every derivative to opts.OutDir.
// Derivative failures are recorded in the manifest; only artwork-fatal
// errors are returned.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	m, p, err := r.Registry.Resolve(opts.Mode, opts.Palette)
	if err != nil {
		return nil, err
	}
	planner, err := export.NewPlanner(opts.OutDir,
		export.WithDPI(opts.DPI),
		export.WithSizes(opts.Sizes...),
		export.WithWatermark(opts.Watermark),
		export.WithMockups(!opts.SkipMockups),
		export.WithFonts(r.Fonts),
		export.WithLogger(r.Logger),
	)
	if err != nil {
		return nil, err
	}

	res := &Result{Metadata: NewMetadata(opts, m, p.Name())}

	start := time.Now()
	c, err := r.render(ctx, opts, m, p)
	if err != nil {
		return nil, err
	}
	res.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered artwork", "sku", res.Metadata.SKU, "mode", m.Name, "duration", res.Stats.RenderTime)

	start = time.Now()
	manifest, err := planner.Export(ctx, opts.Index, c)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	res.Stats.ExportTime = time.Since(start)
	res.Manifest = manifest
	res.Metadata.Files = manifest.Entries
	r.Logger.Info("exported artwork", "sku", res.Metadata.SKU, "files", len(manifest.Entries),
		"failed", len(manifest.Failures), "duration", res.Stats.ExportTime)
	return res, nil
}

// PreviewOptions configures a reduced-size preview render.
type PreviewOptions struct {
	Mode     scene.ModeID
	Palette  string
	Seed     int64
	Index    int
	Width    int
	Title    string
	Subtitle string
}

func (o *PreviewOptions) options() (Options, error) {
	if o.Width == 0 {
		o.Width = DefaultPreviewWidth
	}
	if o.Width < 0 || o.Width > MaxPreviewWidth {
		return Options{}, errors.New(errors.ErrCodeInvalidInput, "preview width must be 1-%d, got %d", MaxPreviewWidth, o.Width)
	}
	opts := Options{
		Mode:     o.Mode,
		Palette:  o.Palette,
		Seed:     o.Seed,
		Index:    o.Index,
		Title:    o.Title,
		Subtitle: o.Subtitle,
		Size:     canvas.Size{W: o.Width, H: o.Width * canvas.DefaultHeight / canvas.DefaultWidth},
	}
	if err := opts.ValidateForRender(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// RenderPreviewWithCacheInfo returns a JPEG preview and whether it came
// from cache. Previews are rendered directly at their reduced size.
func (r *Runner) RenderPreviewWithCacheInfo(ctx context.Context, po PreviewOptions) ([]byte, bool, error) {
	opts, err := po.options()
	if err != nil {
		return nil, false, err
	}
	m, p, err := r.Registry.Resolve(opts.Mode, opts.Palette)
	if err != nil {
		return nil, false, err
	}

	key := r.previewKey(opts, p)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "preview")
		return data, true, nil
	} else if err != nil {
		r.Logger.Warn("preview cache read failed", "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, "preview")

	c, err := r.render(ctx, opts, m, p)
	if err != nil {
		return nil, false, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, c.Image(), imaging.JPEG, imaging.JPEGQuality(PreviewQuality)); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode preview")
	}
	data := buf.Bytes()
	if err := r.Cache.Set(ctx, key, data, r.PreviewTTL); err != nil {
		r.Logger.Warn("preview cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "preview", len(data))
	}
	return data, false, nil
}

// PreviewKey returns the cache key of the preview po describes. Two options
// share a key only if they render the same bytes: the key covers the
// resolved palette colors and the title font, not just their names.
func (r *Runner) PreviewKey(po PreviewOptions) (string, error) {
	opts, err := po.options()
	if err != nil {
		return "", err
	}
	_, p, err := r.Registry.Resolve(opts.Mode, opts.Palette)
	if err != nil {
		return "", err
	}
	return r.previewKey(opts, p), nil
}

func (r *Runner) previewKey(opts Options, p colors.Palette) string {
	return r.Keyer.PreviewKey(cache.PreviewKeyOpts{
		Mode:     int(opts.Mode),
		Palette:  p.Hexes(),
		Seed:     opts.Seed,
		Index:    opts.Index,
		Width:    opts.Size.W,
		Height:   opts.Size.H,
		Title:    opts.Title,
		Subtitle: opts.Subtitle,
		Font:     r.fontID(),
		Quality:  PreviewQuality,
	})
}

// fontID names the face titles are set in: its file path, or the fallback name.
func (r *Runner) fontID() string {
	if r.Fonts == nil {
		return ""
	}
	if path := r.Fonts.Path(); path != "" {
		return path
	}
	return r.Fonts.Name()
}

// RenderPreview is RenderPreviewWithCacheInfo without the hit flag.
func (r *Runner) RenderPreview(ctx context.Context, po PreviewOptions) ([]byte, error) {
	data, _, err := r.RenderPreviewWithCacheInfo(ctx, po)
	return data, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
