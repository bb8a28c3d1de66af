// Package pipeline runs the full poster generation flow:
//
//  1. Compose: draw the mode's recipe onto a working canvas
//  2. Finish: apply the mode's texture stack
//  3. Title: overlay the title block
//  4. Export: write web, print and mockup derivatives
//
// Stages 1–3 are pure functions of the options and seed. The same options
// always produce the same pixels, so rendered canvases and previews can be
// cached by their inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Generate(ctx, pipeline.Options{
//	    Mode:   scene.SacredGeometry,
//	    Seed:   4242,
//	    Index:  1,
//	    Title:  "Zen & Calm #1",
//	    OutDir: "out/ZCP_001",
//	})
//
// Batches fan artworks out over a bounded worker pool:
//
//	batch, err := runner.GenerateBatch(ctx, pipeline.BatchOptions{Count: 8, Seed: 4242, OutDir: "out"})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/export"
	"github.com/matzehuels/zenposter/pkg/scene"
)

// =============================================================================
// Default Values - shared by the CLI and the preview server
// =============================================================================

const (
	// DefaultSeed is the base seed of the reference batch.
	DefaultSeed = int64(4242)

	// DefaultCount is the number of artworks in a batch.
	DefaultCount = 8

	// DefaultWorkers bounds concurrent artworks. Each holds several
	// full-size canvases, so memory rather than CPU is the limit.
	DefaultWorkers = 2

	// DefaultPreviewWidth is the preview width in pixels.
	DefaultPreviewWidth = 800

	// MaxPreviewWidth caps preview requests.
	MaxPreviewWidth = 2048

	// PreviewQuality is the JPEG quality of previews.
	PreviewQuality = 85
)

// =============================================================================
// Options - Single Artwork
// =============================================================================

// Options configures one artwork.
type Options struct {
	Mode scene.ModeID `json:"mode"`
	// Palette overrides the mode's own palette when set.
	Palette string `json:"palette,omitempty"`
	// Seed is the batch base seed; Index selects the artwork within it.
	Seed  int64 `json:"seed"`
	Index int   `json:"index"`

	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`

	Size canvas.Size `json:"-"`

	// Export options
	OutDir      string                `json:"-"`
	DPI         int                   `json:"dpi,omitempty"`
	Sizes       []export.PhysicalSize `json:"sizes,omitempty"`
	Watermark   string                `json:"watermark,omitempty"`
	SkipMockups bool                  `json:"skip_mockups,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.DPI == 0 {
		o.DPI = export.DefaultDPI
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeExportSize, "dpi must be positive, got %d", o.DPI)
	}
	if len(o.Sizes) == 0 {
		o.Sizes = export.DefaultSizes
	}
	for _, s := range o.Sizes {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateForRender checks what composition needs and fills its defaults.
func (o *Options) ValidateForRender() error {
	if !o.Mode.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "mode must be 1-%d, got %d", len(scene.AllModes), int(o.Mode))
	}
	if o.Palette != "" {
		if err := errors.ValidatePaletteName(o.Palette); err != nil {
			return err
		}
	}
	if o.Index == 0 {
		o.Index = 1
	}
	if o.Index < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "index must be positive, got %d", o.Index)
	}
	if o.Size == (canvas.Size{}) {
		o.Size = canvas.Size{W: canvas.DefaultWidth, H: canvas.DefaultHeight}
	}
	if err := o.Size.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Seeds returns the derived random streams for this artwork.
func (o *Options) Seeds() Seeds { return DeriveSeeds(o.Seed, o.Index) }

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of one generated artwork.
type Result struct {
	Metadata Metadata
	Manifest *export.Manifest
	Stats    Stats
}

// Stats holds stage timings.
type Stats struct {
	RenderTime time.Duration
	ExportTime time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("render %s, export %s", s.RenderTime.Round(time.Millisecond), s.ExportTime.Round(time.Millisecond))
}
