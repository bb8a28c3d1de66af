package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/export"
	"github.com/matzehuels/zenposter/pkg/observability"
	"github.com/matzehuels/zenposter/pkg/scene"
)

// MetadataFile is the batch-level metadata written next to the item dirs.
const MetadataFile = "metadata.json"

// Title is one entry of a batch title list.
type Title struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// LoadTitles reads a JSON array of {"title", "subtitle"} objects.
func LoadTitles(path string) ([]Title, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read titles")
	}
	var titles []Title
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse titles %s", path)
	}
	return titles, nil
}

// BatchOptions configures a batch. Modes rotate through scene.AllModes by
// artwork index.
type BatchOptions struct {
	Count   int
	Seed    int64
	Titles  []Title
	Palette string
	OutDir  string
	Workers int

	Size        canvas.Size
	DPI         int
	Sizes       []export.PhysicalSize
	Watermark   string
	SkipMockups bool
}

func (o *BatchOptions) setDefaults() error {
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.Count < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "count must be positive, got %d", o.Count)
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	return errors.ValidateOutputDir(o.OutDir)
}

// Item returns the options of artwork i (1-based). Missing titles default
// to "Zen & Calm #i" and missing subtitles to the mode name.
func (o *BatchOptions) Item(i int, reg *scene.Registry) Options {
	id := scene.Rotate(i)
	var t Title
	if i-1 < len(o.Titles) {
		t = o.Titles[i-1]
	}
	if t.Title == "" {
		t.Title = fmt.Sprintf("Zen & Calm #%d", i)
	}
	if t.Subtitle == "" {
		if m, err := reg.Mode(id); err == nil {
			t.Subtitle = m.Name
		}
	}
	return Options{
		Mode:        id,
		Palette:     o.Palette,
		Seed:        o.Seed,
		Index:       i,
		Title:       t.Title,
		Subtitle:    t.Subtitle,
		Size:        o.Size,
		OutDir:      filepath.Join(o.OutDir, ItemDir(i)),
		DPI:         o.DPI,
		Sizes:       o.Sizes,
		Watermark:   o.Watermark,
		SkipMockups: o.SkipMockups,
	}
}

// BatchItem is the outcome of one artwork in a batch.
type BatchItem struct {
	Index  int
	Mode   scene.ModeID
	Dir    string
	Result *Result
	Err    error
}

// BatchResult collects every item in index order.
type BatchResult struct {
	Items    []BatchItem
	Duration time.Duration
}

// Failed returns the number of artworks that did not complete.
func (b *BatchResult) Failed() int {
	n := 0
	for _, it := range b.Items {
		if it.Err != nil {
			n++
		}
	}
	return n
}

// Metadata returns the records of completed artworks.
func (b *BatchResult) Metadata() []Metadata {
	out := make([]Metadata, 0, len(b.Items))
	for _, it := range b.Items {
		if it.Err == nil && it.Result != nil {
			out = append(out, it.Result.Metadata)
		}
	}
	return out
}

// Err joins artwork and derivative failures, or returns nil.
func (b *BatchResult) Err() error {
	var errs []error
	for _, it := range b.Items {
		if it.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", SKU(it.Index), it.Err))
		} else if it.Result != nil && it.Result.Manifest != nil {
			if err := it.Result.Manifest.Err(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", SKU(it.Index), err))
			}
		}
	}
	return stderrors.Join(errs...)
}

// GenerateBatch renders opts.Count artworks into ZCP_<iii> directories
// under opts.OutDir, at most opts.Workers at a time.
//
// Palette and color problems are checked before any artwork starts and fail
// the whole batch. Any other failure is confined to its artwork and recorded
// in the result; siblings keep running. The returned error is non-nil only
// for batch-fatal problems or cancellation.
func (r *Runner) GenerateBatch(ctx context.Context, opts BatchOptions) (*BatchResult, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	for _, id := range scene.AllModes {
		if _, _, err := r.Registry.Resolve(id, opts.Palette); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	res := &BatchResult{Items: make([]BatchItem, opts.Count)}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := 1; i <= opts.Count; i++ {
		item := opts.Item(i, r.Registry)
		slot := &res.Items[i-1]
		slot.Index, slot.Mode, slot.Dir = i, item.Mode, item.OutDir

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				slot.Err = err
				return nil
			}
			out, err := r.Generate(gctx, item)
			if err != nil {
				r.Logger.Error("artwork failed", "sku", SKU(i), "err", err)
				slot.Err = err
				if errors.Fatal(err) {
					return err
				}
				return nil
			}
			slot.Result = out
			return nil
		})
	}
	err := g.Wait()
	res.Duration = time.Since(start)
	observability.Pipeline().OnBatchComplete(ctx, opts.Count, res.Failed(), res.Duration)

	if err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := WriteJSON(filepath.Join(opts.OutDir, MetadataFile), res.Metadata()); err != nil {
		return res, err
	}
	r.Logger.Info("batch complete", "count", opts.Count, "failed", res.Failed(), "duration", res.Duration.Round(time.Millisecond))
	return res, nil
}
