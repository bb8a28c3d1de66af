// Package export fans one finished canvas out into every deliverable:
// web derivatives, print masters at a fixed DPI and room mockups.
//
// Render functions ([RenderWeb], [RenderPrint], [RenderMockup]) are pure and
// return canvases. [Planner] encodes and writes them under an output
// directory with a fixed layout:
//
//	web/master_<idx>_2048.jpg
//	web/preview_<idx>_1600.jpg
//	web/thumb_<idx>_1200.jpg
//	print/<size>_<idx>_<dpi>dpi.png
//	mockups/wall_<idx>.jpg
//	mockups/framed_<idx>.jpg
//
// A derivative that fails is logged and recorded in the [Manifest]; the
// remaining derivatives are still produced.
package export

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/fonts"
	"github.com/matzehuels/zenposter/pkg/observability"
)

// Kind classifies an exported file.
type Kind string

// Export kinds.
const (
	KindWebMaster Kind = "web-master"
	KindPreview   Kind = "preview"
	KindThumb     Kind = "thumb"
	KindPrint     Kind = "print"
	KindMockup    Kind = "mockup"
)

// Entry describes one written file. Path is relative to the output directory.
type Entry struct {
	Path     string  `json:"path"`
	Kind     Kind    `json:"kind"`
	WidthPx  int     `json:"width_px"`
	HeightPx int     `json:"height_px"`
	DPI      int     `json:"dpi,omitempty"`
	WidthIn  float64 `json:"width_in,omitempty"`
	HeightIn float64 `json:"height_in,omitempty"`
	Bytes    int     `json:"bytes"`
}

// Failure records a derivative that could not be produced.
type Failure struct {
	Path string
	Kind Kind
	Err  error
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Path, f.Err) }
func (f Failure) Unwrap() error { return f.Err }

// Manifest lists what one Export call produced.
type Manifest struct {
	Index    int       `json:"index"`
	Entries  []Entry   `json:"entries"`
	Failures []Failure `json:"-"`
}

// Err joins all derivative failures, or returns nil.
func (m *Manifest) Err() error {
	errs := make([]error, len(m.Failures))
	for i, f := range m.Failures {
		errs[i] = f
	}
	return stderrors.Join(errs...)
}

// Find returns the first entry of the given kind.
func (m *Manifest) Find(kind Kind) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Kind == kind {
			return e, true
		}
	}
	return Entry{}, false
}

// Derivative paths are slash-separated and relative to the planner's
// directory, so manifests and metadata read the same on every OS.

// MasterPath is the relative path of the 2048px web master.
func MasterPath(idx int) string {
	return path.Join("web", fmt.Sprintf("master_%02d_%d.jpg", idx, MasterWidth))
}

// PreviewPath is the relative path of the watermarked preview.
func PreviewPath(idx int) string {
	return path.Join("web", fmt.Sprintf("preview_%02d_%d.jpg", idx, PreviewWidth))
}

// ThumbPath is the relative path of the thumbnail.
func ThumbPath(idx int) string {
	return path.Join("web", fmt.Sprintf("thumb_%02d_%d.jpg", idx, ThumbWidth))
}

// PrintPath is the relative path of a print master.
func PrintPath(size string, idx, dpi int) string {
	return path.Join("print", fmt.Sprintf("%s_%02d_%ddpi.png", size, idx, dpi))
}

// MockupPath is the relative path of a mockup.
func MockupPath(idx int, framed bool) string {
	name := "wall"
	if framed {
		name = "framed"
	}
	return path.Join("mockups", fmt.Sprintf("%s_%02d.jpg", name, idx))
}

// Option configures a Planner.
type Option func(*Planner)

// WithDPI sets the print resolution.
func WithDPI(dpi int) Option { return func(p *Planner) { p.dpi = dpi } }

// WithSizes replaces the print sizes.
func WithSizes(sizes ...PhysicalSize) Option {
	return func(p *Planner) { p.sizes = append([]PhysicalSize(nil), sizes...) }
}

// WithWatermark sets the preview watermark text. Empty disables it.
func WithWatermark(text string) Option { return func(p *Planner) { p.watermark = text } }

// WithFonts sets the font resolver used for the watermark.
func WithFonts(r *fonts.Resolver) Option { return func(p *Planner) { p.fonts = r } }

// WithPrintStyle overrides the print layout.
func WithPrintStyle(s PrintStyle) Option { return func(p *Planner) { p.style = s } }

// WithMockups toggles mockup rendering.
func WithMockups(enabled bool) Option { return func(p *Planner) { p.mockups = enabled } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// Planner writes every derivative of an artwork into one directory.
// A Planner is immutable after construction and safe for concurrent use
// as long as concurrent calls use distinct indices.
type Planner struct {
	dir       string
	dpi       int
	sizes     []PhysicalSize
	watermark string
	fonts     *fonts.Resolver
	style     PrintStyle
	mockups   bool
	logger    *log.Logger
}

// NewPlanner validates the configuration and returns a planner rooted at dir.
func NewPlanner(dir string, opts ...Option) (*Planner, error) {
	p := &Planner{
		dir:     dir,
		dpi:     DefaultDPI,
		sizes:   DefaultSizes,
		style:   DefaultPrintStyle,
		mockups: true,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fonts == nil {
		p.fonts = fonts.NewResolver()
	}
	if err := errors.ValidateOutputDir(dir); err != nil {
		return nil, err
	}
	if p.dpi <= 0 {
		return nil, errors.New(errors.ErrCodeExportSize, "dpi must be positive, got %d", p.dpi)
	}
	for _, s := range p.sizes {
		if err := errors.ValidateSizeName(s.Name); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Dir returns the output directory.
func (p *Planner) Dir() string { return p.dir }

// DPI returns the print resolution.
func (p *Planner) DPI() int { return p.dpi }

// Export renders and writes all derivatives of c for artwork idx. It returns
// an error only when c itself is unusable or ctx is cancelled; per-file
// failures are recorded in the manifest.
func (p *Planner) Export(ctx context.Context, idx int, c *canvas.Canvas) (*Manifest, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	m := &Manifest{Index: idx}

	web, err := RenderWeb(c, p.watermark, p.fonts)
	if err != nil {
		return nil, err
	}
	for _, d := range []struct {
		kind    Kind
		path    string
		img     *canvas.Canvas
		quality int
	}{
		{KindWebMaster, MasterPath(idx), web.Master, MasterQuality},
		{KindPreview, PreviewPath(idx), web.Preview, PreviewQuality},
		{KindThumb, ThumbPath(idx), web.Thumb, ThumbQuality},
	} {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		p.write(ctx, m, Entry{Path: d.path, Kind: d.kind}, func() (*canvas.Canvas, error) {
			return d.img, nil
		}, jpegEncoder(d.quality))
	}

	for _, size := range p.sizes {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		e := Entry{
			Path: PrintPath(size.Name, idx, p.dpi), Kind: KindPrint,
			DPI: p.dpi, WidthIn: size.WidthIn, HeightIn: size.HeightIn,
		}
		p.write(ctx, m, e, func() (*canvas.Canvas, error) {
			return RenderPrint(c, size, p.dpi, p.style)
		}, encodePNG)
	}

	if p.mockups {
		for _, framed := range []bool{false, true} {
			if err := ctx.Err(); err != nil {
				return m, err
			}
			p.write(ctx, m, Entry{Path: MockupPath(idx, framed), Kind: KindMockup}, func() (*canvas.Canvas, error) {
				return RenderMockup(web.Master, framed)
			}, jpegEncoder(MockupQuality))
		}
	}

	if len(m.Failures) > 0 {
		p.logger.Warn("export finished with failures", "index", idx, "failed", len(m.Failures), "written", len(m.Entries))
	}
	return m, nil
}

type encoder func(*canvas.Canvas) ([]byte, error)

func jpegEncoder(quality int) encoder {
	return func(c *canvas.Canvas) ([]byte, error) {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, c.Image(), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

func encodePNG(c *canvas.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, c.Image(), imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// write renders, encodes and stores one derivative, recording the outcome in m.
func (p *Planner) write(ctx context.Context, m *Manifest, e Entry, render func() (*canvas.Canvas, error), enc encoder) {
	start := time.Now()
	err := func() error {
		if err := errors.ValidateRelPath(e.Path); err != nil {
			return err
		}
		img, err := render()
		if err != nil {
			return err
		}
		data, err := enc(img)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", e.Path)
		}
		full := filepath.Join(p.dir, filepath.FromSlash(e.Path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(full))
		}
		if err := os.WriteFile(full, data, 0644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", full)
		}
		e.WidthPx, e.HeightPx, e.Bytes = img.Width(), img.Height(), len(data)
		return nil
	}()
	observability.Pipeline().OnExport(ctx, string(e.Kind), e.Path, e.Bytes, time.Since(start), err)

	if err != nil {
		p.logger.Error("skipped derivative", "path", e.Path, "kind", e.Kind, "err", err)
		m.Failures = append(m.Failures, Failure{Path: e.Path, Kind: e.Kind, Err: err})
		return
	}
	p.logger.Debug("exported", "path", e.Path, "px", fmt.Sprintf("%dx%d", e.WidthPx, e.HeightPx), "bytes", e.Bytes)
	m.Entries = append(m.Entries, e)
}
