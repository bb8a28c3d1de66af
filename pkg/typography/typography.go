// Package typography draws the title block onto a finished canvas.
package typography

import (
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/fonts"
)

// Default layout of the title block.
const (
	DefaultTop = 0.085
	DefaultPad = 0.06

	titleScale    = 0.045
	subtitleScale = 0.026
	lineGap       = 0.012
)

// Default text colors.
var (
	TitleColor    = colors.RGB{R: 24, G: 24, B: 24}
	SubtitleColor = colors.RGB{R: 70, G: 70, B: 70}
)

// Option configures Overlay.
type Option func(*overlay)

type overlay struct {
	fonts         *fonts.Resolver
	title, detail colors.RGB
}

// WithFonts sets the font resolver.
func WithFonts(r *fonts.Resolver) Option {
	return func(o *overlay) {
		if r != nil {
			o.fonts = r
		}
	}
}

// WithColors overrides the title and subtitle colors.
func WithColors(title, subtitle colors.RGB) Option {
	return func(o *overlay) { o.title, o.detail = title, subtitle }
}

var defaultFonts = fonts.NewResolver()

// Overlay draws title and subtitle left-aligned at padFrac of the width and
// topFrac of the height. Title size is 4.5% of the canvas height and
// subtitle size 2.6%; the subtitle sits 1.2% of the height below the title.
//
// When both strings are empty the input canvas itself is returned.
func Overlay(c *canvas.Canvas, title, subtitle string, topFrac, padFrac float64, opts ...Option) (*canvas.Canvas, error) {
	if title == "" && subtitle == "" {
		return c, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	o := overlay{fonts: defaultFonts, title: TitleColor, detail: SubtitleColor}
	for _, opt := range opts {
		opt(&o)
	}

	w, h := float64(c.Width()), float64(c.Height())
	top, pad := float64(int(h*topFrac)), float64(int(w*padFrac))

	dc := gg.NewContextForRGBA(c.RGBA())
	var titleH float64
	if title != "" {
		dc.SetFontFace(o.fonts.Face(float64(int(h * titleScale))))
		dc.SetColor(o.title)
		_, titleH = dc.MeasureString(title)
		dc.DrawStringAnchored(title, pad, top, 0, 1)
	}
	if subtitle != "" {
		dc.SetFontFace(o.fonts.Face(float64(int(h * subtitleScale))))
		dc.SetColor(o.detail)
		dc.DrawStringAnchored(subtitle, pad, top+titleH+float64(int(h*lineGap)), 0, 1)
	}
	return canvas.Wrap(imaging.Clone(dc.Image())), nil
}
