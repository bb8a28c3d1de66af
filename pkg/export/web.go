package export

import (
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/fonts"
)

// Web derivative widths. Heights are always 1.25 times the width.
const (
	MasterWidth  = 2048
	PreviewWidth = 1600
	ThumbWidth   = 1200

	webAspect = 1.25
)

// JPEG qualities per derivative.
const (
	MasterQuality  = 92
	PreviewQuality = 90
	ThumbQuality   = 88
	MockupQuality  = 90
)

// Watermark badge styling.
const (
	watermarkSize = 36
	watermarkPad  = 24
)

var (
	watermarkBox  = colors.White.NRGBA(160)
	watermarkText = colors.RGB{R: 30, G: 30, B: 30}
)

// WebSet holds the three web derivatives of one artwork.
type WebSet struct {
	Master  *canvas.Canvas
	Preview *canvas.Canvas
	Thumb   *canvas.Canvas
}

func webHeight(w int) int { return int(float64(w) * webAspect) }

// RenderWeb resamples c into the master, preview and thumbnail. The preview
// and thumbnail are derived from the master. A non-empty watermark is drawn
// as a badge in the bottom-right corner of the preview.
func RenderWeb(c *canvas.Canvas, watermark string, fr *fonts.Resolver) (WebSet, error) {
	if err := c.Validate(); err != nil {
		return WebSet{}, err
	}
	master := canvas.Wrap(imaging.Resize(c.Image(), MasterWidth, webHeight(MasterWidth), imaging.Lanczos))
	preview := canvas.Wrap(imaging.Resize(master.Image(), PreviewWidth, webHeight(PreviewWidth), imaging.Lanczos))
	if watermark != "" {
		preview = Watermark(preview, watermark, fr)
	}
	thumb := canvas.Wrap(imaging.Resize(master.Image(), ThumbWidth, webHeight(ThumbWidth), imaging.Lanczos))
	return WebSet{Master: master, Preview: preview, Thumb: thumb}, nil
}

// Watermark draws text on a translucent white box anchored to the
// bottom-right corner and returns a new canvas.
func Watermark(c *canvas.Canvas, text string, fr *fonts.Resolver) *canvas.Canvas {
	if text == "" {
		return c
	}
	if fr == nil {
		fr = fonts.NewResolver()
	}
	w, h := float64(c.Width()), float64(c.Height())
	dc := gg.NewContextForRGBA(c.RGBA())
	dc.SetFontFace(fr.Face(watermarkSize))
	tw, th := dc.MeasureString(text)

	dc.SetColor(watermarkBox)
	dc.DrawRectangle(w-tw-2*watermarkPad, h-th-2*watermarkPad, tw+2*watermarkPad, th+2*watermarkPad)
	dc.Fill()

	dc.SetColor(watermarkText)
	dc.DrawStringAnchored(text, w-tw-watermarkPad, h-th-watermarkPad, 0, 1)
	return canvas.Wrap(imaging.Clone(dc.Image()))
}
