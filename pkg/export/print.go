package export

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/texture"
)

// PrintStyle controls how artwork sits on the print sheet.
type PrintStyle struct {
	// Inset is the fraction of each sheet axis the artwork is resampled to.
	Inset float64
	// Border is the mat width as a fraction of the inset's short side.
	Border      float64
	Paper       colors.RGB
	BorderColor colors.RGB
	Sharpen     texture.Unsharp
}

// DefaultPrintStyle matches the print masters of the shop catalog.
var DefaultPrintStyle = PrintStyle{
	Inset:       0.84,
	Border:      0.03,
	Paper:       colors.RGB{R: 252, G: 252, B: 250},
	BorderColor: colors.RGB{R: 248, G: 248, B: 246},
	Sharpen:     texture.Unsharp{Radius: 1.0, Percent: 70, Threshold: 3},
}

// RenderPrint lays c out on a sheet of the given physical size at dpi.
//
// The artwork is resampled to Inset of each axis independently, so a 4:5
// canvas is stretched slightly on a 2:3 sheet rather than cropped. The
// inset gains a border, is centered on paper and the sheet is sharpened.
func RenderPrint(c *canvas.Canvas, size PhysicalSize, dpi int, style PrintStyle) (*canvas.Canvas, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pw, ph, err := size.Pixels(dpi)
	if err != nil {
		return nil, err
	}
	iw, ih := int(float64(pw)*style.Inset), int(float64(ph)*style.Inset)
	if iw <= 0 || ih <= 0 {
		return nil, errors.New(errors.ErrCodeExportSize, "%s at %d dpi leaves no room for artwork", size.Name, dpi)
	}

	fitted := imaging.Resize(c.Image(), iw, ih, imaging.Lanczos)
	matted := expand(fitted, int(float64(min(iw, ih))*style.Border), style.BorderColor)

	sheet := imaging.New(pw, ph, style.Paper.NRGBA(255))
	mb := matted.Bounds()
	sheet = imaging.Paste(sheet, matted, image.Pt((pw-mb.Dx())/2, (ph-mb.Dy())/2))

	s := style.Sharpen
	return texture.UnsharpMask(canvas.Wrap(sheet), s.Radius, s.Percent, s.Threshold)
}

// expand surrounds img with a solid border of the given width.
func expand(img image.Image, border int, c colors.RGB) *image.NRGBA {
	b := img.Bounds()
	if border <= 0 {
		return imaging.Clone(img)
	}
	out := imaging.New(b.Dx()+2*border, b.Dy()+2*border, c.NRGBA(255))
	return imaging.Paste(out, img, image.Pt(border, border))
}
