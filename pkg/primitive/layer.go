// Package primitive rasterizes the filled shapes scenes are built from.
//
// Shapes are drawn with straight per-shape alpha onto a transparent [Layer].
// A finished layer is composited onto a canvas in one alpha-over pass, so
// overlapping translucent shapes blend with each other before they blend
// with the background.
package primitive

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
)

// Point is a position in pixel space. Y grows downward.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{x, y} }

// Layer is a transparent drawing surface the size of a canvas.
type Layer struct {
	dc *gg.Context
}

// NewLayer allocates a fully transparent layer.
func NewLayer(size canvas.Size) *Layer {
	return &Layer{dc: gg.NewContext(size.W, size.H)}
}

// Size returns the layer dimensions.
func (l *Layer) Size() canvas.Size {
	return canvas.Size{W: l.dc.Width(), H: l.dc.Height()}
}

// Image returns the layer as straight-alpha NRGBA.
func (l *Layer) Image() *image.NRGBA {
	return imaging.Clone(l.dc.Image())
}

// Empty reports whether no pixel has been touched.
func (l *Layer) Empty() bool {
	img, ok := l.dc.Image().(*image.RGBA)
	if !ok {
		return false
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// CompositeOnto alpha-blends the layer over c and returns a new canvas.
func (l *Layer) CompositeOnto(c *canvas.Canvas) (*canvas.Canvas, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := imaging.Overlay(c.Image(), l.dc.Image(), image.Point{}, 1.0)
	return canvas.Wrap(out), nil
}

func (l *Layer) fill(c colors.RGB, alpha uint8) {
	l.dc.SetColor(c.NRGBA(alpha))
	l.dc.Fill()
}
