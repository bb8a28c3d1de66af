// Package canvas holds the working raster that flows between pipeline stages.
//
// A Canvas is always fully opaque. Stages take a canvas and return a new one;
// nothing in this module mutates a canvas it did not allocate.
package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
)

// Default working resolution. 4:5, large enough that every export is a
// downscale except high-DPI prints.
const (
	DefaultWidth  = 3200
	DefaultHeight = 4000
)

// Size is a pixel size.
type Size struct {
	W, H int
}

// DefaultSize is the working canvas used unless configured otherwise.
var DefaultSize = Size{DefaultWidth, DefaultHeight}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// Min returns the shorter side.
func (s Size) Min() int { return min(s.W, s.H) }

// Validate returns INVALID_CANVAS for zero or negative area.
func (s Size) Validate() error {
	if !s.Valid() {
		return errors.New(errors.ErrCodeInvalidCanvas, "canvas size %dx%d has zero area", s.W, s.H)
	}
	return nil
}

// Canvas is an opaque NRGBA raster.
type Canvas struct {
	img *image.NRGBA
}

// New allocates a canvas filled with bg.
func New(size Size, bg colors.RGB) (*Canvas, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	return &Canvas{img: imaging.New(size.W, size.H, bg.NRGBA(255))}, nil
}

// FromImage copies img into a new opaque canvas, flattening any transparency
// over white.
func FromImage(img image.Image) (*Canvas, error) {
	b := img.Bounds()
	if err := (Size{b.Dx(), b.Dy()}).Validate(); err != nil {
		return nil, err
	}
	dst := imaging.New(b.Dx(), b.Dy(), color.White)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return &Canvas{img: dst}, nil
}

// Validate reports INVALID_CANVAS for a nil or empty canvas.
func (c *Canvas) Validate() error {
	if c == nil || c.img == nil {
		return errors.New(errors.ErrCodeInvalidCanvas, "nil canvas")
	}
	return c.Size().Validate()
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() Size {
	b := c.img.Bounds()
	return Size{b.Dx(), b.Dy()}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Bounds().Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.img.Bounds().Dy() }

// Image exposes the backing raster for read-only use by encoders and
// resamplers. Callers must not write to it.
func (c *Canvas) Image() *image.NRGBA { return c.img }

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	return &Canvas{img: imaging.Clone(c.img)}
}

// At returns the color at (x, y).
func (c *Canvas) At(x, y int) colors.RGB {
	i := c.img.PixOffset(x, y)
	p := c.img.Pix[i : i+3 : i+3]
	return colors.RGB{R: p[0], G: p[1], B: p[2]}
}

// RGBA returns a premultiplied copy for rasterizers that draw on *image.RGBA.
// For an opaque canvas the pixel bytes are identical.
func (c *Canvas) RGBA() *image.RGBA {
	b := c.img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	copy(dst.Pix, c.img.Pix)
	return dst
}

// Equal reports whether both canvases have identical pixels.
func (c *Canvas) Equal(o *Canvas) bool {
	if c.Size() != o.Size() {
		return false
	}
	return bytes.Equal(c.img.Pix, o.img.Pix)
}

// Wrap adopts img as a canvas without copying. img must be opaque and must
// not be modified afterwards. Stages use it to hand back freshly built rasters.
func Wrap(img *image.NRGBA) *Canvas {
	if img.Bounds().Min != (image.Point{}) {
		img = imaging.Clone(img)
	}
	forceOpaque(img)
	return &Canvas{img: img}
}

func forceOpaque(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}
