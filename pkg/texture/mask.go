package texture

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/matzehuels/zenposter/pkg/canvas"
)

// fullResSigma is the largest blur sigma applied at full resolution. Wider
// blurs downsample first; a Gaussian that wide removes the detail the
// downsample throws away.
const fullResSigma = 4.0

// SoftBlur blurs img with a Gaussian of the given sigma. Sigmas above
// fullResSigma run on a reduced copy and are scaled back up linearly.
func SoftBlur(img image.Image, sigma float64) *image.NRGBA {
	if sigma <= 0 {
		return imaging.Clone(img)
	}
	if sigma <= fullResSigma {
		return imaging.Blur(img, sigma)
	}
	b := img.Bounds()
	scale := max(1, int(sigma/fullResSigma))
	sw, sh := max(1, b.Dx()/scale), max(1, b.Dy()/scale)
	small := imaging.Resize(img, sw, sh, imaging.Linear)
	small = imaging.Blur(small, sigma/float64(scale))
	return imaging.Resize(small, b.Dx(), b.Dy(), imaging.Linear)
}

// NewMask returns a drawing context for an opaque grayscale mask filled
// with v. Masks stay opaque because blurs weight color by alpha.
func NewMask(size canvas.Size, v float64) *gg.Context {
	dc := gg.NewContext(size.W, size.H)
	dc.SetRGB(v, v, v)
	dc.Clear()
	return dc
}

// ToAlpha converts the red channel of img into an alpha mask.
func ToAlpha(img image.Image) *image.Alpha {
	n := imaging.Clone(img)
	b := n.Bounds()
	a := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	for i, j := 0, 0; i < len(n.Pix); i, j = i+4, j+1 {
		a.Pix[j] = n.Pix[i]
	}
	return a
}

// Composite returns fg where mask is opaque and bg where it is transparent,
// interpolating in between. fg and bg must share the mask's size.
func Composite(fg, bg image.Image, mask *image.Alpha) *canvas.Canvas {
	b := mask.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, bg, image.Point{}, draw.Src)
	draw.DrawMask(dst, b, fg, image.Point{}, mask, image.Point{}, draw.Over)
	return canvas.Wrap(imaging.Clone(dst))
}

// Blend mixes a toward b by t in [0,1].
func Blend(a, b image.Image, t float64) *canvas.Canvas {
	return canvas.Wrap(imaging.Overlay(a, b, image.Point{}, clamp01(t)))
}

func solid(size canvas.Size, c color.Color) *image.NRGBA {
	return imaging.New(size.W, size.H, c)
}

func clamp01(v float64) float64 {
	switch {
	case v != v || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
