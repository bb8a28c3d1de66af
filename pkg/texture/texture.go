// Package texture applies the finishing passes that make a flat composition
// read as a printed, slightly imperfect paper piece.
//
// Every pass takes a canvas and returns a new one. A strength or amount of
// zero returns an unchanged copy, so passes can be toggled individually.
// Negative inputs are clamped to zero and fractions above one to one.
//
// [Stack.Apply] runs the passes in their fixed order:
//
//  1. paper grain
//  2. watercolor wash
//  3. vignette
//  4. deckled edges
//  5. unsharp mask
package texture

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
)

// Stream salts keep grain and deckle streams independent even when seeds
// happen to collide.
const (
	grainSalt  uint64 = 0x67726169_6e5f7374
	deckleSalt uint64 = 0x6465636b_6c655f73
)

func newRNG(seed int64, salt uint64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^salt))
}

// Grain tone range used to colorize the noise field.
var (
	grainDark  = colors.RGB{R: 220, G: 220, B: 220}
	grainLight = colors.RGB{R: 255, G: 255, B: 255}
)

// PaperGrain blends a fine noise field into c. The noise is blurred
// slightly, stretched to full contrast and mapped onto light greys.
func PaperGrain(c *canvas.Canvas, strength float64, seed int64) (*canvas.Canvas, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	strength = clamp01(strength)
	if strength == 0 {
		return c.Clone(), nil
	}

	size := c.Size()
	rng := newRNG(seed, grainSalt)
	noise := image.NewGray(image.Rect(0, 0, size.W, size.H))
	for i := range noise.Pix {
		noise.Pix[i] = uint8(rng.Float64() * 255)
	}
	tex := imaging.Blur(noise, 1.2)

	lut := grainLUT(channelRange(tex))
	tex = imaging.AdjustFunc(tex, func(px color.NRGBA) color.NRGBA {
		return lut[px.R]
	})
	return Blend(c.Image(), tex, strength), nil
}

// grainLUT stretches [lo, hi] to full range and maps it onto the grain tones.
func grainLUT(lo, hi uint8) [256]color.NRGBA {
	var lut [256]color.NRGBA
	span := float64(hi) - float64(lo)
	for v := range 256 {
		t := 0.0
		if span > 0 {
			t = (float64(v) - float64(lo)) / span
		}
		lut[v] = colors.BlendRGB(grainDark, grainLight, t).NRGBA(255)
	}
	return lut
}

// WatercolorWash blends a softened plane of col into c at the given alpha.
func WatercolorWash(c *canvas.Canvas, col colors.RGB, alpha, radius float64) (*canvas.Canvas, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	alpha = clamp01(alpha)
	if alpha == 0 {
		return c.Clone(), nil
	}
	wash := SoftBlur(solid(c.Size(), col.NRGBA(255)), max(0, radius))
	return Blend(c.Image(), wash, alpha), nil
}

// Vignette darkens the border of c toward black. The inner area, inset by 6%
// of the short side, is untouched; the transition is a Gaussian falloff with
// sigma of 8% of the short side.
func Vignette(c *canvas.Canvas, strength float64) (*canvas.Canvas, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	strength = clamp01(strength)
	if strength == 0 {
		return c.Clone(), nil
	}

	size := c.Size()
	short := size.Min()
	pad := float64(int(float64(short) * 0.06))
	dc := NewMask(size, 0)
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(pad, pad, float64(size.W)-2*pad, float64(size.H)-2*pad)
	dc.Fill()
	mask := ToAlpha(SoftBlur(dc.Image(), float64(int(float64(short)*0.08))))

	dark := Blend(c.Image(), solid(size, color.Black), strength)
	return Composite(c.Image(), dark.Image(), mask), nil
}

// deckleSamples is the number of displacement samples per edge.
const deckleSamples = 50

// DeckledEdges erodes each edge of c along a jagged line and fills the
// eroded band with paper. Top and bottom displacements are drawn from
// [0, amount*height], left and right from [0, amount*width].
func DeckledEdges(c *canvas.Canvas, amount float64, seed int64, paper colors.RGB) (*canvas.Canvas, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	amount = clamp01(amount)
	if amount == 0 {
		return c.Clone(), nil
	}

	size := c.Size()
	w, h := float64(size.W), float64(size.H)
	rng := newRNG(seed, deckleSalt)
	dc := NewMask(size, 1)
	dc.SetRGB(0, 0, 0)

	// top, left, bottom, right
	for edge := range 4 {
		vertical := edge%2 == 0
		length, depth := w, int(h*amount)
		if !vertical {
			length, depth = h, int(w*amount)
		}
		dc.NewSubPath()
		var last float64
		for k := range deckleSamples {
			along := float64(int(float64(k) * length / deckleSamples))
			last = float64(rng.IntN(depth + 1))
			x, y := edgePoint(edge, along, last, w, h)
			if k == 0 {
				sx, sy := edgePoint(edge, 0, 0, w, h)
				dc.MoveTo(sx, sy)
			}
			dc.LineTo(x, y)
		}
		ex, ey := edgePoint(edge, length, last, w, h)
		dc.LineTo(ex, ey)
		fx, fy := edgePoint(edge, length, 0, w, h)
		dc.LineTo(fx, fy)
		dc.ClosePath()
		dc.Fill()
	}

	mask := ToAlpha(SoftBlur(dc.Image(), 10))
	return Composite(c.Image(), solid(size, paper.NRGBA(255)), mask), nil
}

// edgePoint maps a position along an edge and an inward displacement to
// pixel coordinates.
func edgePoint(edge int, along, inset, w, h float64) (float64, float64) {
	switch edge {
	case 0:
		return along, inset
	case 1:
		return inset, along
	case 2:
		return along, h - inset
	default:
		return w - inset, along
	}
}

// UnsharpMask sharpens c. For each channel the difference between the
// original and a Gaussian blur of the given radius is added back, scaled by
// percent/100, wherever the difference reaches threshold.
func UnsharpMask(c *canvas.Canvas, radius, percent float64, threshold int) (*canvas.Canvas, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if radius <= 0 || percent <= 0 {
		return c.Clone(), nil
	}
	threshold = max(0, threshold)

	src := c.Image()
	blurred := imaging.Blur(src, radius)
	out := imaging.Clone(src)
	amount := percent / 100
	for i := 0; i < len(out.Pix); i += 4 {
		for ch := range 3 {
			o := int(src.Pix[i+ch])
			diff := o - int(blurred.Pix[i+ch])
			if abs(diff) < threshold {
				continue
			}
			v := math.Round(float64(o) + float64(diff)*amount)
			out.Pix[i+ch] = uint8(max(0, min(255, v)))
		}
	}
	return canvas.Wrap(out), nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func channelRange(img *image.NRGBA) (lo, hi uint8) {
	lo, hi = 255, 0
	for i := 0; i < len(img.Pix); i += 4 {
		v := img.Pix[i]
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
