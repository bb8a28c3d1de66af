// Package colors parses and blends the colors that every other stage draws with.
//
// Colors are 8-bit sRGB triples. Alpha is never stored on a color; it is
// attached at draw time with [RGB.NRGBA] so one palette entry can be reused at
// different opacities.
package colors

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/zenposter/pkg/errors"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Common colors.
var (
	White = RGB{255, 255, 255}
	Black = RGB{0, 0, 0}
)

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// HexToRGB parses "#RRGGBB" or "RRGGBB". Anything else, including the
// three-digit shorthand, is rejected with INVALID_COLOR_FORMAT.
func HexToRGB(hex string) (RGB, error) {
	s := strings.TrimPrefix(hex, "#")
	if !hexPattern.MatchString(s) {
		return RGB{}, errors.New(errors.ErrCodeInvalidColorFormat, "invalid hex color %q", hex)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return RGB{}, errors.Wrap(errors.ErrCodeInvalidColorFormat, err, "invalid hex color %q", hex)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}

// MustHex is HexToRGB for compile-time constants. It panics on malformed input.
func MustHex(hex string) RGB {
	c, err := HexToRGB(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string { return c.Hex() }

// NRGBA attaches a straight alpha to the color.
func (c RGB) NRGBA(alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// RGBA implements color.Color as a fully opaque color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return c.NRGBA(255).RGBA()
}

// Colorful converts to a go-colorful value for perceptual math.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Luminance returns the relative luminance in [0,1].
func (c RGB) Luminance() float64 {
	_, _, l := c.Colorful().Hcl()
	return math.Max(0, math.Min(1, l))
}

// FromColor converts any color.Color, discarding alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{n.R, n.G, n.B}
}

// Lerp interpolates linearly between a and b. t is clamped to [0,1].
func Lerp(a, b, t float64) float64 {
	t = clamp01(t)
	return a + (b-a)*t
}

// BlendRGB interpolates channel-wise between c1 and c2 and rounds to the
// nearest integer. t is clamped to [0,1], so t=0 yields c1 and t=1 yields c2.
func BlendRGB(c1, c2 RGB, t float64) RGB {
	t = clamp01(t)
	switch t {
	case 0:
		return c1
	case 1:
		return c2
	}
	r, g, b := c1.Colorful().BlendRgb(c2.Colorful(), t).Clamped().RGB255()
	return RGB{r, g, b}
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
