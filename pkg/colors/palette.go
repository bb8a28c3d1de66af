package colors

import (
	"github.com/matzehuels/zenposter/pkg/errors"
)

// Palette is an ordered, immutable set of 6-7 colors. Index 0 is the lightest
// tone and later entries get progressively darker.
type Palette struct {
	name   string
	colors []RGB
}

const (
	minPaletteLen = 6
	maxPaletteLen = 7
)

// NewPalette parses hex strings into a palette. Any malformed entry fails the
// whole palette with INVALID_COLOR_FORMAT.
func NewPalette(name string, hexes ...string) (Palette, error) {
	if err := errors.ValidatePaletteName(name); err != nil {
		return Palette{}, err
	}
	if len(hexes) < minPaletteLen || len(hexes) > maxPaletteLen {
		return Palette{}, errors.New(errors.ErrCodeInvalidPalette,
			"palette %q has %d colors, want %d-%d", name, len(hexes), minPaletteLen, maxPaletteLen)
	}
	cs := make([]RGB, len(hexes))
	for i, h := range hexes {
		c, err := HexToRGB(h)
		if err != nil {
			return Palette{}, errors.Wrap(errors.ErrCodeInvalidColorFormat, err, "palette %q entry %d", name, i)
		}
		cs[i] = c
	}
	return Palette{name: name, colors: cs}, nil
}

// Name returns the palette name.
func (p Palette) Name() string { return p.name }

// Len returns the number of colors.
func (p Palette) Len() int { return len(p.colors) }

// At returns color i. Indices wrap modulo the palette length so recipes never
// need to know whether a palette has six or seven entries.
func (p Palette) At(i int) RGB {
	n := len(p.colors)
	if n == 0 {
		return Black
	}
	i %= n
	if i < 0 {
		i += n
	}
	return p.colors[i]
}

// Colors returns a copy of the palette entries.
func (p Palette) Colors() []RGB {
	return append([]RGB(nil), p.colors...)
}

// Hexes returns the palette as "#rrggbb" strings.
func (p Palette) Hexes() []string {
	out := make([]string, len(p.colors))
	for i, c := range p.colors {
		out[i] = c.Hex()
	}
	return out
}
