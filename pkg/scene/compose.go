// Package scene turns a design mode into a composed canvas.
//
// A mode is data: a background color, a palette name and an ordered recipe of
// [Placement] values in canvas-fractional coordinates. [Compose] fills the
// background, replays the recipe onto one transparent layer and composites
// that layer once. Placement order is part of the mode: later shapes cover
// earlier ones.
//
// Randomness is drawn only from the rng passed in. The same size, mode,
// palette and rng seed produce identical pixels.
package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/primitive"
)

// Compose renders mode m with palette p onto a new canvas of the given size.
// Geometry errors abort the artwork.
func Compose(size canvas.Size, m Mode, p colors.Palette, rng *rand.Rand) (*canvas.Canvas, error) {
	bg, err := colors.HexToRGB(m.Background)
	if err != nil {
		return nil, err
	}
	base, err := canvas.New(size, bg)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New(errors.ErrCodeInternal, "compose %s: nil rng", m.ID)
	}

	layer := primitive.NewLayer(size)
	g := GeometryOf(size)
	for i, pl := range m.Recipe {
		if err := pl.Place(layer, g, p, rng); err != nil {
			return nil, fmt.Errorf("%s step %d: %w", m.ID, i, err)
		}
	}
	return layer.CompositeOnto(base)
}
