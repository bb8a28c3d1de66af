package texture

import (
	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
)

// Unsharp holds unsharp-mask parameters.
type Unsharp struct {
	Radius    float64
	Percent   float64
	Threshold int
}

// Stack is a full finishing configuration. The zero value is a no-op.
type Stack struct {
	GrainStrength float64
	GrainSeed     int64

	WashColor  colors.RGB
	WashAlpha  float64
	WashRadius float64

	Vignette float64

	DeckleAmount float64
	DeckleSeed   int64
	Paper        colors.RGB

	Sharpen Unsharp
}

// Stage names reported to an Observer.
const (
	StageGrain    = "grain"
	StageWash     = "wash"
	StageVignette = "vignette"
	StageDeckle   = "deckle"
	StageSharpen  = "sharpen"
)

// Observer is notified after each stage completes.
type Observer func(stage string)

// Apply runs every pass in order and returns the finished canvas. The input
// is never modified.
func (s Stack) Apply(c *canvas.Canvas, observe ...Observer) (*canvas.Canvas, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	stages := []struct {
		name string
		run  func(*canvas.Canvas) (*canvas.Canvas, error)
	}{
		{StageGrain, func(c *canvas.Canvas) (*canvas.Canvas, error) {
			return PaperGrain(c, s.GrainStrength, s.GrainSeed)
		}},
		{StageWash, func(c *canvas.Canvas) (*canvas.Canvas, error) {
			return WatercolorWash(c, s.WashColor, s.WashAlpha, s.WashRadius)
		}},
		{StageVignette, func(c *canvas.Canvas) (*canvas.Canvas, error) {
			return Vignette(c, s.Vignette)
		}},
		{StageDeckle, func(c *canvas.Canvas) (*canvas.Canvas, error) {
			return DeckledEdges(c, s.DeckleAmount, s.DeckleSeed, s.Paper)
		}},
		{StageSharpen, func(c *canvas.Canvas) (*canvas.Canvas, error) {
			return UnsharpMask(c, s.Sharpen.Radius, s.Sharpen.Percent, s.Sharpen.Threshold)
		}},
	}

	cur := c
	for _, st := range stages {
		next, err := st.run(cur)
		if err != nil {
			return nil, err
		}
		cur = next
		for _, o := range observe {
			o(st.name)
		}
	}
	return cur, nil
}
