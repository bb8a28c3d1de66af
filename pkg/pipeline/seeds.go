package pipeline

import (
	"math/rand/v2"

	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/scene"
	"github.com/matzehuels/zenposter/pkg/texture"
)

// Seed strides per artwork index. Distinct primes keep the scene and
// texture streams of neighboring artworks from lining up.
const (
	sceneStride   = 31
	textureStride = 7

	grainOffset  = 3
	deckleOffset = 9

	sceneSalt uint64 = 0x7363656e_655f7374
)

// Seeds are the per-artwork random streams derived from a base seed.
type Seeds struct {
	Scene   int64 `json:"scene"`
	Texture int64 `json:"texture"`
	Grain   int64 `json:"grain"`
	Deckle  int64 `json:"deckle"`
}

// DeriveSeeds returns the streams for artwork index of a batch seeded with base.
func DeriveSeeds(base int64, index int) Seeds {
	tex := base + int64(index)*textureStride
	return Seeds{
		Scene:   base + int64(index)*sceneStride,
		Texture: tex,
		Grain:   tex + grainOffset,
		Deckle:  tex + deckleOffset,
	}
}

// SceneRNG returns a fresh generator for the scene stream.
func (s Seeds) SceneRNG() *rand.Rand {
	v := uint64(s.Scene)
	return rand.New(rand.NewPCG(v, v^sceneSalt))
}

// Finish returns the texture stack for a mode. Boho and Harmony get a
// lighter grain and wash; Boho and Flow a lighter vignette.
func Finish(id scene.ModeID, s Seeds) texture.Stack {
	light := id == scene.MinimalistBoho || id == scene.ModernHarmony

	st := texture.Stack{
		GrainStrength: 0.08,
		GrainSeed:     s.Grain,
		WashColor:     colors.White,
		WashAlpha:     0.12,
		WashRadius:    16,
		Vignette:      0.12,
		DeckleAmount:  0.06,
		DeckleSeed:    s.Deckle,
		Paper:         colors.White,
		Sharpen:       texture.Unsharp{Radius: 1.0, Percent: 80, Threshold: 3},
	}
	if light {
		st.GrainStrength = 0.06
		st.WashAlpha = 0.10
	}
	if id == scene.MinimalistBoho || id == scene.CalmFlowAbstract {
		st.Vignette = 0.10
	}
	return st
}
