package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/zenposter/pkg/errors"
)

// ModeID identifies a design mode.
type ModeID int

// Design modes. The numeric values are stable and appear in CLI flags,
// preview URLs and batch rotation.
const (
	MinimalistBoho ModeID = iota + 1
	SacredGeometry
	CalmFlowAbstract
	ModernHarmony
)

// AllModes lists every mode in rotation order.
var AllModes = []ModeID{MinimalistBoho, SacredGeometry, CalmFlowAbstract, ModernHarmony}

// Valid reports whether id names a known mode.
func (id ModeID) Valid() bool {
	return id >= MinimalistBoho && id <= ModernHarmony
}

// String returns the mode slug.
func (id ModeID) String() string {
	switch id {
	case MinimalistBoho:
		return "boho"
	case SacredGeometry:
		return "sacred"
	case CalmFlowAbstract:
		return "flow"
	case ModernHarmony:
		return "harmony"
	}
	return fmt.Sprintf("mode(%d)", int(id))
}

// ParseModeID accepts a mode number ("1".."4") or slug.
func ParseModeID(s string) (ModeID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		id := ModeID(n)
		if !id.Valid() {
			return 0, errors.New(errors.ErrCodeInvalidMode, "mode %d out of range 1-%d", n, len(AllModes))
		}
		return id, nil
	}
	for _, id := range AllModes {
		if id.String() == s {
			return id, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", s)
}

// Rotate returns the mode for the i-th artwork of a batch (1-based),
// cycling through AllModes.
func Rotate(i int) ModeID {
	n := len(AllModes)
	k := (i - 1) % n
	if k < 0 {
		k += n
	}
	return AllModes[k]
}

// Mode binds a palette, background and drawing recipe under a name.
type Mode struct {
	ID         ModeID
	Name       string
	Palette    string
	Background string
	Recipe     []Placement
}

// Ground lines, as fractions of the canvas height.
const (
	bohoHorizon = 0.62
	flowHorizon = 0.64
)

func defaultModes() []Mode {
	return []Mode{
		{
			ID: MinimalistBoho, Name: "Minimalist Zen Boho",
			Palette: "boho_warm", Background: "#ffffff",
			Recipe: []Placement{
				Circle{X: 0.5, Y: 0.42, R: 0.18, Ink: Ink{4, 220}},
				Rect{X0: 0.12, Y0: bohoHorizon, X1: 0.88, Y1: 0.68, Ink: Ink{5, 190}},
				Circle{X: 0.32, Y: 0.30, R: 0.18 * 0.42, Ink: Ink{3, 200}},
			},
		},
		{
			ID: SacredGeometry, Name: "Sacred Geometry Zen",
			Palette: "sacred_muted", Background: "#f7f7f6",
			Recipe: []Placement{
				sacredRing(0.5, 0.46),
				Arch{X: 0.5, Y: 0.46, Outer: 0.38, Inner: 0.28, Ink: Ink{5, 140}},
				Triangle{A: [2]float64{0.36, 0.64}, B: [2]float64{0.64, 0.64}, C: [2]float64{0.5, 0.48}, Ink: Ink{4, 150}},
			},
		},
		{
			ID: CalmFlowAbstract, Name: "Calm Flow Abstract",
			Palette: "calm_flow", Background: "#f6f6f6",
			Recipe: append(flowWaves(flowHorizon), Circle{X: 0.68, Y: 0.34, R: 0.12, Ink: Ink{4, 210}}),
		},
		{
			ID: ModernHarmony, Name: "Modern Harmony",
			Palette: "modern_harmony", Background: "#ffffff",
			Recipe: []Placement{
				Rect{X0: 0.19, Y0: 0.44, X1: 0.81, Y1: 0.48, Ink: Ink{5, 200}},
				Arch{X: 0.5, Y: 0.46, Outer: 0.28, Inner: 0.28 * 0.78, Ink: Ink{4, 180}},
				Circle{X: 0.35, Y: 0.33, R: 0.10, Ink: Ink{3, 210}},
				Rect{X0: 0.58, Y0: 0.60, X1: 0.80, Y1: 0.72, Ink: Ink{2, 180}},
			},
		},
	}
}

// sacredRing is five disks shrinking by 12% of the base radius each step,
// cycling through palette entries 2-4 with falling opacity.
func sacredRing(x, y float64) Ring {
	const n = 5
	ring := Ring{X: x, Y: y, Radii: make([]float64, n), Inks: make([]Ink, n)}
	for i := range n {
		ring.Radii[i] = 0.22 * (1 - float64(i)*0.12)
		ring.Inks[i] = Ink{Index: 2 + i%3, Alpha: uint8(210 - i*20)}
	}
	return ring
}

// flowWaves stacks five waves above the horizon, each a little taller,
// faster and more opaque than the one before.
func flowWaves(horizon float64) []Placement {
	const n = 5
	out := make([]Placement, 0, n+1)
	for i := range n {
		fi := float64(i)
		out = append(out, Wave{
			YMid:      horizon - fi*0.03,
			Amplitude: 0.035 * (1 + fi*0.15),
			Periods:   1.5 + fi*0.35,
			Ink:       Ink{Index: 2 + i, Alpha: uint8(120 + i*20)},
		})
	}
	return out
}
