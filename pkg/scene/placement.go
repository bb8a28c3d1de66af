package scene

import (
	"math/rand/v2"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/primitive"
)

// Geometry converts canvas-fractional coordinates into pixels.
// X fractions scale by width, Y fractions by height, and radii by the
// shorter side so round shapes stay round on any aspect ratio.
type Geometry struct {
	W, H float64
}

// GeometryOf returns the geometry of a canvas size.
func GeometryOf(s canvas.Size) Geometry {
	return Geometry{W: float64(s.W), H: float64(s.H)}
}

func (g Geometry) x(f float64) float64 { return f * g.W }
func (g Geometry) y(f float64) float64 { return f * g.H }
func (g Geometry) r(f float64) float64 { return f * min(g.W, g.H) }

func (g Geometry) pt(x, y float64) primitive.Point {
	return primitive.Pt(g.x(x), g.y(y))
}

// Ink selects a palette entry and an opacity.
type Ink struct {
	Index int
	Alpha uint8
}

func (k Ink) fill(p colors.Palette) primitive.Fill {
	return primitive.Fill{Color: p.At(k.Index), Alpha: k.Alpha}
}

// Placement is one recipe step. Implementations are plain data.
type Placement interface {
	Place(l *primitive.Layer, g Geometry, p colors.Palette, rng *rand.Rand) error
}

// Circle is a filled disk centered at (X, Y) with radius R.
type Circle struct {
	X, Y, R float64
	Ink     Ink
}

func (s Circle) Place(l *primitive.Layer, g Geometry, p colors.Palette, _ *rand.Rand) error {
	primitive.DrawCircle(l, g.pt(s.X, s.Y), g.r(s.R), s.Ink.fill(p))
	return nil
}

// Ring is a set of concentric disks drawn largest first.
type Ring struct {
	X, Y  float64
	Radii []float64
	Inks  []Ink
}

func (s Ring) Place(l *primitive.Layer, g Geometry, p colors.Palette, _ *rand.Rand) error {
	radii := make([]float64, len(s.Radii))
	for i, r := range s.Radii {
		radii[i] = g.r(r)
	}
	fills := make([]primitive.Fill, len(s.Inks))
	for i, k := range s.Inks {
		fills[i] = k.fill(p)
	}
	return primitive.DrawRing(l, g.pt(s.X, s.Y), radii, fills)
}

// Arch is the upper half of an annulus.
type Arch struct {
	X, Y         float64
	Outer, Inner float64
	Ink          Ink
}

func (s Arch) Place(l *primitive.Layer, g Geometry, p colors.Palette, _ *rand.Rand) error {
	return primitive.DrawArch(l, g.pt(s.X, s.Y), g.r(s.Outer), g.r(s.Inner), s.Ink.fill(p))
}

// Triangle is a filled triangle with fractional vertices.
type Triangle struct {
	A, B, C [2]float64
	Ink     Ink
}

func (s Triangle) Place(l *primitive.Layer, g Geometry, p colors.Palette, _ *rand.Rand) error {
	primitive.DrawTriangle(l, g.pt(s.A[0], s.A[1]), g.pt(s.B[0], s.B[1]), g.pt(s.C[0], s.C[1]), s.Ink.fill(p))
	return nil
}

// Rect is an axis-aligned filled rectangle.
type Rect struct {
	X0, Y0, X1, Y1 float64
	Ink            Ink
}

func (s Rect) Place(l *primitive.Layer, g Geometry, p colors.Palette, _ *rand.Rand) error {
	primitive.DrawRect(l, g.pt(s.X0, s.Y0), g.pt(s.X1, s.Y1), s.Ink.fill(p))
	return nil
}

// Wave is a jittered sine band filled down to the bottom edge. YMid and
// Amplitude are fractions of height.
type Wave struct {
	YMid, Amplitude float64
	Periods         float64
	Ink             Ink
}

func (s Wave) Place(l *primitive.Layer, g Geometry, p colors.Palette, rng *rand.Rand) error {
	primitive.DrawWaveFill(l, g.W, g.y(s.YMid), g.y(s.Amplitude), s.Periods, s.Ink.fill(p), rng)
	return nil
}
