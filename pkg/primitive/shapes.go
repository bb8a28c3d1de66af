package primitive

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
)

// Fill is a palette color with a straight alpha.
type Fill struct {
	Color colors.RGB
	Alpha uint8
}

// DrawCircle fills a disk. A radius of zero or less draws nothing.
func DrawCircle(l *Layer, center Point, radius float64, f Fill) {
	if radius <= 0 || math.IsNaN(radius) {
		return
	}
	l.dc.DrawCircle(center.X, center.Y, radius)
	l.fill(f.Color, f.Alpha)
}

// DrawRing draws concentric disks in the order given. Callers pass radii from
// largest to smallest so inner disks stay visible; the order is never changed
// here.
func DrawRing(l *Layer, center Point, radii []float64, fills []Fill) error {
	if len(radii) != len(fills) {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"ring has %d radii but %d fills", len(radii), len(fills))
	}
	for i, r := range radii {
		DrawCircle(l, center, r, fills[i])
	}
	return nil
}

// DrawArch fills the upper half of the annulus between inner and outer.
func DrawArch(l *Layer, center Point, outer, inner float64, f Fill) error {
	if inner < 0 || inner >= outer {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"arch needs 0 <= inner < outer, got inner=%.2f outer=%.2f", inner, outer)
	}
	l.dc.NewSubPath()
	l.dc.DrawArc(center.X, center.Y, outer, math.Pi, 2*math.Pi)
	if inner > 0 {
		l.dc.DrawArc(center.X, center.Y, inner, 2*math.Pi, math.Pi)
	} else {
		l.dc.LineTo(center.X, center.Y)
	}
	l.dc.ClosePath()
	l.fill(f.Color, f.Alpha)
	return nil
}

// DrawTriangle fills the triangle a, b, c.
func DrawTriangle(l *Layer, a, b, c Point, f Fill) {
	DrawPolygon(l, []Point{a, b, c}, f)
}

// DrawRect fills the axis-aligned rectangle spanning lo to hi. Inverted
// corners are normalized; an empty rectangle draws nothing.
func DrawRect(l *Layer, lo, hi Point, f Fill) {
	x0, x1 := min(lo.X, hi.X), max(lo.X, hi.X)
	y0, y1 := min(lo.Y, hi.Y), max(lo.Y, hi.Y)
	if x1-x0 <= 0 || y1-y0 <= 0 {
		return
	}
	l.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	l.fill(f.Color, f.Alpha)
}

// DrawPolygon fills a closed polygon. Fewer than three points draw nothing.
func DrawPolygon(l *Layer, pts []Point, f Fill) {
	if len(pts) < 3 {
		return
	}
	l.dc.NewSubPath()
	l.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		l.dc.LineTo(p.X, p.Y)
	}
	l.dc.ClosePath()
	l.fill(f.Color, f.Alpha)
}

// WaveStep is the horizontal sampling interval of DrawWaveFill in pixels.
const WaveStep = 8

// WaveJitter is the maximum per-sample perturbation as a fraction of the
// wave amplitude.
const WaveJitter = 0.08

// DrawWaveFill fills the region under a jittered sine wave down to the bottom
// of the layer. The wave spans [0, width] with the given number of periods.
// Each sample consumes one value from rng, so the same rng state always
// yields the same outline.
func DrawWaveFill(l *Layer, width, yMid, amplitude, periods float64, f Fill, rng *rand.Rand) {
	WaveOutline(l, width, yMid, amplitude, periods, rng)
	l.fill(f.Color, f.Alpha)
}

// WaveOutline builds the wave path on the layer without filling it.
func WaveOutline(l *Layer, width, yMid, amplitude, periods float64, rng *rand.Rand) {
	bottom := float64(l.dc.Height())
	pts := WavePoints(width, yMid, amplitude, periods, rng)
	l.dc.NewSubPath()
	l.dc.MoveTo(0, bottom)
	for _, p := range pts {
		l.dc.LineTo(p.X, p.Y)
	}
	l.dc.LineTo(width, bottom)
	l.dc.ClosePath()
}

// WavePoints samples the jittered sine every WaveStep pixels from 0 to width
// inclusive.
func WavePoints(width, yMid, amplitude, periods float64, rng *rand.Rand) []Point {
	if width <= 0 {
		return nil
	}
	jitter := amplitude * WaveJitter
	pts := make([]Point, 0, int(width)/WaveStep+2)
	for x := 0.0; x <= width; x += WaveStep {
		t := x / width
		y := yMid + amplitude*math.Sin(2*math.Pi*periods*t)
		y += (rng.Float64()*2 - 1) * jitter
		pts = append(pts, Point{x, y})
	}
	return pts
}
