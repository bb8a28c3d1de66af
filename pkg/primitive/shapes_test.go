package primitive

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
)

var red = Fill{Color: colors.RGB{R: 200, G: 30, B: 30}, Alpha: 255}

func alphaAt(l *Layer, x, y int) uint8 {
	return l.Image().NRGBAAt(x, y).A
}

func TestDrawCircleZeroRadius(t *testing.T) {
	for _, r := range []float64{0, -5} {
		l := NewLayer(canvas.Size{W: 64, H: 64})
		DrawCircle(l, Pt(32, 32), r, red)
		if !l.Empty() {
			t.Errorf("DrawCircle(radius=%v) modified the layer", r)
		}
	}
}

func TestDrawCircle(t *testing.T) {
	l := NewLayer(canvas.Size{W: 64, H: 64})
	DrawCircle(l, Pt(32, 32), 10, red)
	if alphaAt(l, 32, 32) != 255 {
		t.Error("center of circle should be opaque")
	}
	if alphaAt(l, 2, 2) != 0 {
		t.Error("corner should stay transparent")
	}
}

func TestDrawRingMismatch(t *testing.T) {
	l := NewLayer(canvas.Size{W: 32, H: 32})
	err := DrawRing(l, Pt(16, 16), []float64{10, 8}, []Fill{red})
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("DrawRing() error = %v, want INVALID_GEOMETRY", err)
	}
	if !l.Empty() {
		t.Error("failed DrawRing should not draw")
	}
}

func TestDrawRingOrder(t *testing.T) {
	blue := Fill{Color: colors.RGB{B: 200}, Alpha: 255}
	l := NewLayer(canvas.Size{W: 64, H: 64})
	if err := DrawRing(l, Pt(32, 32), []float64{20, 6}, []Fill{red, blue}); err != nil {
		t.Fatalf("DrawRing() error = %v", err)
	}
	img := l.Image()
	if c := img.NRGBAAt(32, 32); c.B != 200 || c.R != 0 {
		t.Errorf("center = %+v, want inner disk color on top", c)
	}
	if c := img.NRGBAAt(32, 18); c.R != 200 {
		t.Errorf("outer band = %+v, want outer disk color", c)
	}
}

func TestDrawArch(t *testing.T) {
	tests := []struct {
		name         string
		outer, inner float64
		wantErr      bool
	}{
		{"valid", 20, 10, false},
		{"half disc", 20, 0, false},
		{"inner equals outer", 20, 20, true},
		{"inner larger", 10, 20, true},
		{"negative inner", 20, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayer(canvas.Size{W: 64, H: 64})
			err := DrawArch(l, Pt(32, 40), tt.outer, tt.inner, red)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DrawArch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidGeometry) {
				t.Errorf("DrawArch() code = %v", errors.GetCode(err))
			}
		})
	}
}

func TestDrawArchIsBand(t *testing.T) {
	l := NewLayer(canvas.Size{W: 100, H: 100})
	if err := DrawArch(l, Pt(50, 60), 40, 20, red); err != nil {
		t.Fatal(err)
	}
	if alphaAt(l, 50, 30) != 255 {
		t.Error("band above center should be filled")
	}
	if alphaAt(l, 50, 50) != 0 {
		t.Error("inside inner radius should be empty")
	}
	if alphaAt(l, 50, 80) != 0 {
		t.Error("below center should be empty")
	}
}

func TestDrawRect(t *testing.T) {
	l := NewLayer(canvas.Size{W: 20, H: 20})
	DrawRect(l, Pt(15, 15), Pt(5, 5), red)
	if alphaAt(l, 10, 10) != 255 {
		t.Error("inverted rect corners should be normalized")
	}
	l2 := NewLayer(canvas.Size{W: 20, H: 20})
	DrawRect(l2, Pt(5, 5), Pt(5, 15), red)
	if !l2.Empty() {
		t.Error("zero-width rect should draw nothing")
	}
}

func TestWaveDeterministic(t *testing.T) {
	render := func() []byte {
		l := NewLayer(canvas.Size{W: 200, H: 100})
		rng := rand.New(rand.NewPCG(7, 7^0x9e3779b97f4a7c15))
		DrawWaveFill(l, 200, 50, 10, 1.5, red, rng)
		return l.Image().Pix
	}
	if !bytes.Equal(render(), render()) {
		t.Error("same rng seed produced different waves")
	}
}

func TestWavePoints(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	pts := WavePoints(800, 100, 20, 2, rng)
	if len(pts) != 101 {
		t.Errorf("len(pts) = %d, want 101 samples every %dpx", len(pts), WaveStep)
	}
	for _, p := range pts {
		if p.Y < 100-20*(1+WaveJitter) || p.Y > 100+20*(1+WaveJitter) {
			t.Errorf("sample %+v outside amplitude+jitter envelope", p)
		}
	}
	if WavePoints(0, 10, 1, 1, rng) != nil {
		t.Error("zero width should yield no samples")
	}
}

func TestCompositeOnto(t *testing.T) {
	c, _ := canvas.New(canvas.Size{W: 10, H: 10}, colors.White)
	l := NewLayer(c.Size())
	DrawRect(l, Pt(0, 0), Pt(5, 10), Fill{Color: colors.Black, Alpha: 255})
	out, err := l.CompositeOnto(c)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(2, 5) != colors.Black || out.At(8, 5) != colors.White {
		t.Errorf("composite: left=%v right=%v", out.At(2, 5), out.At(8, 5))
	}
	if c.At(2, 5) != colors.White {
		t.Error("CompositeOnto mutated its input")
	}
}
