package scene

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/primitive"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

var testSize = canvas.Size{W: 320, H: 400}

func TestComposeDeterministic(t *testing.T) {
	reg := DefaultRegistry()
	for _, id := range AllModes {
		t.Run(id.String(), func(t *testing.T) {
			m, p, err := reg.Resolve(id, "")
			if err != nil {
				t.Fatal(err)
			}
			a, err := Compose(testSize, m, p, newRNG(4242))
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}
			b, err := Compose(testSize, m, p, newRNG(4242))
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}
			if !a.Equal(b) {
				t.Error("same inputs produced different pixels")
			}
		})
	}
}

func TestComposeFlowDependsOnSeed(t *testing.T) {
	reg := DefaultRegistry()
	m, p, _ := reg.Resolve(CalmFlowAbstract, "")
	a, _ := Compose(testSize, m, p, newRNG(1))
	b, _ := Compose(testSize, m, p, newRNG(2))
	if a.Equal(b) {
		t.Error("wave jitter should vary with the seed")
	}
}

func TestComposeBackgroundCorners(t *testing.T) {
	reg := DefaultRegistry()
	for _, id := range []ModeID{MinimalistBoho, SacredGeometry, ModernHarmony} {
		m, p, _ := reg.Resolve(id, "")
		c, err := Compose(testSize, m, p, newRNG(9))
		if err != nil {
			t.Fatal(err)
		}
		if got, want := c.At(0, 0), reg.Background(id); got != want {
			t.Errorf("%s: corner = %v, want background %v", id, got, want)
		}
	}
}

func TestComposeZeroArea(t *testing.T) {
	reg := DefaultRegistry()
	m, p, _ := reg.Resolve(MinimalistBoho, "")
	_, err := Compose(canvas.Size{W: 0, H: 100}, m, p, newRNG(1))
	if !errors.Is(err, errors.ErrCodeInvalidCanvas) {
		t.Errorf("Compose() error = %v, want INVALID_CANVAS", err)
	}
}

func TestComposeInvalidGeometry(t *testing.T) {
	reg := DefaultRegistry()
	m, p, _ := reg.Resolve(ModernHarmony, "")
	m.Recipe = []Placement{Arch{X: 0.5, Y: 0.5, Outer: 0.1, Inner: 0.2, Ink: Ink{1, 255}}}
	_, err := Compose(testSize, m, p, newRNG(1))
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("Compose() error = %v, want INVALID_GEOMETRY", err)
	}
}

func TestRegistryOverride(t *testing.T) {
	reg, err := NewRegistry(map[string][]string{
		"night": {"#101010", "#202020", "#303030", "#404040", "#505050", "#606060"},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	_, p, err := reg.Resolve(SacredGeometry, "night")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "night" || p.Len() != 6 {
		t.Errorf("override palette = %s (%d colors)", p.Name(), p.Len())
	}
	if _, _, err := reg.Resolve(SacredGeometry, "missing"); !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("Resolve(missing) error = %v", err)
	}
}

func TestRegistryBadHexIsFatal(t *testing.T) {
	_, err := NewRegistry(map[string][]string{
		"broken": {"#ffffff", "zzzzzz", "#000000", "#111111", "#222222", "#333333"},
	})
	if !errors.Is(err, errors.ErrCodeInvalidColorFormat) {
		t.Fatalf("NewRegistry() error = %v, want INVALID_COLOR_FORMAT", err)
	}
	if !errors.Fatal(err) {
		t.Error("palette errors must be batch-fatal")
	}
}

func TestParseModeID(t *testing.T) {
	tests := []struct {
		in      string
		want    ModeID
		wantErr bool
	}{
		{"1", MinimalistBoho, false},
		{"4", ModernHarmony, false},
		{"flow", CalmFlowAbstract, false},
		{" Sacred ", SacredGeometry, false},
		{"0", 0, true},
		{"5", 0, true},
		{"cubist", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModeID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModeID(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseModeID(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRotate(t *testing.T) {
	want := []ModeID{1, 2, 3, 4, 1, 2}
	for i, w := range want {
		if got := Rotate(i + 1); got != w {
			t.Errorf("Rotate(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestRingRadiiLargestFirst(t *testing.T) {
	r := sacredRing(0.5, 0.5)
	for i := 1; i < len(r.Radii); i++ {
		if r.Radii[i] >= r.Radii[i-1] {
			t.Errorf("radius %d (%v) not smaller than %d (%v)", i, r.Radii[i], i-1, r.Radii[i-1])
		}
	}
	if r.Inks[4].Alpha != 130 {
		t.Errorf("last ring alpha = %d, want 130", r.Inks[4].Alpha)
	}
}

func TestCirclePlacementScalesByShortSide(t *testing.T) {
	l := primitive.NewLayer(canvas.Size{W: 100, H: 200})
	p, _ := colors.NewPalette("t", "#000000", "#000000", "#000000", "#000000", "#000000", "#000000")
	c := Circle{X: 0.5, Y: 0.5, R: 0.2, Ink: Ink{0, 255}}
	if err := c.Place(l, Geometry{W: 100, H: 200}, p, nil); err != nil {
		t.Fatal(err)
	}
	img := l.Image()
	if img.NRGBAAt(50, 100+15).A == 0 {
		t.Error("point 15px below center should be inside a 20px radius")
	}
	if img.NRGBAAt(50, 100+30).A != 0 {
		t.Error("point 30px below center should be outside a 20px radius")
	}
}

func TestRecipesSitOnHorizon(t *testing.T) {
	reg := DefaultRegistry()

	boho, err := reg.Mode(MinimalistBoho)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, pl := range boho.Recipe {
		if r, ok := pl.(Rect); ok {
			found = true
			if r.Y0 != bohoHorizon {
				t.Errorf("boho bar top = %v, want %v", r.Y0, bohoHorizon)
			}
		}
	}
	if !found {
		t.Error("boho recipe has no ground bar")
	}

	flow, err := reg.Mode(CalmFlowAbstract)
	if err != nil {
		t.Fatal(err)
	}
	w, ok := flow.Recipe[0].(Wave)
	if !ok {
		t.Fatalf("first flow placement is %T, want Wave", flow.Recipe[0])
	}
	if w.YMid != flowHorizon {
		t.Errorf("lowest wave mid = %v, want %v", w.YMid, flowHorizon)
	}
	for i, pl := range flow.Recipe[1:5] {
		if next := pl.(Wave); next.YMid >= flowHorizon {
			t.Errorf("wave %d mid %v should sit above the horizon", i+1, next.YMid)
		}
	}
}
