package pipeline

import (
	"context"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/zenposter/pkg/cache"
	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/export"
	"github.com/matzehuels/zenposter/pkg/scene"
)

var smallSize = canvas.Size{W: 160, H: 200}

var smallPrint = []export.PhysicalSize{{Name: "small", WidthIn: 4, HeightIn: 5}}

func newTestRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	r := NewRunner(c, nil, log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel}))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestDeriveSeeds(t *testing.T) {
	tests := []struct {
		base  int64
		index int
		want  Seeds
	}{
		{4242, 1, Seeds{Scene: 4273, Texture: 4249, Grain: 4252, Deckle: 4258}},
		{4242, 2, Seeds{Scene: 4304, Texture: 4256, Grain: 4259, Deckle: 4265}},
		{0, 0, Seeds{Scene: 0, Texture: 0, Grain: 3, Deckle: 9}},
	}
	for _, tt := range tests {
		if got := DeriveSeeds(tt.base, tt.index); got != tt.want {
			t.Errorf("DeriveSeeds(%d, %d) = %+v, want %+v", tt.base, tt.index, got, tt.want)
		}
	}
}

func TestFinishTable(t *testing.T) {
	tests := []struct {
		mode     scene.ModeID
		grain    float64
		wash     float64
		vignette float64
	}{
		{scene.MinimalistBoho, 0.06, 0.10, 0.10},
		{scene.SacredGeometry, 0.08, 0.12, 0.12},
		{scene.CalmFlowAbstract, 0.08, 0.12, 0.10},
		{scene.ModernHarmony, 0.06, 0.10, 0.12},
	}
	seeds := DeriveSeeds(4242, 1)
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			st := Finish(tt.mode, seeds)
			if st.GrainStrength != tt.grain || st.WashAlpha != tt.wash || st.Vignette != tt.vignette {
				t.Errorf("Finish(%s) = grain %v wash %v vignette %v", tt.mode, st.GrainStrength, st.WashAlpha, st.Vignette)
			}
			if st.DeckleAmount != 0.06 || st.WashRadius != 16 {
				t.Errorf("Finish(%s) deckle %v radius %v", tt.mode, st.DeckleAmount, st.WashRadius)
			}
			if st.GrainSeed != seeds.Grain || st.DeckleSeed != seeds.Deckle {
				t.Error("Finish should use the derived grain and deckle seeds")
			}
			if st.Sharpen.Percent != 80 || st.Sharpen.Threshold != 3 {
				t.Errorf("Finish(%s) sharpen = %+v", tt.mode, st.Sharpen)
			}
		})
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing mode", Options{}, errors.ErrCodeInvalidMode},
		{"mode out of range", Options{Mode: 5}, errors.ErrCodeInvalidMode},
		{"bad palette name", Options{Mode: 1, Palette: "../x"}, errors.ErrCodeInvalidPalette},
		{"negative index", Options{Mode: 1, Index: -1}, errors.ErrCodeInvalidInput},
		{"zero height canvas", Options{Mode: 1, Size: canvas.Size{W: 10}}, errors.ErrCodeInvalidCanvas},
		{"negative dpi", Options{Mode: 1, DPI: -1}, errors.ErrCodeExportSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Mode: scene.SacredGeometry}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, 1, opts.Index)
	assert.Equal(t, export.DefaultDPI, opts.DPI)
	assert.Equal(t, canvas.Size{W: 3200, H: 4000}, opts.Size)
	assert.Len(t, opts.Sizes, len(export.DefaultSizes))
	assert.NotNil(t, opts.Logger)

	// Idempotent.
	opts.DPI = 150
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, 150, opts.DPI)
}

func TestRenderIsDeterministic(t *testing.T) {
	r := newTestRunner(t, nil)
	ctx := context.Background()

	for _, id := range scene.AllModes {
		t.Run(id.String(), func(t *testing.T) {
			opts := Options{Mode: id, Seed: 4242, Size: smallSize, Title: "Zen", Subtitle: "Calm"}
			a, err := r.Render(ctx, opts)
			require.NoError(t, err)
			b, err := r.Render(ctx, opts)
			require.NoError(t, err)
			assert.True(t, a.Equal(b), "same options should render identical pixels")

			opts.Seed = 4243
			c, err := r.Render(ctx, opts)
			require.NoError(t, err)
			assert.False(t, a.Equal(c), "a different seed should change the render")
		})
	}
}

func TestRenderUnknownPalette(t *testing.T) {
	r := newTestRunner(t, nil)
	_, err := r.Render(context.Background(), Options{Mode: 1, Palette: "nope", Size: smallSize})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPalette))
}

func TestGenerateWritesArtwork(t *testing.T) {
	r := newTestRunner(t, nil)
	dir := t.TempDir()

	res, err := r.Generate(context.Background(), Options{
		Mode: scene.ModernHarmony, Seed: 4242, Index: 3, Size: smallSize,
		Title: "Zen & Calm #3", Subtitle: "Modern Harmony",
		OutDir: dir, DPI: 20, Sizes: smallPrint, SkipMockups: true,
	})
	require.NoError(t, err)
	require.NoError(t, res.Manifest.Err())

	md := res.Metadata
	assert.Equal(t, "ZCP-003", md.SKU)
	assert.Equal(t, "zen-calm-pro-3", md.Handle)
	assert.Equal(t, "modern_harmony", md.Palette)
	assert.Equal(t, ArtworkID(scene.ModernHarmony, "modern_harmony", 4242, 3).String(), md.ID)
	assert.Equal(t, filepath.Join("web", "master_03_2048.jpg"), md.WebMaster)
	assert.Len(t, md.Files, 4)

	for _, p := range []string{md.WebMaster, md.Preview, md.Thumb, export.PrintPath("small", 3, 20)} {
		assert.FileExists(t, filepath.Join(dir, p))
	}
}

func TestArtworkIDIsStable(t *testing.T) {
	a := ArtworkID(scene.SacredGeometry, "sacred_muted", 4242, 1)
	assert.Equal(t, a, ArtworkID(scene.SacredGeometry, "sacred_muted", 4242, 1))
	assert.NotEqual(t, a, ArtworkID(scene.SacredGeometry, "sacred_muted", 4242, 2))
	assert.Equal(t, 5, int(a.Version()))
}

func TestGenerateBatch(t *testing.T) {
	r := newTestRunner(t, nil)
	dir := t.TempDir()

	res, err := r.GenerateBatch(context.Background(), BatchOptions{
		Count:   5,
		Seed:    4242,
		Titles:  []Title{{Title: "Morning"}, {Subtitle: "Custom"}},
		OutDir:  dir,
		Workers: 3,
		Size:    smallSize,
		DPI:     10,
		Sizes:   smallPrint,

		SkipMockups: true,
	})
	require.NoError(t, err)
	require.NoError(t, res.Err())
	require.Len(t, res.Items, 5)
	assert.Zero(t, res.Failed())

	wantModes := []scene.ModeID{1, 2, 3, 4, 1}
	for i, it := range res.Items {
		assert.Equal(t, i+1, it.Index)
		assert.Equal(t, wantModes[i], it.Mode)
		assert.Equal(t, filepath.Join(dir, ItemDir(i+1)), it.Dir)
		assert.DirExists(t, it.Dir)
	}

	md := res.Metadata()
	assert.Equal(t, "Morning", md[0].Title)
	assert.Equal(t, "Minimalist Zen Boho", md[0].Subtitle)
	assert.Equal(t, "Zen & Calm #2", md[1].Title)
	assert.Equal(t, "Custom", md[1].Subtitle)
	assert.Equal(t, "Zen & Calm #5", md[4].Title)

	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	require.NoError(t, err)
	var written []Metadata
	require.NoError(t, json.Unmarshal(raw, &written))
	assert.Len(t, written, 5)
}

func TestGenerateBatchIsolatesFailures(t *testing.T) {
	r := newTestRunner(t, nil)
	dir := t.TempDir()
	// A plain file where ZCP_002 should go makes every write of item 2 fail.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ItemDir(2)), []byte("taken"), 0o644))

	res, err := r.GenerateBatch(context.Background(), BatchOptions{
		Count:   3,
		Seed:    7,
		OutDir:  dir,
		Workers: 3,
		Size:    smallSize,
		DPI:     10,
		Sizes:   smallPrint,

		SkipMockups: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	batchErr := res.Err()
	require.Error(t, batchErr)
	assert.Contains(t, batchErr.Error(), SKU(2))
	assert.NotContains(t, batchErr.Error(), SKU(1))
	assert.True(t, errors.Is(batchErr, errors.ErrCodeInvalidPath))

	for _, i := range []int{1, 3} {
		it := res.Items[i-1]
		require.NoError(t, it.Err)
		assert.Empty(t, it.Result.Manifest.Failures, "item %d", i)
		assert.FileExists(t, filepath.Join(dir, ItemDir(i), export.MasterPath(i)))
	}
	assert.NotEmpty(t, res.Items[1].Result.Manifest.Failures)
	assert.Empty(t, res.Items[1].Result.Manifest.Entries)
}

func TestGenerateBatchUnknownPaletteIsFatal(t *testing.T) {
	r := newTestRunner(t, nil)
	dir := t.TempDir()

	_, err := r.GenerateBatch(context.Background(), BatchOptions{Count: 2, Palette: "missing", OutDir: dir, Size: smallSize})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPalette))

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "no artwork should start")
}

func TestGenerateBatchInvalidPaletteHex(t *testing.T) {
	_, err := scene.NewRegistry(map[string][]string{
		"broken": {"#fff", "#000000", "#111111", "#222222", "#333333", "#444444"},
	})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidColorFormat))
	assert.True(t, errors.Fatal(err))
}

func TestPreviewCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := newTestRunner(t, fc)
	ctx := context.Background()
	po := PreviewOptions{Mode: scene.CalmFlowAbstract, Seed: 7, Width: 160}

	first, hit, err := r.RenderPreviewWithCacheInfo(ctx, po)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := r.RenderPreviewWithCacheInfo(ctx, po)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)

	po.Seed = 8
	_, hit, err = r.RenderPreviewWithCacheInfo(ctx, po)
	require.NoError(t, err)
	assert.False(t, hit, "a new seed should miss")
}

func TestPreviewKeyTracksPaletteColors(t *testing.T) {
	r := newTestRunner(t, nil)
	po := PreviewOptions{Mode: scene.MinimalistBoho, Seed: 7, Width: 80}

	key, err := r.PreviewKey(po)
	require.NoError(t, err)
	again, err := r.PreviewKey(po)
	require.NoError(t, err)
	assert.Equal(t, key, again)

	reg, err := scene.NewRegistry(map[string][]string{
		"boho_warm": {"#ffffff", "#eef2f5", "#d9e2ea", "#b8c8d6", "#8ea6bb", "#5e7d99", "#2f4a63"},
	})
	require.NoError(t, err)
	edited := newTestRunner(t, nil)
	edited.Registry = reg
	editedKey, err := edited.PreviewKey(po)
	require.NoError(t, err)
	assert.NotEqual(t, key, editedKey, "same palette name with new colors")

	_, err = r.PreviewKey(PreviewOptions{Mode: scene.MinimalistBoho, Palette: "missing"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPalette))
}

func TestPreviewWidthBounds(t *testing.T) {
	r := newTestRunner(t, nil)
	_, err := r.RenderPreview(context.Background(), PreviewOptions{Mode: 1, Width: MaxPreviewWidth + 1})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestLoadTitles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"Dawn","subtitle":"Soft light"},{"title":"Dusk"}]`), 0644))

	titles, err := LoadTitles(path)
	require.NoError(t, err)
	assert.Equal(t, []Title{{"Dawn", "Soft light"}, {"Dusk", ""}}, titles)

	require.NoError(t, os.WriteFile(path, []byte(`{"title":"x"}`), 0644))
	_, err = LoadTitles(path)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

// The reference artwork: Minimalist Zen Boho, seed 4242, first of the batch,
// exported as an A4 print master at 300 dpi.
func TestMinimalistBohoA4Reference(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size render")
	}
	r := newTestRunner(t, nil)
	dir := t.TempDir()

	res, err := r.Generate(context.Background(), Options{
		Mode: scene.MinimalistBoho, Seed: 4242, Index: 1,
		Title: "Zen & Calm #1", Subtitle: "Minimalist Zen Boho",
		OutDir: dir, DPI: 300,
		Sizes:       []export.PhysicalSize{{Name: "a4", WidthIn: 8.27, HeightIn: 11.69}},
		SkipMockups: true,
	})
	require.NoError(t, err)
	require.NoError(t, res.Manifest.Err())

	f, err := os.Open(filepath.Join(dir, "print", "a4_01_300dpi.png"))
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, 2481, b.Dx())
	assert.Equal(t, 3507, b.Dy())

	paper := export.DefaultPrintStyle.Paper
	for _, p := range []image.Point{{0, 0}, {b.Dx() - 1, 0}, {0, b.Dy() - 1}, {b.Dx() - 1, b.Dy() - 1}} {
		assert.Equal(t, paper, colors.FromColor(img.At(p.X, p.Y)), "corner %v", p)
	}
	distinct := map[colors.RGB]bool{}
	for y := 0; y < b.Dy(); y += 97 {
		for x := 0; x < b.Dx(); x += 89 {
			distinct[colors.FromColor(img.At(x, y))] = true
		}
	}
	assert.Greater(t, len(distinct), 1, "print master is a single color")

	master, err := os.Open(filepath.Join(dir, "web", "master_01_2048.jpg"))
	require.NoError(t, err)
	defer master.Close()
	mcfg, _, err := image.DecodeConfig(master)
	require.NoError(t, err)
	assert.Equal(t, 2048, mcfg.Width)
	assert.Equal(t, 2560, mcfg.Height)
}
