package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/pipeline"
	"github.com/matzehuels/zenposter/pkg/scene"
)

// runCLI executes the root command with args against a config file written
// to a temp dir and returns everything printed to stdout.
func runCLI(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "zenposter.toml")
	if err := os.WriteFile(cfgPath, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, logs bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// smallConfig keeps renders fast: a tiny canvas, one print size at low dpi
// and a cache in the test's temp dir.
func smallConfig(t *testing.T) string {
	return `
dpi = 20
workers = 2

[canvas]
width = 160
height = 200

[[sizes]]
name = "a4"
width_in = 8.27
height_in = 11.69

[cache]
backend = "file"
dir = "` + filepath.ToSlash(t.TempDir()) + `"
`
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"generate", "render", "modes", "pick", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag not registered")
	}
}

func TestModesCommand(t *testing.T) {
	out, err := runCLI(t, "", "modes", "--palettes")
	if err != nil {
		t.Fatalf("modes: %v", err)
	}
	for _, want := range []string{"Minimalist Zen Boho", "Sacred Geometry Zen", "Calm Flow Abstract", "Modern Harmony", "boho_warm", "calm_flow"} {
		if !strings.Contains(out, want) {
			t.Errorf("modes output missing %q", want)
		}
	}
}

func TestModesCustomPalette(t *testing.T) {
	out, err := runCLI(t, "[palettes]\ndusk = [\"#F4F1EC\", \"#D9CBBE\", \"#B79E8B\", \"#8E735F\", \"#5F4B3E\", \"#2F2621\"]\n", "modes", "-p")
	if err != nil {
		t.Fatalf("modes: %v", err)
	}
	if !strings.Contains(out, "dusk") {
		t.Errorf("custom palette missing from output:\n%s", out)
	}
}

func TestModesShortPaletteRejected(t *testing.T) {
	_, err := runCLI(t, "[palettes]\ndusk = [\"#F4F1EC\", \"#2F2621\"]\n", "modes", "-p")
	if !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("err = %v, want INVALID_PALETTE", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	_, err := runCLI(t, "dpi = -1\n", "modes")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}

	_, err = runCLI(t, "colour = \"red\"\n", "modes")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key: err = %v, want INVALID_CONFIG", err)
	}
}

func TestRenderUnknownMode(t *testing.T) {
	_, err := runCLI(t, "", "render", "cubism", "--out", t.TempDir())
	if !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("err = %v, want INVALID_MODE", err)
	}
}

func TestRenderPreviewCached(t *testing.T) {
	if testing.Short() {
		t.Skip("renders previews")
	}
	cfg := smallConfig(t)
	out := filepath.Join(t.TempDir(), "previews", "flow.jpg")

	first, err := runCLI(t, cfg, "render", "flow", "--preview", "96", "--out", out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(first, iconFresh) {
		t.Errorf("first render should be fresh:\n%s", first)
	}
	data, err := os.ReadFile(out)
	if err != nil || len(data) == 0 {
		t.Fatalf("preview not written: %v", err)
	}

	second, err := runCLI(t, cfg, "render", "flow", "--preview", "96", "--out", out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(second, iconCached) {
		t.Errorf("second render should be cached:\n%s", second)
	}
	again, _ := os.ReadFile(out)
	if !bytes.Equal(data, again) {
		t.Error("cached preview differs from the fresh one")
	}
}

func TestGenerateCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("renders a batch")
	}
	dir := t.TempDir()
	titles := filepath.Join(t.TempDir(), "titles.json")
	if err := os.WriteFile(titles, []byte(`[{"title":"Morning Stillness"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, smallConfig(t), "generate", "--out", dir, "--count", "2", "--seed", "7",
		"--titles", titles, "--no-mockups")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "ZCP-001") || !strings.Contains(out, "ZCP-002") {
		t.Errorf("output missing SKUs:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, pipeline.MetadataFile))
	if err != nil {
		t.Fatal(err)
	}
	var md []pipeline.Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		t.Fatal(err)
	}
	if len(md) != 2 {
		t.Fatalf("metadata has %d records, want 2", len(md))
	}
	if md[0].Title != "Morning Stillness" || md[1].Title != "Zen & Calm #2" {
		t.Errorf("titles = %q, %q", md[0].Title, md[1].Title)
	}
	if md[1].ModeID != int(scene.SacredGeometry) {
		t.Errorf("second artwork mode = %d, want %d", md[1].ModeID, scene.SacredGeometry)
	}
	if _, err := os.Stat(filepath.Join(dir, pipeline.ItemDir(2), "print")); err != nil {
		t.Errorf("print dir missing: %v", err)
	}
}

func TestGenerateRequiresOut(t *testing.T) {
	if _, err := runCLI(t, "", "generate"); err == nil {
		t.Error("generate without --out should fail")
	}
}

func TestCachePathAndClear(t *testing.T) {
	dir := t.TempDir()
	cfg := "[cache]\ndir = \"" + filepath.ToSlash(dir) + "\"\n"

	out, err := runCLI(t, cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	stale := filepath.Join(dir, "ab", "entry.json")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("cache clear left entries behind")
	}
}

func TestCacheDirDefault(t *testing.T) {
	dir, err := cacheDir("")
	if err != nil {
		t.Skipf("no user cache dir: %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestFirstPositive(t *testing.T) {
	tests := []struct {
		in   []int
		want int
	}{
		{[]int{0, 4}, 4},
		{[]int{3, 4}, 3},
		{[]int{-1, 0}, 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := firstPositive(tt.in...); got != tt.want {
			t.Errorf("firstPositive(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCompletion(t *testing.T) {
	out, err := runCLI(t, "", "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "zenposter") {
		t.Error("bash completion does not mention zenposter")
	}

	got, _ := completeModes(nil, nil, "")
	if len(got) != len(scene.AllModes) || got[1] != "sacred" {
		t.Errorf("completeModes() = %v", got)
	}
}

func TestModeListModel(t *testing.T) {
	m := NewModeListModel(scene.DefaultRegistry())
	if len(m.Modes) != 4 {
		t.Fatalf("got %d modes, want 4", len(m.Modes))
	}

	press := func(m ModeListModel, k tea.KeyMsg) ModeListModel {
		next, _ := m.Update(k)
		return next.(ModeListModel)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	if m.Cursor != 3 {
		t.Errorf("cursor after '4' = %d, want 3", m.Cursor)
	}
	if !strings.Contains(m.View(), "Modern Harmony") {
		t.Error("view does not list modes")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected == nil || m.Selected.ID != scene.ModernHarmony {
		t.Errorf("selected = %+v, want Modern Harmony", m.Selected)
	}
}
