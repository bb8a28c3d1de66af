package scene

import (
	"maps"
	"slices"

	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
)

// DefaultPalettes holds the built-in palettes as hex strings.
var DefaultPalettes = map[string][]string{
	"boho_warm":      {"#ffffff", "#f4efe8", "#e8ded1", "#d7c4b3", "#caa28a", "#b5745c", "#8f4e3b"},
	"sacred_muted":   {"#f7f7f6", "#e9ecef", "#d7dfe6", "#c7d1d8", "#adbcc6", "#8696a6", "#5c6a74"},
	"calm_flow":      {"#f6f6f6", "#edeae6", "#e1e3db", "#d4dfd3", "#c3d3c7", "#aebfb3", "#8aa296"},
	"modern_harmony": {"#ffffff", "#f2f1ef", "#e6e3df", "#d6d0cb", "#c4bbb4", "#a99c94", "#857a73"},
}

// Registry is the parsed, read-only table of modes and palettes. It is built
// once and safe for concurrent use.
type Registry struct {
	modes      map[ModeID]Mode
	palettes   map[string]colors.Palette
	background map[ModeID]colors.RGB
}

// NewRegistry parses the built-in palettes plus extra, where extra entries
// replace built-ins of the same name. Any malformed hex fails the whole
// registry with INVALID_COLOR_FORMAT so a batch never starts with a broken
// table.
func NewRegistry(extra map[string][]string) (*Registry, error) {
	src := maps.Clone(DefaultPalettes)
	maps.Copy(src, extra)

	r := &Registry{
		modes:      make(map[ModeID]Mode, len(AllModes)),
		palettes:   make(map[string]colors.Palette, len(src)),
		background: make(map[ModeID]colors.RGB, len(AllModes)),
	}
	for _, name := range slices.Sorted(maps.Keys(src)) {
		p, err := colors.NewPalette(name, src[name]...)
		if err != nil {
			return nil, err
		}
		r.palettes[name] = p
	}
	for _, m := range defaultModes() {
		bg, err := colors.HexToRGB(m.Background)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColorFormat, err, "background of mode %d", m.ID)
		}
		if _, ok := r.palettes[m.Palette]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidPalette, "mode %d references unknown palette %q", m.ID, m.Palette)
		}
		r.modes[m.ID] = m
		r.background[m.ID] = bg
	}
	return r, nil
}

// DefaultRegistry returns the built-in registry. It panics only if the
// built-in tables are malformed.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(nil)
	if err != nil {
		panic(err)
	}
	return r
}

// Mode looks up a mode by ID.
func (r *Registry) Mode(id ModeID) (Mode, error) {
	m, ok := r.modes[id]
	if !ok {
		return Mode{}, errors.New(errors.ErrCodeInvalidMode, "unknown mode %d", int(id))
	}
	return m, nil
}

// Modes returns every mode in rotation order.
func (r *Registry) Modes() []Mode {
	out := make([]Mode, 0, len(AllModes))
	for _, id := range AllModes {
		out = append(out, r.modes[id])
	}
	return out
}

// Palette looks up a palette by name.
func (r *Registry) Palette(name string) (colors.Palette, error) {
	p, ok := r.palettes[name]
	if !ok {
		return colors.Palette{}, errors.New(errors.ErrCodeInvalidPalette, "unknown palette %q", name)
	}
	return p, nil
}

// PaletteNames returns all palette names sorted.
func (r *Registry) PaletteNames() []string {
	return slices.Sorted(maps.Keys(r.palettes))
}

// Background returns the parsed background color of a mode.
func (r *Registry) Background(id ModeID) colors.RGB {
	return r.background[id]
}

// Resolve returns the mode and the palette to render it with. An empty
// override selects the mode's own palette.
func (r *Registry) Resolve(id ModeID, override string) (Mode, colors.Palette, error) {
	m, err := r.Mode(id)
	if err != nil {
		return Mode{}, colors.Palette{}, err
	}
	name := m.Palette
	if override != "" {
		name = override
	}
	p, err := r.Palette(name)
	if err != nil {
		return Mode{}, colors.Palette{}, err
	}
	return m, p, nil
}
