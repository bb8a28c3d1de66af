package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/export"
	"github.com/matzehuels/zenposter/pkg/scene"
)

// artworkNamespace scopes artwork IDs.
var artworkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/zenposter/artwork"))

// Metadata describes one generated artwork for catalog tooling.
// Paths are relative to the artwork's output directory.
type Metadata struct {
	ID       string `json:"id"`
	SKU      string `json:"sku"`
	Handle   string `json:"handle"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Mode     string `json:"mode"`
	ModeID   int    `json:"mode_id"`
	Palette  string `json:"palette"`
	Seed     int64  `json:"seed"`
	Index    int    `json:"index"`
	Seeds    Seeds  `json:"seeds"`

	WebMaster string `json:"web_master"`
	Preview   string `json:"preview"`
	Thumb     string `json:"thumb"`

	Files []export.Entry `json:"files,omitempty"`
}

// ArtworkID returns a stable UUIDv5 for an artwork. The same mode, palette,
// seed and index always yield the same ID.
func ArtworkID(mode scene.ModeID, palette string, seed int64, index int) uuid.UUID {
	return uuid.NewSHA1(artworkNamespace, fmt.Appendf(nil, "%d/%s/%d/%d", int(mode), palette, seed, index))
}

// SKU returns the catalog SKU for artwork index.
func SKU(index int) string { return fmt.Sprintf("ZCP-%03d", index) }

// Handle returns the storefront handle for artwork index.
func Handle(index int) string { return fmt.Sprintf("zen-calm-pro-%d", index) }

// ItemDir returns the batch subdirectory for artwork index.
func ItemDir(index int) string { return fmt.Sprintf("ZCP_%03d", index) }

// NewMetadata builds the record for an artwork rendered with opts in mode m.
func NewMetadata(opts Options, m scene.Mode, palette string) Metadata {
	return Metadata{
		ID:        ArtworkID(m.ID, palette, opts.Seed, opts.Index).String(),
		SKU:       SKU(opts.Index),
		Handle:    Handle(opts.Index),
		Title:     opts.Title,
		Subtitle:  opts.Subtitle,
		Mode:      m.Name,
		ModeID:    int(m.ID),
		Palette:   palette,
		Seed:      opts.Seed,
		Index:     opts.Index,
		Seeds:     opts.Seeds(),
		WebMaster: export.MasterPath(opts.Index),
		Preview:   export.PreviewPath(opts.Index),
		Thumb:     export.ThumbPath(opts.Index),
	}
}

// WriteJSON writes v as indented JSON to path, creating parent directories.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal %s", filepath.Base(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(path))
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
