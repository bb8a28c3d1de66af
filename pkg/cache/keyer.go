package cache

// Keyer derives cache keys. Two requests that would render the same pixels
// must map to the same key.
type Keyer interface {
	// PreviewKey identifies an encoded preview image.
	PreviewKey(opts PreviewKeyOpts) string
}

// PreviewKeyOpts lists everything that changes a preview's bytes.
type PreviewKeyOpts struct {
	Mode     int      `json:"mode"`
	Palette  []string `json:"palette"`
	Seed     int64    `json:"seed"`
	Index    int      `json:"index"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Title    string   `json:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Font     string   `json:"font"`
	Quality  int      `json:"quality"`
}

// DefaultKeyer hashes the full option set into each key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PreviewKey returns "preview:<sha256>".
func (DefaultKeyer) PreviewKey(opts PreviewKeyOpts) string {
	return hashKey("preview", opts)
}

var _ Keyer = DefaultKeyer{}
