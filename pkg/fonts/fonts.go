// Package fonts resolves the typeface used for titles and watermarks.
//
// A [Resolver] looks up preferred font files on the host through the system
// font directories. If none is installed it falls back to the Go Regular face
// compiled into the binary, so resolution never fails and output does not
// depend on a font being present.
package fonts

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultPreferred lists font files tried in order.
var DefaultPreferred = []string{"Avenir.ttf", "Inter.ttf", "Helvetica.ttf", "Arial.ttf"}

// FallbackName identifies the built-in face.
const FallbackName = "Go Regular"

// Parsed built-in face (computed once on first access).
var (
	fallbackFont     *truetype.Font
	fallbackFontOnce sync.Once
)

// Fallback returns the parsed built-in font.
func Fallback() *truetype.Font {
	fallbackFontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			panic("fonts: embedded Go Regular is corrupt: " + err.Error())
		}
		fallbackFont = f
	})
	return fallbackFont
}

// Resolver picks the first installed font from a preference list.
// It is safe for concurrent use; each call to Face returns a new face.
type Resolver struct {
	preferred []string

	once sync.Once
	font *truetype.Font
	name string
	path string
}

// NewResolver creates a resolver. With no names, DefaultPreferred is used.
func NewResolver(preferred ...string) *Resolver {
	if len(preferred) == 0 {
		preferred = DefaultPreferred
	}
	return &Resolver{preferred: append([]string(nil), preferred...)}
}

func (r *Resolver) resolve() {
	r.once.Do(func() {
		for _, name := range r.preferred {
			path, err := findfont.Find(name)
			if err != nil {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			f, err := truetype.Parse(data)
			if err != nil {
				continue
			}
			r.font, r.name, r.path = f, name, path
			return
		}
		r.font, r.name = Fallback(), FallbackName
	})
}

// Face returns a face at the given pixel size.
func (r *Resolver) Face(size float64) font.Face {
	r.resolve()
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    max(1, size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Name returns the resolved font file name or FallbackName.
func (r *Resolver) Name() string {
	r.resolve()
	return r.name
}

// Path returns the resolved font file path, empty for the built-in face.
func (r *Resolver) Path() string {
	r.resolve()
	return r.path
}
