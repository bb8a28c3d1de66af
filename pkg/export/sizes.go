package export

import (
	"fmt"
	"math"

	"github.com/matzehuels/zenposter/pkg/errors"
)

// DefaultDPI is the print resolution used when none is configured.
const DefaultDPI = 300

// PhysicalSize is a named print size in inches.
type PhysicalSize struct {
	Name     string  `json:"name" toml:"name"`
	WidthIn  float64 `json:"width_in" toml:"width_in"`
	HeightIn float64 `json:"height_in" toml:"height_in"`
}

// DefaultSizes are the print masters produced unless configured otherwise.
var DefaultSizes = []PhysicalSize{
	{Name: "4x5_16x20", WidthIn: 16, HeightIn: 20},
	{Name: "3x4_18x24", WidthIn: 18, HeightIn: 24},
	{Name: "2x3_24x36", WidthIn: 24, HeightIn: 36},
	{Name: "a4", WidthIn: 8.27, HeightIn: 11.69},
}

// Pixels converts the size to pixels at dpi, rounding each axis to the
// nearest pixel. Non-positive results fail with EXPORT_SIZE.
func (s PhysicalSize) Pixels(dpi int) (w, h int, err error) {
	w = int(math.Round(s.WidthIn * float64(dpi)))
	h = int(math.Round(s.HeightIn * float64(dpi)))
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New(errors.ErrCodeExportSize,
			"%s at %d dpi is %dx%d px", s.Name, dpi, w, h)
	}
	return w, h, nil
}

// Validate checks the name and dimensions.
func (s PhysicalSize) Validate() error {
	if err := errors.ValidateSizeName(s.Name); err != nil {
		return err
	}
	if !(s.WidthIn > 0) || !(s.HeightIn > 0) {
		return errors.New(errors.ErrCodeExportSize, "size %s has non-positive dimensions %vx%v in", s.Name, s.WidthIn, s.HeightIn)
	}
	return nil
}

func (s PhysicalSize) String() string {
	return fmt.Sprintf("%s (%gx%g in)", s.Name, s.WidthIn, s.HeightIn)
}
