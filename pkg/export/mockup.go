package export

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/texture"
)

// Room scene geometry.
const (
	MockupWidth  = 2800
	MockupHeight = 1800

	wallInset   = 0.08
	wallSoft    = 60
	floorHeight = 0.20
	floorPlanks = 18
	plankWidth  = 3

	artWidth   = 0.44
	artCenterX = 0.5
	artCenterY = 0.42
	artAspect  = 1.25
	matWidth   = 0.05
	frameWidth = 0.012
)

var (
	wallColor  = colors.RGB{R: 236, G: 236, B: 232}
	wallShade  = colors.RGB{R: 222, G: 222, B: 218}
	floorColor = colors.RGB{R: 214, G: 211, B: 208}
	plankColor = colors.RGB{R: 202, G: 199, B: 195}
	matColor   = colors.RGB{R: 248, G: 248, B: 246}
	frameColor = colors.RGB{R: 60, G: 60, B: 60}
)

// RenderMockup places a matted copy of master on a plain wall above a
// planked floor. The framed variant adds a dark frame around the mat.
func RenderMockup(master *canvas.Canvas, framed bool) (*canvas.Canvas, error) {
	if err := master.Validate(); err != nil {
		return nil, err
	}
	wall, err := roomScene()
	if err != nil {
		return nil, err
	}

	aw := int(MockupWidth * artWidth)
	art := imaging.Resize(master.Image(), aw, int(float64(aw)*artAspect), imaging.Lanczos)
	art = expand(art, int(float64(aw)*matWidth), matColor)
	if framed {
		art = expand(art, int(float64(aw)*frameWidth), frameColor)
	}
	ab := art.Bounds()
	pos := image.Pt(
		int(MockupWidth*artCenterX-float64(ab.Dx())/2),
		int(MockupHeight*artCenterY-float64(ab.Dy())/2),
	)
	return canvas.Wrap(imaging.Paste(wall.Image(), art, pos)), nil
}

// roomScene renders the empty wall and floor.
func roomScene() (*canvas.Canvas, error) {
	size := canvas.Size{W: MockupWidth, H: MockupHeight}
	base, err := canvas.New(size, wallColor)
	if err != nil {
		return nil, err
	}

	pad := float64(int(float64(size.Min()) * wallInset))
	dc := texture.NewMask(size, 0)
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(pad, pad, float64(size.W)-2*pad, float64(size.H)-2*pad)
	dc.Fill()
	mask := texture.SoftBlur(dc.Image(), wallSoft)
	shade, err := canvas.New(size, wallShade)
	if err != nil {
		return nil, err
	}
	wall := texture.Composite(base.Image(), shade.Image(), texture.ToAlpha(mask))

	fh := float64(int(MockupHeight * floorHeight))
	fc := gg.NewContextForRGBA(wall.RGBA())
	fc.SetColor(floorColor)
	fc.DrawRectangle(0, MockupHeight-fh, MockupWidth, fh)
	fc.Fill()
	fc.SetColor(plankColor)
	fc.SetLineWidth(plankWidth)
	for i := range floorPlanks {
		x := float64(int(float64(i) * MockupWidth / floorPlanks))
		fc.DrawLine(x, MockupHeight-fh, x, MockupHeight)
		fc.Stroke()
	}
	return canvas.Wrap(imaging.Clone(fc.Image())), nil
}
