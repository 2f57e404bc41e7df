package meme

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Size is a presentation (display) size in CSS pixels.
type Size struct {
	Width  float64
	Height float64
}

// Surface is the pixel grid the composite is drawn on. Its resolution is
// independent of the size it is displayed at.
type Surface struct {
	pix     *image.NRGBA
	display Size
}

func newSurface(width, height int) *Surface {
	s := &Surface{}
	s.resize(width, height)
	s.display = Size{Width: float64(width), Height: float64(height)}
	return s
}

// Width returns the surface resolution width.
func (s *Surface) Width() int { return s.pix.Rect.Dx() }

// Height returns the surface resolution height.
func (s *Surface) Height() int { return s.pix.Rect.Dy() }

// Display returns the size the surface is presented at.
func (s *Surface) Display() Size { return s.display }

// resize replaces the pixel grid with a transparent one of the given size.
func (s *Surface) resize(width, height int) {
	s.pix = imaging.New(width, height, color.NRGBA{})
}

func (s *Surface) clear() {
	clear(s.pix.Pix)
}

// drawImage composites img over the surface with its top-left corner at the
// origin.
func (s *Surface) drawImage(img image.Image) {
	s.pix = imaging.Overlay(s.pix, img, image.Pt(0, 0), 1.0)
}

func (s *Surface) resolution() Size {
	return Size{Width: float64(s.Width()), Height: float64(s.Height())}
}

// presentationSizes lists every display size applied when presenting a
// surface of the given size: the size itself, then successive halvings for as
// long as both dimensions exceed threshold. A threshold below 1 is treated
// as 1 so the halving always ends.
func presentationSizes(height, width, threshold float64) []Size {
	threshold = max(threshold, 1)
	sizes := []Size{{Width: width, Height: height}}
	for height > threshold && width > threshold {
		height /= 2
		width /= 2
		sizes = append(sizes, Size{Width: width, Height: height})
	}
	return sizes
}
