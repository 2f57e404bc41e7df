package meme

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Preview returns the surface resampled to its presentation size, which is
// what a page displaying the surface would show.
func (c *Composer) Preview() *image.NRGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.surface.display
	width := max(1, int(math.Round(d.Width)))
	height := max(1, int(math.Round(d.Height)))
	if width == c.surface.Width() && height == c.surface.Height() {
		return imaging.Clone(c.surface.pix)
	}
	return imaging.Resize(c.surface.pix, width, height, imaging.Lanczos)
}
