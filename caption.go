package meme

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// Caption font size as a fraction of the mean surface side, in points.
	captionFontScale = 0.04
	// Outline width is the font size divided by this.
	strokeWidthDivisor = 5

	topCaptionOffset    = 0.05
	bottomCaptionOffset = 0.90

	pointsToPixels = 4.0 / 3.0
)

type captionStyle struct {
	FontSize  float64 // points
	LineWidth float64 // pixels
}

func captionStyleFor(width, height int) captionStyle {
	size := float64(width+height) / 2 * captionFontScale
	return captionStyle{FontSize: size, LineWidth: size / strokeWidthDivisor}
}

var defaultFont struct {
	once sync.Once
	src  *text.FontSource
	err  error
}

// defaultFontSource lazily parses the bundled Go Regular sans-serif face.
func defaultFontSource() (*text.FontSource, error) {
	defaultFont.once.Do(func() {
		defaultFont.src, defaultFont.err = text.NewFontSource(goregular.TTF)
	})
	return defaultFont.src, defaultFont.err
}

func captionText(s string) string {
	return strings.ToUpper(s)
}

type captionRenderer struct {
	src      *text.FontSource
	face     text.Face
	ppem     float64
	style    captionStyle
	outlines *text.OutlineExtractor
}

func newCaptionRenderer(src *text.FontSource, style captionStyle) *captionRenderer {
	ppem := style.FontSize * pointsToPixels
	return &captionRenderer{
		src:      src,
		face:     src.Face(ppem),
		ppem:     ppem,
		style:    style,
		outlines: text.NewOutlineExtractor(),
	}
}

// render draws the top and bottom captions of a width x height surface on a
// transparent layer. It returns nil when both captions are empty.
func (r *captionRenderer) render(width, height int, top, bottom string) (image.Image, error) {
	if top == "" && bottom == "" {
		return nil, nil
	}

	dc := gg.NewContext(width, height)
	defer func() { _ = dc.Close() }()

	dc.SetLineWidth(r.style.LineWidth)
	dc.SetLineJoin(gg.LineJoinRound)

	cx := float64(width) / 2
	if err := r.draw(dc, top, cx, float64(height)*topCaptionOffset); err != nil {
		return nil, err
	}
	if err := r.draw(dc, bottom, cx, float64(height)*bottomCaptionOffset); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// draw strokes s in black and then fills it in white, horizontally centered
// on cx with the top of its em box at top.
func (r *captionRenderer) draw(dc *gg.Context, s string, cx, top float64) error {
	if s == "" {
		return nil
	}

	x := cx - r.face.Advance(s)/2
	baseline := top + r.face.Metrics().Ascent

	parsed := r.src.Parsed()
	for _, ch := range s {
		outline, err := r.outlines.ExtractOutline(parsed, text.GlyphID(parsed.GlyphIndex(ch)), r.ppem)
		if err != nil {
			return fmt.Errorf("caption glyph %q: %w", ch, err)
		}
		appendOutline(dc, outline, x, baseline)
		x += float64(outline.Advance)
	}

	dc.SetRGB(0, 0, 0)
	if err := dc.StrokePreserve(); err != nil {
		return fmt.Errorf("stroke caption: %w", err)
	}
	dc.SetRGB(1, 1, 1)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill caption: %w", err)
	}
	return nil
}

// appendOutline adds the glyph contours to the current path with the glyph
// origin at (x, baseline). Outline Y grows downwards, like the surface.
func appendOutline(dc *gg.Context, outline *text.GlyphOutline, x, baseline float64) {
	pt := func(p text.OutlinePoint) (float64, float64) {
		return x + float64(p.X), baseline + float64(p.Y)
	}

	open := false
	for _, seg := range outline.Segments {
		switch seg.Op {
		case text.OutlineOpMoveTo:
			if open {
				dc.ClosePath()
			}
			dc.MoveTo(pt(seg.Points[0]))
			open = true
		case text.OutlineOpLineTo:
			dc.LineTo(pt(seg.Points[0]))
		case text.OutlineOpQuadTo:
			cx, cy := pt(seg.Points[0])
			ex, ey := pt(seg.Points[1])
			dc.QuadraticTo(cx, cy, ex, ey)
		case text.OutlineOpCubicTo:
			c1x, c1y := pt(seg.Points[0])
			c2x, c2y := pt(seg.Points[1])
			ex, ey := pt(seg.Points[2])
			dc.CubicTo(c1x, c1y, c2x, c2y, ex, ey)
		}
	}
	if open {
		dc.ClosePath()
	}
}
