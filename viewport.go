package meme

const (
	// DefaultViewportWidth is used when no viewport width is configured.
	DefaultViewportWidth = 1024

	viewportGutter       = 30
	initialSurfaceWidth  = 640
	initialSurfaceHeight = 480
	maxPresentationSide  = 1000
)

// Viewport describes the width of the device viewport the composer is shown in.
type Viewport struct {
	Width int
}

// usable is the viewport width minus the page gutter.
func (v Viewport) usable() int {
	return v.Width - viewportGutter
}

// InitialSurface returns the surface resolution used before any image has been
// loaded: min(640, W-30) wide and min(480, W-30) high, never below 1x1.
func (v Viewport) InitialSurface() (width, height int) {
	width = max(1, min(initialSurfaceWidth, v.usable()))
	height = max(1, min(initialSurfaceHeight, v.usable()))
	return width, height
}

// PresentationThreshold returns the display size above which both presentation
// dimensions are halved: min(1000, W-30), never below 1.
func (v Viewport) PresentationThreshold() float64 {
	return float64(max(1, min(maxPresentationSide, v.usable())))
}
