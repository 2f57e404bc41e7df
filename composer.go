package meme

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg/text"
)

// File is a selected image file.
type File struct {
	Name string
	Data []byte
}

// ReadFile loads the file at path as a selection.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyData)
	}
	return &File{Name: filepath.Base(path), Data: data}, nil
}

// Option configures a Composer.
type Option func(*options)

type options struct {
	viewport          Viewport
	logger            *slog.Logger
	font              *text.FontSource
	stalePresentation bool
	observer          func(Size)
	decode            func([]byte) (image.Image, error)
}

func defaultOptions() options {
	return options{
		viewport: Viewport{Width: DefaultViewportWidth},
		decode:   decodeSelection,
	}
}

// WithViewportWidth sets the viewport width used to size the initial surface
// and to bound the presentation size.
func WithViewportWidth(width int) Option {
	return func(o *options) {
		o.viewport = Viewport{Width: width}
	}
}

// WithLogger sets the logger for this composer instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFontSource sets the caption font. The default is Go Regular.
func WithFontSource(src *text.FontSource) Option {
	return func(o *options) {
		o.font = src
	}
}

// WithStalePresentation computes the presentation size of a newly loaded image
// from the surface resolution at the time the render was dispatched, which is
// the previous image's. The resize is applied once the file has been read,
// so it also happens when the image then fails to decode.
func WithStalePresentation(stale bool) Option {
	return func(o *options) {
		o.stalePresentation = stale
	}
}

// WithDisplayObserver registers fn to be called with every display size the
// composer applies, including each intermediate halving. fn is called with
// the composer locked and must not call back into it.
func WithDisplayObserver(fn func(Size)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

func decodeSelection(data []byte) (image.Image, error) {
	img, _, err := DecodeImageBytes(data)
	return img, err
}

// Composer renders an uploaded image with a top and a bottom caption.
//
// Every caption edit or file selection starts a render. Renders decode on
// their own goroutine and are tagged with a generation; a render whose
// generation has been superseded by the time it completes is discarded.
type Composer struct {
	opts options
	gen  atomic.Uint64

	mu       sync.Mutex
	surface  *Surface
	top      string
	bottom   string
	file     *File
	source   image.Image
	marks    FieldErrors
	download Download
}

// NewComposer returns a composer with a blank surface sized for the viewport.
func NewComposer(opts ...Option) *Composer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Composer{opts: o}
	c.surface = newSurface(o.viewport.InitialSurface())
	return c
}

func (c *Composer) logger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return Logger()
}

// SetTopText updates the top caption and re-renders.
func (c *Composer) SetTopText(ctx context.Context, s string) *Job {
	c.mu.Lock()
	c.top = s
	c.mu.Unlock()
	return c.Render(ctx)
}

// SetBottomText updates the bottom caption and re-renders.
func (c *Composer) SetBottomText(ctx context.Context, s string) *Job {
	c.mu.Lock()
	c.bottom = s
	c.mu.Unlock()
	return c.Render(ctx)
}

// SelectFile replaces the file selection and re-renders. A nil file clears
// the selection: the surface keeps its current contents and renders still in
// flight for the previous file are discarded.
func (c *Composer) SelectFile(ctx context.Context, f *File) *Job {
	c.mu.Lock()
	c.file = f
	if f == nil {
		c.gen.Add(1)
	}
	c.mu.Unlock()
	return c.Render(ctx)
}

// SetViewportWidth updates the viewport width. Later presentation resizes use
// the new bound; a surface that has not had an image applied yet is resized
// to the new initial size.
func (c *Composer) SetViewportWidth(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts.viewport = Viewport{Width: width}
	if c.source == nil {
		c.surface = newSurface(c.opts.viewport.InitialSurface())
		c.notify(c.surface.display)
	}
}

// Render starts composing the selected file with the current captions. With
// no file selected it does nothing and returns a completed, skipped job.
func (c *Composer) Render(ctx context.Context) *Job {
	c.mu.Lock()
	file := c.file
	if file == nil {
		c.mu.Unlock()
		return completedJob(Result{Skipped: true})
	}
	gen := c.gen.Add(1)
	dispatched := c.surface.resolution()
	c.mu.Unlock()

	c.logger().Debug("meme: render dispatched", "generation", gen, "file", file.Name)

	job := newJob()
	go func() {
		job.finish(c.compose(ctx, gen, file, dispatched))
	}()
	return job
}

func (c *Composer) compose(ctx context.Context, gen uint64, file *File, dispatched Size) Result {
	res := Result{Generation: gen}

	img, err := c.opts.decode(file.Data)
	if err != nil {
		c.logger().Warn("meme: image could not be decoded", "generation", gen, "file", file.Name, "error", err)
		res.Err = fmt.Errorf("%s: %w", file.Name, err)
		if c.opts.stalePresentation {
			c.mu.Lock()
			if gen == c.gen.Load() {
				res.Presentation = c.presentationResize(dispatched.Height, dispatched.Width)
			}
			c.mu.Unlock()
		}
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if current := c.gen.Load(); gen != current {
		c.logger().Debug("meme: discarding stale render", "generation", gen, "current", current)
		res.Stale = true
		return res
	}

	if err := c.drawComposite(img); err != nil {
		res.Err = err
		return res
	}

	dims := c.surface.resolution()
	if c.opts.stalePresentation {
		dims = dispatched
	}

	res.Top = captionText(c.top)
	res.Bottom = captionText(c.bottom)
	res.Width, res.Height = c.surface.Width(), c.surface.Height()
	res.Presentation = c.presentationResize(dims.Height, dims.Width)

	c.logger().Debug("meme: render applied",
		"generation", gen,
		"width", res.Width,
		"height", res.Height,
		"display_width", res.Presentation.Width,
		"display_height", res.Presentation.Height,
	)
	return res
}

// drawComposite resizes the surface to img, draws it at the origin and adds
// both captions. The caller holds c.mu.
func (c *Composer) drawComposite(img image.Image) error {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid image dimensions %dx%d", ErrDecode, width, height)
	}

	src := c.opts.font
	if src == nil {
		var err error
		if src, err = defaultFontSource(); err != nil {
			return fmt.Errorf("load caption font: %w", err)
		}
	}

	captions := newCaptionRenderer(src, captionStyleFor(width, height))
	layer, err := captions.render(width, height, captionText(c.top), captionText(c.bottom))
	if err != nil {
		return err
	}

	c.surface.resize(width, height)
	c.surface.clear()
	c.surface.drawImage(img)
	if layer != nil {
		c.surface.drawImage(layer)
	}
	c.source = img
	return nil
}

// PresentationResize displays the surface at width x height, then halves both
// dimensions for as long as both exceed min(1000, viewport width - 30). It
// returns the final display size. An image with one side under the bound is
// never shrunk.
func (c *Composer) PresentationResize(height, width float64) Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presentationResize(height, width)
}

func (c *Composer) presentationResize(height, width float64) Size {
	for _, size := range presentationSizes(height, width, c.opts.viewport.PresentationThreshold()) {
		c.surface.display = size
		c.notify(size)
	}
	return c.surface.display
}

func (c *Composer) notify(size Size) {
	if c.opts.observer != nil {
		c.opts.observer(size)
	}
}

// SurfaceSize returns the surface resolution.
func (c *Composer) SurfaceSize() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface.Width(), c.surface.Height()
}

// Display returns the current presentation size.
func (c *Composer) Display() Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface.Display()
}

// Image returns a copy of the surface pixels.
func (c *Composer) Image() *image.NRGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return imaging.Clone(c.surface.pix)
}

// Viewport returns the configured viewport.
func (c *Composer) Viewport() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.viewport
}

// Result describes the outcome of a render.
type Result struct {
	Generation uint64
	// Skipped is set when no file was selected.
	Skipped bool
	// Stale is set when a newer render started before this one completed;
	// the surface was left untouched.
	Stale bool

	// Captions as drawn.
	Top, Bottom string

	// Surface resolution after the render.
	Width, Height int
	// Presentation is the display size applied by the render, if any.
	Presentation Size

	Err error
}

// Job is a render in flight.
type Job struct {
	done chan struct{}
	res  Result
}

func newJob() *Job {
	return &Job{done: make(chan struct{})}
}

func completedJob(res Result) *Job {
	j := newJob()
	j.finish(res)
	return j
}

func (j *Job) finish(res Result) {
	j.res = res
	close(j.done)
}

// Done is closed when the render has completed or been discarded.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the render completes and returns its result.
func (j *Job) Wait() Result {
	<-j.done
	return j.res
}
