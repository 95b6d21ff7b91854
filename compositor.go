package tetra

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrBufferAlloc is returned by buffer allocators that cannot provide an
// off-screen buffer of the requested size.
var ErrBufferAlloc = errors.New("tetra: buffer allocation failed")

// DrawOp records one sprite drawn into the off-screen buffer.
type DrawOp struct {
	EntityID int
	Pose     PoseKey
	Dst      image.Rectangle // buffer-relative destination
	Scaled   bool            // destination size differs from the sprite's native size
}

// CompositorStats counts compositor work since creation.
type CompositorStats struct {
	Composed  int             // frames blitted to the surface
	Skipped   int             // frames skipped for an empty rect or a failed allocation
	Reallocs  int             // off-screen buffer (re)allocations
	LastRect  image.Rectangle // dirty rectangle of the last composed frame
	DirtyArea int             // total pixels blitted
}

// Compositor merges every fish into one off-screen buffer covering the dirty
// rectangle and blits that buffer to the surface once per tick.
type Compositor struct {
	cfg     *Config
	sprites *SpriteCache
	sink    EventSink

	backdrop *ebiten.Image

	buffer     *ebiten.Image
	bufW, bufH int
	alloc      func(w, h int) (*ebiten.Image, error)

	order []int
	ops   []DrawOp
	stats CompositorStats
	debug bool
}

// NewCompositor creates a compositor drawing sprites from the cache.
// sink may be nil.
func NewCompositor(cfg *Config, sprites *SpriteCache, sink EventSink) *Compositor {
	c := &Compositor{
		cfg:     cfg,
		sprites: sprites,
		sink:    sink,
		order:   make([]int, 0, cfg.Count),
		ops:     make([]DrawOp, 0, cfg.Count),
	}
	c.alloc = c.allocate
	return c
}

// SetBackdrop sets a pre-rendered background drawn under the fish. The
// backdrop is sampled at screen coordinates. nil restores the solid
// Config.Background.
func (c *Compositor) SetBackdrop(img *ebiten.Image) {
	c.backdrop = img
}

// SetAllocator overrides how off-screen buffers are created. Used to
// simulate allocation failures.
func (c *Compositor) SetAllocator(fn func(w, h int) (*ebiten.Image, error)) {
	if fn == nil {
		fn = c.allocate
	}
	c.alloc = fn
}

// SetDebugMode enables logging of buffer reallocations.
func (c *Compositor) SetDebugMode(enabled bool) {
	c.debug = enabled
}

// Ops returns the draw list of the last composed frame. The returned slice
// MUST NOT be mutated.
func (c *Compositor) Ops() []DrawOp {
	return c.ops
}

// Stats returns the compositor counters.
func (c *Compositor) Stats() CompositorStats {
	return c.stats
}

// BufferSize returns the current off-screen buffer dimensions.
func (c *Compositor) BufferSize() (int, int) {
	return c.bufW, c.bufH
}

// DirtyRect returns the union of every entity's previous and current
// footprint, grown by Config.DirtyMargin and clipped to bounds.
func (c *Compositor) DirtyRect(entities []*Entity, bounds image.Rectangle) image.Rectangle {
	var r image.Rectangle
	for _, e := range entities {
		r = r.Union(e.PrevFootprint).Union(e.CurrFootprint)
	}
	return rectInset(r, c.cfg.DirtyMargin).Intersect(bounds)
}

// Clear repaints the whole surface with the background color and the
// backdrop, then presents it. Compose only touches dirty rectangles, so a
// fresh surface is cleared once before the first frame.
func (c *Compositor) Clear(surface Surface) image.Rectangle {
	bounds := image.Rect(0, 0, surface.Width(), surface.Height())
	surface.FillColor(bounds, c.cfg.Background)
	if c.backdrop != nil {
		surface.Blit(c.backdrop.SubImage(c.backdrop.Bounds().Intersect(bounds)).(*ebiten.Image), 0, 0)
	}
	surface.Present(bounds)
	return bounds
}

// Compose redraws the dirty rectangle of surface. It returns the rectangle
// blitted and true, or false when the frame was skipped. On success every
// entity's current footprint becomes its previous one.
func (c *Compositor) Compose(entities []*Entity, surface Surface) (image.Rectangle, bool) {
	bounds := image.Rect(0, 0, surface.Width(), surface.Height())
	rect := c.DirtyRect(entities, bounds)
	if rect.Empty() {
		c.stats.Skipped++
		return image.Rectangle{}, false
	}

	if err := c.ensureBuffer(rect); err != nil {
		// Keep previous footprints so the next frame still repaints them.
		log.Printf("tetra: skipping frame, keeping %dx%d buffer: %v", c.bufW, c.bufH, err)
		c.stats.Skipped++
		return image.Rectangle{}, false
	}

	c.paintBackground(rect)
	c.drawEntities(entities, rect)

	surface.Blit(c.buffer, rect.Min.X, rect.Min.Y)
	surface.Present(rect)

	for _, e := range entities {
		e.PrevFootprint = e.CurrFootprint
	}
	c.stats.Composed++
	c.stats.LastRect = rect
	c.stats.DirtyArea += rect.Dx() * rect.Dy()
	return rect, true
}

// ensureBuffer reallocates the off-screen buffer only when the rectangle's
// size differs from the current buffer.
func (c *Compositor) ensureBuffer(rect image.Rectangle) error {
	w, h := rect.Dx(), rect.Dy()
	if c.buffer != nil && w == c.bufW && h == c.bufH {
		return nil
	}
	img, err := c.alloc(w, h)
	if err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("%w: allocator returned no image for %dx%d", ErrBufferAlloc, w, h)
	}
	if c.buffer != nil {
		c.buffer.Deallocate()
	}
	c.buffer, c.bufW, c.bufH = img, w, h
	c.stats.Reallocs++
	if c.debug {
		log.Printf("tetra: buffer resized: %d x %d", w, h)
	}
	emit(c.sink, Event{Type: EventBufferResized, EntityID: -1, Rect: rect})
	return nil
}

// allocate is the default allocator. It enforces Config.MaxBufferPixels and
// converts an allocation panic into ErrBufferAlloc.
func (c *Compositor) allocate(w, h int) (img *ebiten.Image, err error) {
	if w <= 0 || h <= 0 || w*h > c.cfg.maxBufferPixels() {
		return nil, fmt.Errorf("%w: %dx%d exceeds limit of %d pixels", ErrBufferAlloc, w, h, c.cfg.maxBufferPixels())
	}
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("%w: %dx%d: %v", ErrBufferAlloc, w, h, r)
		}
	}()
	return ebiten.NewImage(w, h), nil
}

// paintBackground fills the buffer with the background color and, when set,
// the matching region of the backdrop.
func (c *Compositor) paintBackground(rect image.Rectangle) {
	c.buffer.Fill(c.cfg.Background.RGBA())
	if c.backdrop == nil {
		return
	}
	src := rect.Intersect(c.backdrop.Bounds())
	if src.Empty() {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(src.Min.X-rect.Min.X), float64(src.Min.Y-rect.Min.Y))
	c.buffer.DrawImage(c.backdrop.SubImage(src).(*ebiten.Image), &op)
}

// drawEntities paints every fish in depth order. Transparent (color-keyed)
// sprite pixels leave the background untouched.
func (c *Compositor) drawEntities(entities []*Entity, rect image.Rectangle) {
	c.ops = c.ops[:0]
	c.order = DrawOrder(c.cfg, entities, c.order)
	for _, i := range c.order {
		e := entities[i]
		if e.CurrFootprint.Empty() {
			continue
		}
		img := c.sprites.Sprite(e.Pose)
		dst := e.CurrFootprint.Sub(rect.Min)
		sb := img.Bounds()

		var op ebiten.DrawImageOptions
		scaled := sb.Dx() != dst.Dx() || sb.Dy() != dst.Dy()
		if scaled {
			op.GeoM.Scale(float64(dst.Dx())/float64(sb.Dx()), float64(dst.Dy())/float64(sb.Dy()))
			op.Filter = ebiten.FilterLinear
		}
		op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
		c.buffer.DrawImage(img, &op)

		c.ops = append(c.ops, DrawOp{EntityID: e.ID, Pose: e.Pose, Dst: dst, Scaled: scaled})
	}
}
