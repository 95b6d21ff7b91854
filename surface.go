package tetra

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is the display the compositor writes to. Blit is the only pixel
// write per tick; Present tells the display which rectangle changed.
// FillColor is used once, for the full-screen clear before the first frame.
type Surface interface {
	Blit(img *ebiten.Image, x, y int)
	Present(rect image.Rectangle)
	FillColor(rect image.Rectangle, c Color)
	Width() int
	Height() int
}

// Panel is a Surface backed by a persistent ebiten.Image, standing in for
// the framebuffer of a small display. Pixels survive between frames, so
// only presented rectangles ever change.
type Panel struct {
	img *ebiten.Image

	damage   image.Rectangle // union of rectangles presented since ResetDamage
	presents int
	area     int
}

// NewPanel creates a w x h panel filled with bg.
func NewPanel(w, h int, bg Color) *Panel {
	p := &Panel{img: ebiten.NewImage(w, h)}
	p.img.Fill(bg.RGBA())
	return p
}

// Width returns the panel width in pixels.
func (p *Panel) Width() int { return p.img.Bounds().Dx() }

// Height returns the panel height in pixels.
func (p *Panel) Height() int { return p.img.Bounds().Dy() }

// Blit copies img onto the panel with its top-left corner at (x, y).
// Pixels of img replace the panel's, alpha included.
func (p *Panel) Blit(img *ebiten.Image, x, y int) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(x), float64(y))
	op.Blend = ebiten.BlendCopy
	p.img.DrawImage(img, &op)
}

// FillColor fills rect, clipped to the panel, with c.
func (p *Panel) FillColor(rect image.Rectangle, c Color) {
	rect = rect.Intersect(p.img.Bounds())
	if rect.Empty() {
		return
	}
	p.img.SubImage(rect).(*ebiten.Image).Fill(c.RGBA())
}

// Present records rect as updated on the panel.
func (p *Panel) Present(rect image.Rectangle) {
	rect = rect.Intersect(p.img.Bounds())
	if rect.Empty() {
		return
	}
	p.damage = p.damage.Union(rect)
	p.presents++
	p.area += rect.Dx() * rect.Dy()
}

// Damage returns the union of rectangles presented since the last
// ResetDamage, and how many presents contributed to it.
func (p *Panel) Damage() (image.Rectangle, int) {
	return p.damage, p.presents
}

// ResetDamage clears the damage accumulator.
func (p *Panel) ResetDamage() {
	p.damage = image.Rectangle{}
	p.presents = 0
}

// PresentedArea returns the total number of pixels presented over the
// panel's lifetime.
func (p *Panel) PresentedArea() int {
	return p.area
}

// Image returns the panel's backing image. The returned image MUST NOT be
// written to outside of the Surface methods.
func (p *Panel) Image() *ebiten.Image {
	return p.img
}

// Draw copies the panel onto screen, scaled to fit.
func (p *Panel) Draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	sb := screen.Bounds()
	if sb.Dx() != p.Width() || sb.Dy() != p.Height() {
		op.GeoM.Scale(float64(sb.Dx())/float64(p.Width()), float64(sb.Dy())/float64(p.Height()))
	}
	op.Blend = ebiten.BlendCopy
	screen.DrawImage(p.img, &op)
}

// Snapshot reads the panel back as straight-alpha pixels.
func (p *Panel) Snapshot() *image.NRGBA {
	w, h := p.Width(), p.Height()
	pixels := make([]byte, 4*w*h)
	p.img.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}
