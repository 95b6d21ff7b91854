package tetra

import (
	"image"
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorDodgerBlue is the default water color.
var ColorDodgerBlue = Color{R: 30.0 / 255.0, G: 144.0 / 255.0, B: 1, A: 1}

// ColorKeyGreen is the default transparent key baked into sprite assets.
var ColorKeyGreen = Color{R: 0, G: 1, B: 0, A: 1}

// RGBA converts c to a straight 8-bit color. Components are clamped to [0, 1].
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R)*clamp01(c.A)*255 + 0.5),
		G: uint8(clamp01(c.G)*clamp01(c.A)*255 + 0.5),
		B: uint8(clamp01(c.B)*clamp01(c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// NRGBA converts c to a non-premultiplied 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for positions and velocities.
type Vec2 struct {
	X, Y float64
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// finite reports whether both components are finite numbers.
func (v Vec2) finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// IsZero reports whether both bounds are zero.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Random returns a uniform value in [Min, Max).
func (r Range) Random(rng Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Facing is the committed horizontal direction of a fish.
type Facing uint8

const (
	FacingLeft  Facing = iota // head pointing toward -X
	FacingRight               // head pointing toward +X
)

// Opposite returns the other facing.
func (f Facing) Opposite() Facing {
	if f == FacingLeft {
		return FacingRight
	}
	return FacingLeft
}

func (f Facing) String() string {
	if f == FacingRight {
		return "right"
	}
	return "left"
}

// facingFor maps a horizontal velocity to a facing. Positive X faces right,
// negative X faces left and zero keeps the current facing.
func facingFor(vx float64, current Facing) Facing {
	switch {
	case vx > 0:
		return FacingRight
	case vx < 0:
		return FacingLeft
	default:
		return current
	}
}

// rectInset grows r by margin pixels on every side.
func rectInset(r image.Rectangle, margin int) image.Rectangle {
	if r.Empty() {
		return r
	}
	return image.Rect(r.Min.X-margin, r.Min.Y-margin, r.Max.X+margin, r.Max.Y+margin)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
