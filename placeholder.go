package tetra

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	placeholderBody   = color.RGBA{R: 0xb8, G: 0xc8, B: 0xd8, A: 0xff}
	placeholderStripe = color.RGBA{R: 0x20, G: 0xe0, B: 0xff, A: 0xff}
	placeholderBelly  = color.RGBA{R: 0xe8, G: 0x20, B: 0x30, A: 0xff}
	placeholderFin    = color.RGBA{R: 0xd0, G: 0xd8, B: 0xe0, A: 0xc0}
	placeholderEye    = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
)

// newPlaceholder draws a simple fish for key on a transparent w x h image.
// Swim poses wag the tail by frame; turn poses foreshorten the body by yaw.
func newPlaceholder(key PoseKey, w, h int) *ebiten.Image {
	img := ebiten.NewImage(max(w, 1), max(h, 1))

	yaw := float64(profileYaw(key.Facing))
	wag := 0.0
	if key.Kind == PoseTurn {
		yaw = float64(key.Yaw)
	} else {
		wag = math.Sin(float64(key.Frame) * math.Pi / 3)
	}
	rad := yaw * math.Pi / 180
	side := math.Sin(rad)  // +1 right profile, -1 left profile
	front := math.Cos(rad) // +1 front-on, -1 tail-on
	extent := math.Max(math.Abs(side), 0.25)

	fw, fh := float32(w), float32(h)
	cx, cy := fw/2, fh/2
	thick := fh * 0.45
	length := fw * 0.7 * float32(extent)
	if length < thick {
		length = thick
	}
	r := thick / 2

	dir := float32(1)
	if side < 0 {
		dir = -1
	}

	// Tail fin behind the body, hidden when seen head-on.
	if front < 0.7 {
		tailX := cx - dir*length/2
		off := float32(wag) * fh * 0.05
		for i := 0; i < 3; i++ {
			step := float32(i) * fw * 0.03
			fin := thick * (0.9 - 0.25*float32(i))
			x := tailX - dir*step
			if dir > 0 {
				x -= fw * 0.03
			}
			vector.DrawFilledRect(img, x, cy-fin/2+off, fw*0.03, fin, placeholderFin, false)
		}
	}

	// Body capsule.
	vector.DrawFilledRect(img, cx-length/2+r, cy-r, length-thick, thick, placeholderBody, false)
	vector.DrawFilledCircle(img, cx-length/2+r, cy, r, placeholderBody, false)
	vector.DrawFilledCircle(img, cx+length/2-r, cy, r, placeholderBody, false)

	// Neon stripe along the upper body and red belly toward the tail.
	vector.DrawFilledRect(img, cx-length/2+r, cy-thick*0.2, length-thick, thick*0.15, placeholderStripe, false)
	bellyW := (length - thick) / 2
	bellyX := cx
	if dir > 0 {
		bellyX = cx - bellyW
	}
	vector.DrawFilledRect(img, bellyX, cy, bellyW, thick*0.3, placeholderBelly, false)

	// Eyes: one on the head side in profile, two when facing the viewer.
	eyeR := thick * 0.08
	if front > 0.7 {
		vector.DrawFilledCircle(img, cx-length*0.2, cy-thick*0.1, eyeR, placeholderEye, false)
		vector.DrawFilledCircle(img, cx+length*0.2, cy-thick*0.1, eyeR, placeholderEye, false)
	} else if front > -0.7 {
		vector.DrawFilledCircle(img, cx+dir*(length/2-r*0.7), cy-thick*0.1, eyeR, placeholderEye, false)
	}
	return img
}
