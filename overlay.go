package tetra

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// StatsOverlay shows FPS, TPS and compositor counters in the window corner.
// It is drawn onto the window, never onto the panel, so it does not disturb
// the dirty-rectangle bookkeeping.
type StatsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
	dirty      bool
}

// NewStatsOverlay creates an overlay. It refreshes its text about every
// half second.
func NewStatsOverlay() *StatsOverlay {
	// 180x64 is enough for four lines of debug text.
	return &StatsOverlay{img: ebiten.NewImage(180, 64), dirty: true}
}

func (o *StatsOverlay) update(dt float64, stats CompositorStats) {
	o.lastUpdate += dt
	if o.lastUpdate < 0.5 && !o.dirty {
		return
	}
	o.lastUpdate = 0
	o.dirty = false

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf(
		"FPS: %.1f\nTPS: %.1f\nrect: %dx%d\nreallocs: %d skipped: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		stats.LastRect.Dx(), stats.LastRect.Dy(),
		stats.Reallocs, stats.Skipped))
}

func (o *StatsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
