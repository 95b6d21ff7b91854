package tetra

import (
	"fmt"
	"image"
	"os"
	"time"
)

// tickStats holds per-tick timing metrics.
// Only populated when School.debug is true.
type tickStats struct {
	integrateTime time.Duration
	animateTime   time.Duration
	depthTime     time.Duration
	turning       int
}

// debugLogTick prints tick timing stats to stderr.
func (s *School) debugLogTick(stats tickStats) {
	if !s.debug {
		return
	}
	total := stats.integrateTime + stats.animateTime + stats.depthTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[tetra] tick %d | integrate: %v | animate: %v | depth: %v | total: %v | turning: %d/%d\n",
		s.ticks, stats.integrateTime, stats.animateTime, stats.depthTime, total,
		stats.turning, len(s.entities))
}

// debugLogCompose prints compositor timing and dirty-rect stats to stderr.
func (s *School) debugLogCompose(d time.Duration, rect image.Rectangle, ok bool) {
	if !s.debug {
		return
	}
	if !ok {
		_, _ = fmt.Fprintf(os.Stderr, "[tetra] compose: skipped in %v\n", d)
		return
	}
	bw, bh := s.compositor.BufferSize()
	_, _ = fmt.Fprintf(os.Stderr,
		"[tetra] compose: %v | rect: %v (%d px, %.1f%% of screen) | buffer: %dx%d | draws: %d\n",
		d, rect, rect.Dx()*rect.Dy(), screenShare(rect, s.cfg.ScreenWidth, s.cfg.ScreenHeight),
		bw, bh, len(s.compositor.Ops()))
}

// screenShare returns the percentage of the screen covered by rect.
func screenShare(rect image.Rectangle, w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	return 100 * float64(rect.Dx()*rect.Dy()) / float64(w*h)
}

func countTurning(entities []*Entity) int {
	n := 0
	for _, e := range entities {
		if e.Turning() {
			n++
		}
	}
	return n
}
