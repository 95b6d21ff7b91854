package tetra

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// maxPendingTaps bounds the tap queue; older taps win when it is full.
const maxPendingTaps = 8

// TapSource yields tap coordinates in screen space. PollTap is called once
// per tick and returns the oldest pending tap, if any.
type TapSource interface {
	PollTap() (x, y int, ok bool)
}

// PointerTaps is a TapSource reading Ebitengine mouse clicks and touches.
// Coordinates are in the layout space returned by School.Layout, which is
// the panel's pixel space.
type PointerTaps struct {
	queue    []image.Point
	touchIDs []ebiten.TouchID
}

// NewPointerTaps creates a pointer tap source.
func NewPointerTaps() *PointerTaps {
	return &PointerTaps{queue: make([]image.Point, 0, maxPendingTaps)}
}

// PollTap collects new presses and pops the oldest pending tap.
func (p *PointerTaps) PollTap() (int, int, bool) {
	p.collect()
	if len(p.queue) == 0 {
		return 0, 0, false
	}
	pt := p.queue[0]
	copy(p.queue, p.queue[1:])
	p.queue = p.queue[:len(p.queue)-1]
	return pt.X, pt.Y, true
}

// collect queues this frame's new left-button presses and touches.
func (p *PointerTaps) collect() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		p.push(x, y)
	}
	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := ebiten.TouchPosition(id)
		p.push(x, y)
	}
}

func (p *PointerTaps) push(x, y int) {
	if len(p.queue) >= maxPendingTaps {
		return
	}
	p.queue = append(p.queue, image.Pt(x, y))
}

// InjectTap queues a synthetic tap at screen coordinates. Injected taps are
// consumed before real pointer input, one per tick.
func (s *School) InjectTap(x, y int) {
	s.injectQueue = append(s.injectQueue, image.Pt(x, y))
}

// pollTap returns the tap to process this tick: an injected one first,
// otherwise one from the tap source.
func (s *School) pollTap() (int, int, bool) {
	if len(s.injectQueue) > 0 {
		pt := s.injectQueue[0]
		copy(s.injectQueue, s.injectQueue[1:])
		s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
		return pt.X, pt.Y, true
	}
	if s.taps == nil {
		return 0, 0, false
	}
	return s.taps.PollTap()
}

// HandleTap reverses the first fish (in list order) whose current footprint
// contains (x, y) and starts its turn. A fish that is already turning
// ignores the tap. It returns the ID of the fish reversed.
func (s *School) HandleTap(x, y int) (int, bool) {
	for _, e := range s.entities {
		if !e.Contains(x, y) {
			continue
		}
		if e.Turning() {
			return -1, false
		}
		start := e.Facing
		e.Vel = Vec2{X: -e.Vel.X, Y: -e.Vel.Y}
		s.integrator.openTurn(e, start.Opposite())
		emit(s.relay, Event{
			Type:     EventTapped,
			EntityID: e.ID,
			X:        float64(x),
			Y:        float64(y),
			Facing:   e.Facing,
		})
		return e.ID, true
	}
	return -1, false
}
