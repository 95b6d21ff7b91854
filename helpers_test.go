package tetra

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// testConfig returns a small, deterministic configuration with random
// perturbation disabled.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ScreenWidth, cfg.ScreenHeight = 320, 240
	cfg.SpriteWidth, cfg.SpriteHeight = 40, 20
	cfg.Count = 3
	cfg.SpawnMargin = 10
	cfg.PerturbChance = 0
	cfg.Rand = NewRand(1)
	return cfg
}

// newTestEntity builds an idle fish at (x, y) whose footprint is current.
func newTestEntity(cfg *Config, id int, x, y, vx, vy float64) *Entity {
	e := &Entity{
		ID:        id,
		Pos:       Vec2{X: x, Y: y},
		Vel:       Vec2{X: vx, Y: vy},
		Facing:    facingFor(vx, FacingRight),
		SwimSpeed: 1,
	}
	e.updateFootprint(cfg)
	e.PrevFootprint = e.CurrFootprint
	return e
}

// newTestSchool creates a school with pointer input disabled.
func newTestSchool(cfg Config) *School {
	s, err := NewSchool(cfg, nil)
	if err != nil {
		panic(err)
	}
	s.SetTapSource(nil)
	return s
}

// testStore returns an in-memory store holding a sprite of native size for
// every pose the animator can produce.
func testStore(cfg *Config) MapStore {
	a := NewAnimator(cfg, cfg.Rand, nil)
	store := make(MapStore)
	for _, k := range a.Poses() {
		store[k.Name()] = ebiten.NewImage(cfg.SpriteWidth, cfg.SpriteHeight)
	}
	return store
}

type blitCall struct {
	w, h, x, y int
}

// recordingSurface is a Surface that records calls instead of drawing.
type recordingSurface struct {
	w, h     int
	blits    []blitCall
	presents []image.Rectangle
	fills    []image.Rectangle
}

func newRecordingSurface(w, h int) *recordingSurface {
	return &recordingSurface{w: w, h: h}
}

func (s *recordingSurface) Blit(img *ebiten.Image, x, y int) {
	b := img.Bounds()
	s.blits = append(s.blits, blitCall{w: b.Dx(), h: b.Dy(), x: x, y: y})
}

func (s *recordingSurface) Present(rect image.Rectangle) {
	s.presents = append(s.presents, rect)
}

func (s *recordingSurface) FillColor(rect image.Rectangle, _ Color) {
	s.fills = append(s.fills, rect)
}

func (s *recordingSurface) Width() int  { return s.w }
func (s *recordingSurface) Height() int { return s.h }

// eventLog collects emitted events.
type eventLog struct {
	events []Event
}

func (l *eventLog) EmitEvent(ev Event) {
	l.events = append(l.events, ev)
}

func (l *eventLog) count(t EventType) int {
	n := 0
	for _, ev := range l.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// fixedRand returns the same values on every call.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) IntN(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}
