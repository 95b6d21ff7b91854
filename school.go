package tetra

import (
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// eventRelay lets SetEventSink swap the sink after the components that emit
// events were built.
type eventRelay struct {
	sink EventSink
}

func (r *eventRelay) EmitEvent(event Event) {
	if r.sink != nil {
		r.sink.EmitEvent(event)
	}
}

// School is the top-level object that owns the fish, the per-tick systems
// and the compositor. It implements ebiten.Game; see Run.
//
// A tick polls at most one tap, then runs the Integrator, the Animator and
// the DepthModel over every fish and records their footprints. Drawing is
// separate: Compose writes the dirty rectangle to a Surface. Everything runs
// on one goroutine; School is not safe for concurrent use.
type School struct {
	cfg      Config
	rng      Rand
	entities []*Entity

	integrator *Integrator
	animator   *Animator
	depth      *DepthModel
	sprites    *SpriteCache
	compositor *Compositor

	relay       *eventRelay
	taps        TapSource
	injectQueue []image.Point

	panel      *Panel
	overlay    *StatsOverlay
	cleared    bool // the surface has had its full-screen clear
	pending    bool // a tick ran since the last successful compose
	debug      bool
	now        func() time.Time
	lastUpdate time.Time
	ticks      uint64
	updateFunc func() error

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string
	testRunner      *TestRunner
}

// NewSchool validates cfg, spawns cfg.Count fish and wires the per-tick
// systems. store may be nil; missing sprites are drawn as placeholders.
func NewSchool(cfg Config, store AssetStore) (*School, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := cfg.Rand
	if rng == nil {
		rng = NewRand(cfg.Seed)
	}

	s := &School{
		cfg:           cfg,
		rng:           rng,
		relay:         &eventRelay{},
		taps:          NewPointerTaps(),
		now:           time.Now,
		pending:       true,
		ScreenshotDir: "screenshots",
	}
	c := &s.cfg
	s.entities = SpawnSchool(c, rng)
	s.integrator = NewIntegrator(c, rng, s.relay)
	s.animator = NewAnimator(c, rng, s.relay)
	s.depth = NewDepthModel(c, rng)
	s.sprites = NewSpriteCache(store, c.SpriteWidth, c.SpriteHeight)
	s.compositor = NewCompositor(c, s.sprites, s.relay)
	for _, e := range s.entities {
		e.Pose = s.animator.Pose(e)
	}
	return s, nil
}

// Config returns a copy of the school's configuration.
func (s *School) Config() Config {
	return s.cfg
}

// Entities returns the fish. The slice MUST NOT be resized; the fish may
// be inspected between ticks.
func (s *School) Entities() []*Entity {
	return s.entities
}

// Animator returns the school's animator.
func (s *School) Animator() *Animator {
	return s.animator
}

// Compositor returns the school's compositor.
func (s *School) Compositor() *Compositor {
	return s.compositor
}

// Sprites returns the sprite cache.
func (s *School) Sprites() *SpriteCache {
	return s.sprites
}

// SetEventSink sets the optional event destination. nil disables events.
func (s *School) SetEventSink(sink EventSink) {
	s.relay.sink = sink
}

// SetTapSource replaces the default pointer tap source. nil disables
// pointer input; injected taps still work.
func (s *School) SetTapSource(src TapSource) {
	s.taps = src
}

// SetBackdrop sets the pre-rendered background image. The next Compose
// repaints the whole surface.
func (s *School) SetBackdrop(img *ebiten.Image) {
	s.compositor.SetBackdrop(img)
	s.cleared = false
}

// SetDebugMode enables or disables debug mode. When enabled, per-tick
// timing stats and buffer reallocations are logged to stderr.
func (s *School) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.compositor.SetDebugMode(enabled)
}

// SetUpdateFunc registers a callback run at the start of every Update,
// before the tick. Returning an error (e.g. ebiten.Termination) stops Run.
func (s *School) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Preload resolves every pose sprite up front and returns how many fell
// back to placeholders.
func (s *School) Preload() int {
	return s.sprites.Preload(s.animator.Poses())
}

// Tick advances the school by dt seconds. A pending tap is handled first,
// even when dt is rejected. Non-finite or non-positive dt moves nothing;
// dt above Config.MaxDelta is clamped.
func (s *School) Tick(dt float64) {
	if x, y, ok := s.pollTap(); ok {
		s.HandleTap(x, y)
	}
	dt, ok := clampDelta(dt, s.cfg.MaxDelta)
	if !ok {
		return
	}

	var stats tickStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.integrator.Step(s.entities, dt)
	if s.debug {
		stats.integrateTime = time.Since(t0)
		t0 = time.Now()
	}

	s.animator.Step(s.entities, dt)
	if s.debug {
		stats.animateTime = time.Since(t0)
		t0 = time.Now()
	}

	s.depth.Step(s.entities, dt)
	for _, e := range s.entities {
		e.updateFootprint(&s.cfg)
	}
	s.ticks++
	s.pending = true

	if s.debug {
		stats.depthTime = time.Since(t0)
		stats.turning = countTurning(s.entities)
		s.debugLogTick(stats)
	}
}

// Compose redraws the changed part of surface. See Compositor.Compose.
// The first call clears the whole surface. Without a tick since the last
// successful call nothing changed, so it returns an empty rectangle and
// false without touching the surface.
func (s *School) Compose(surface Surface) (image.Rectangle, bool) {
	if !s.cleared {
		s.compositor.Clear(surface)
		s.cleared = true
	}
	if !s.pending {
		return image.Rectangle{}, false
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	rect, ok := s.compositor.Compose(s.entities, surface)
	if ok {
		s.pending = false
	}
	if s.debug {
		s.debugLogCompose(time.Since(t0), rect, ok)
	}
	return rect, ok
}

// Ticks returns the number of ticks that advanced the school.
func (s *School) Ticks() uint64 {
	return s.ticks
}

// Panel returns the surface used by Draw, creating it on first use.
func (s *School) Panel() *Panel {
	if s.panel == nil {
		s.panel = NewPanel(s.cfg.ScreenWidth, s.cfg.ScreenHeight, s.cfg.Background)
	}
	return s.panel
}

// Update implements ebiten.Game. The tick delta is the wall-clock time since
// the previous Update.
func (s *School) Update() error {
	now := s.now()
	dt := 1.0 / float64(ebiten.TPS())
	if !s.lastUpdate.IsZero() {
		dt = now.Sub(s.lastUpdate).Seconds()
	}
	s.lastUpdate = now

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}
	s.Tick(dt)
	if s.overlay != nil {
		s.overlay.update(dt, s.compositor.Stats())
	}
	return nil
}

// Draw implements ebiten.Game. The panel keeps its pixels between frames,
// so only the dirty rectangle is recomposed before the panel is shown.
func (s *School) Draw(screen *ebiten.Image) {
	panel := s.Panel()
	s.Compose(panel)
	panel.Draw(screen)
	s.flushScreenshots(panel)
	if s.overlay != nil {
		s.overlay.draw(screen)
	}
}

// Layout implements ebiten.Game. The logical screen is always the panel size.
func (s *School) Layout(_, _ int) (int, int) {
	return s.cfg.ScreenWidth, s.cfg.ScreenHeight
}

// Run opens a window and runs the school until the window closes or the
// update function returns an error. Returning ebiten.Termination from the
// update function ends Run without an error.
func Run(s *School, rc RunConfig) error {
	w, h := rc.Width, rc.Height
	if w <= 0 || h <= 0 {
		w, h = s.cfg.ScreenWidth, s.cfg.ScreenHeight
	}
	ebiten.SetWindowSize(w, h)
	if rc.Title != "" {
		ebiten.SetWindowTitle(rc.Title)
	}
	s.SetDebugMode(rc.Debug)
	if rc.ShowStats {
		s.overlay = NewStatsOverlay()
	}
	s.Preload()
	if err := ebiten.RunGame(s); err != nil {
		return fmt.Errorf("tetra: run: %w", err)
	}
	return nil
}
