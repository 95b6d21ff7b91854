package tetra

import "math"

// Integrator advances position and velocity, reflects fish off the screen
// edges, perturbs velocity and opens turns when the horizontal direction no
// longer matches the facing.
type Integrator struct {
	cfg  *Config
	rng  Rand
	sink EventSink
}

// NewIntegrator creates an integrator. sink may be nil.
func NewIntegrator(cfg *Config, rng Rand, sink EventSink) *Integrator {
	return &Integrator{cfg: cfg, rng: rng, sink: sink}
}

// Step integrates every entity by dt seconds. Non-finite or non-positive
// deltas are ignored; large ones are clamped to Config.MaxDelta.
func (in *Integrator) Step(entities []*Entity, dt float64) {
	dt, ok := clampDelta(dt, in.cfg.MaxDelta)
	if !ok {
		return
	}
	for _, e := range entities {
		in.step(e, dt)
	}
}

func (in *Integrator) step(e *Entity, dt float64) {
	cfg := in.cfg
	in.sanitize(e)

	e.Pos.X += e.Vel.X * dt * cfg.SpeedScale
	e.Pos.Y += e.Vel.Y * dt * cfg.SpeedScale

	w, h := e.size(cfg)
	e.Pos.X, e.Vel.X = reflect(e.Pos.X, e.Vel.X, float64(cfg.ScreenWidth-w))
	e.Pos.Y, e.Vel.Y = reflect(e.Pos.Y, e.Vel.Y, float64(cfg.ScreenHeight-h))

	if in.perturbDue(e, dt) {
		e.Vel.X += (in.rng.Float64()*2 - 1) * cfg.PerturbDelta
		e.Vel.Y += (in.rng.Float64()*2 - 1) * cfg.PerturbDelta
	}
	e.Vel = clampSpeed(e.Vel, cfg.MaxSpeed)

	if !e.Turning() {
		if target := facingFor(e.Vel.X, e.Facing); target != e.Facing {
			in.openTurn(e, target)
		}
	}
}

// openTurn starts a turn toward target and reports it to the sink.
func (in *Integrator) openTurn(e *Entity, target Facing) bool {
	if !e.startTurn(target, in.rng, in.cfg.AlternateRoute) {
		return false
	}
	emit(in.sink, Event{
		Type:     EventTurnStarted,
		EntityID: e.ID,
		X:        e.Pos.X,
		Y:        e.Pos.Y,
		Facing:   target,
	})
	return true
}

// perturbDue reports whether the velocity gets a random nudge this tick.
// With a cooldown configured, the nudge fires when the per-fish countdown
// expires; otherwise it fires with PerturbChance per tick.
func (in *Integrator) perturbDue(e *Entity, dt float64) bool {
	cd := in.cfg.PerturbCooldown
	if cd.IsZero() {
		return chance(in.rng, in.cfg.PerturbChance)
	}
	e.perturbCooldown -= dt
	if e.perturbCooldown > 0 {
		return false
	}
	e.perturbCooldown = cd.Random(in.rng)
	return true
}

// sanitize replaces non-finite motion state with something drawable.
func (in *Integrator) sanitize(e *Entity) {
	if !e.Pos.finite() {
		w, h := e.size(in.cfg)
		e.Pos = Vec2{X: float64(in.cfg.ScreenWidth-w) / 2, Y: float64(in.cfg.ScreenHeight-h) / 2}
	}
	if !e.Vel.finite() {
		vx := in.cfg.MaxSpeed / 2
		if e.Facing == FacingLeft {
			vx = -vx
		}
		e.Vel = Vec2{X: vx}
	}
}

// reflect clamps pos into [0, limit] and points vel back inside when the
// position left that range.
func reflect(pos, vel, limit float64) (float64, float64) {
	switch {
	case pos < 0:
		return 0, math.Abs(vel)
	case pos > limit:
		return math.Max(limit, 0), -math.Abs(vel)
	}
	return pos, vel
}

// clampSpeed rescales v to length limit when it is longer, keeping its
// direction.
func clampSpeed(v Vec2, limit float64) Vec2 {
	speed := v.Len()
	if speed <= limit || speed == 0 {
		return v
	}
	return Vec2{X: v.X / speed * limit, Y: v.Y / speed * limit}
}

// clampDelta rejects NaN, infinite and non-positive deltas and caps the rest.
func clampDelta(dt, limit float64) (float64, bool) {
	if math.IsNaN(dt) || dt <= 0 {
		return 0, false
	}
	if dt > limit {
		dt = limit
	}
	return dt, true
}
