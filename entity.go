package tetra

import (
	"image"
	"math"

	"github.com/tanema/gween"
)

// TurnState tracks a direction reversal while its pose sequence plays.
type TurnState struct {
	Progress       float64 // [0, 1]
	Start          Facing  // facing before the turn
	Target         Facing  // facing after the turn
	AlternateRoute bool    // turn through the tail-on pose instead of front-on
}

// Entity is one fish. Entities are created by SpawnSchool and mutated only
// by the tick pass; the compositor reads them.
type Entity struct {
	ID int

	// Pos is the top-left corner of the bounding box. Vel is in units per
	// second, scaled by Config.SpeedScale when integrated.
	Pos Vec2
	Vel Vec2

	// Facing is the committed direction. It flips when a turn opens, so
	// motion sees the new direction while the turn poses still play.
	Facing Facing

	// SwimPhase cycles through [0, CycleLength) at SwimSpeed.
	SwimPhase float64
	SwimSpeed float64

	// Turn is non-nil while a reversal animates.
	Turn *TurnState

	// Depth is 0 (far, small) to 1 (near, large).
	Depth       float64
	DepthTarget float64

	// Pose is the sprite chosen for this tick by the Animator.
	Pose PoseKey

	// Footprints of the previous and current rendered frame.
	PrevFootprint image.Rectangle
	CurrFootprint image.Rectangle

	depthTween      *gween.Tween
	depthTweenTo    float64
	perturbCooldown float64
}

// Turning reports whether a turn sequence is playing.
func (e *Entity) Turning() bool {
	return e.Turn != nil
}

// Contains reports whether (x, y) lies inside the current footprint.
func (e *Entity) Contains(x, y int) bool {
	return image.Pt(x, y).In(e.CurrFootprint)
}

// size returns the rendered size in whole pixels at the current depth.
func (e *Entity) size(cfg *Config) (int, int) {
	if !cfg.Perspective {
		return cfg.SpriteWidth, cfg.SpriteHeight
	}
	s := Scale(cfg, e.Depth)
	w := int(math.Round(float64(cfg.SpriteWidth) * s))
	h := int(math.Round(float64(cfg.SpriteHeight) * s))
	return max(w, 1), max(h, 1)
}

// updateFootprint keeps the fish inside the screen at its current size and
// records the footprint for this tick.
func (e *Entity) updateFootprint(cfg *Config) {
	w, h := e.size(cfg)
	e.Pos.X = clampf(e.Pos.X, 0, float64(cfg.ScreenWidth-w))
	e.Pos.Y = clampf(e.Pos.Y, 0, float64(cfg.ScreenHeight-h))
	x, y := int(e.Pos.X), int(e.Pos.Y)
	e.CurrFootprint = image.Rect(x, y, x+w, y+h)
}

// startTurn opens a turn from the current facing toward target and commits
// the new facing immediately. Returns false if a turn is already playing.
func (e *Entity) startTurn(target Facing, rng Rand, alternate bool) bool {
	if e.Turn != nil {
		return false
	}
	route := false
	if alternate {
		route = rng.IntN(2) == 1
	}
	e.Turn = &TurnState{
		Start:          e.Facing,
		Target:         target,
		AlternateRoute: route,
	}
	e.Facing = target
	return true
}

// SpawnSchool creates cfg.Count fish with randomized position, velocity,
// swim phase, swim speed and depth.
func SpawnSchool(cfg *Config, rng Rand) []*Entity {
	school := make([]*Entity, cfg.Count)
	for i := range school {
		e := &Entity{ID: i}
		if cfg.Perspective {
			e.Depth = rng.Float64()
			e.DepthTarget = rng.Float64()
		}
		w, h := e.size(cfg)
		e.Pos = Vec2{
			X: spawnCoord(rng, cfg.ScreenWidth, w, cfg.SpawnMargin),
			Y: spawnCoord(rng, cfg.ScreenHeight, h, cfg.SpawnMargin),
		}
		e.Vel = Vec2{
			X: signedUnit(rng) * cfg.InitialSpeed.Random(rng),
			Y: signedUnit(rng) * cfg.InitialSpeed.Random(rng),
		}
		e.Vel = clampSpeed(e.Vel, cfg.MaxSpeed)
		e.Facing = facingFor(e.Vel.X, FacingRight)
		e.SwimPhase = rng.Float64() * cfg.CycleLength
		e.SwimSpeed = cfg.SwimSpeed.Random(rng)
		if !cfg.PerturbCooldown.IsZero() {
			e.perturbCooldown = cfg.PerturbCooldown.Random(rng)
		}
		e.updateFootprint(cfg)
		e.PrevFootprint = e.CurrFootprint
		school[i] = e
	}
	return school
}

// spawnCoord picks a coordinate in [margin, extent-size-margin), falling back
// to the whole legal range when the margin does not leave room.
func spawnCoord(rng Rand, extent, size, margin int) float64 {
	lo, hi := margin, extent-size-margin
	if hi <= lo {
		lo, hi = 0, extent-size
	}
	if hi <= lo {
		return float64(lo)
	}
	return float64(lo + rng.IntN(hi-lo))
}
