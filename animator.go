package tetra

import "math"

// Animator owns the per-fish pose state machine. A fish is either idle,
// looping its swim cycle for its facing, or turning, stepping through a
// fixed sequence of yaw poses. Whether Turn is nil decides which.
type Animator struct {
	cfg  *Config
	rng  Rand
	sink EventSink

	// sequences[start][alternate]
	sequences [2][2][]PoseKey
}

// NewAnimator creates an animator and precomputes its turn sequences.
// sink may be nil.
func NewAnimator(cfg *Config, rng Rand, sink EventSink) *Animator {
	a := &Animator{cfg: cfg, rng: rng, sink: sink}
	for _, f := range []Facing{FacingLeft, FacingRight} {
		a.sequences[f][0] = turnSequence(f, cfg.TurnSteps, false)
		a.sequences[f][1] = turnSequence(f, cfg.TurnSteps, true)
	}
	return a
}

// Sequence returns the turn poses played when turning away from start.
// The returned slice MUST NOT be mutated.
func (a *Animator) Sequence(start Facing, alternate bool) []PoseKey {
	return a.sequences[start][boolIndex(alternate)]
}

// Step advances every entity by dt seconds and records the pose each one
// shows this tick in Entity.Pose.
func (a *Animator) Step(entities []*Entity, dt float64) {
	dt, ok := clampDelta(dt, a.cfg.MaxDelta)
	if !ok {
		return
	}
	for _, e := range entities {
		a.advance(e, dt)
		e.Pose = a.Pose(e)
	}
}

// Advance moves one entity's swim clock or turn progress forward.
func (a *Animator) Advance(e *Entity, dt float64) {
	dt, ok := clampDelta(dt, a.cfg.MaxDelta)
	if !ok {
		return
	}
	a.advance(e, dt)
}

func (a *Animator) advance(e *Entity, dt float64) {
	if t := e.Turn; t != nil {
		t.Progress += dt / a.cfg.TurnDuration
		if t.Progress >= 1 || math.IsNaN(t.Progress) {
			t.Progress = 1
			e.Facing = t.Target
			e.Turn = nil
			emit(a.sink, Event{
				Type:     EventTurnFinished,
				EntityID: e.ID,
				X:        e.Pos.X,
				Y:        e.Pos.Y,
				Facing:   e.Facing,
			})
		}
		return
	}

	cycle := a.cfg.CycleLength
	e.SwimPhase += dt * cycle * a.cfg.CyclesPerSec * e.SwimSpeed
	e.SwimPhase = math.Mod(e.SwimPhase, cycle)
	if e.SwimPhase < 0 || math.IsNaN(e.SwimPhase) {
		e.SwimPhase = 0
	}
}

// Pose selects the sprite for e's current state. It has no effect on e, but
// frame suppression may draw from the random source.
func (a *Animator) Pose(e *Entity) PoseKey {
	if t := e.Turn; t != nil {
		seq := a.Sequence(t.Start, t.AlternateRoute)
		return seq[bucket(t.Progress, len(seq))]
	}

	n := a.cfg.FrameCount
	frame := 0
	if p := e.SwimPhase / a.cfg.phaseStep(); p > 0 && !math.IsInf(p, 0) {
		frame = int(p) % n
	}
	if frame == a.cfg.SuppressFrame && chance(a.rng, a.cfg.SuppressChance) {
		frame = (frame - 1 + n) % n
	}
	return SwimPose(e.Facing, frame)
}

// bucket maps progress in [0, 1) onto n equal buckets. Out-of-range values
// clamp to the first or last bucket.
func bucket(progress float64, n int) int {
	switch {
	case !(progress > 0):
		return 0
	case progress >= 1:
		return n - 1
	}
	return min(int(progress*float64(n)), n-1)
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Poses lists every pose this animator can return, swim frames first.
func (a *Animator) Poses() []PoseKey {
	var keys []PoseKey
	for _, f := range []Facing{FacingLeft, FacingRight} {
		for i := 0; i < a.cfg.FrameCount; i++ {
			keys = append(keys, SwimPose(f, i))
		}
	}
	seen := make(map[PoseKey]bool)
	for _, f := range []Facing{FacingLeft, FacingRight} {
		for _, alt := range []bool{false, true} {
			if alt && !a.cfg.AlternateRoute {
				continue
			}
			for _, k := range a.Sequence(f, alt) {
				if !seen[k] {
					seen[k] = true
					keys = append(keys, k)
				}
			}
		}
	}
	return keys
}
