package tetra

import (
	"cmp"
	"math"
	"slices"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DepthModel drifts each fish's depth toward a random target. Depth maps to
// render scale and paint order. All methods are no-ops when
// Config.Perspective is false.
type DepthModel struct {
	cfg *Config
	rng Rand
}

// NewDepthModel creates a depth model.
func NewDepthModel(cfg *Config, rng Rand) *DepthModel {
	return &DepthModel{cfg: cfg, rng: rng}
}

// Step advances every entity by dt seconds.
func (d *DepthModel) Step(entities []*Entity, dt float64) {
	dt, ok := clampDelta(dt, d.cfg.MaxDelta)
	if !ok || !d.cfg.Perspective {
		return
	}
	for _, e := range entities {
		d.advance(e, dt)
	}
}

// advance moves depth toward DepthTarget at DepthChangeSpeed. A fish that is
// barely moving sideways holds its depth. On arrival a new target is drawn.
func (d *DepthModel) advance(e *Entity, dt float64) {
	if math.Abs(e.Vel.X) < d.cfg.MinDriftSpeed {
		return
	}
	if e.depthTween == nil || e.depthTweenTo != e.DepthTarget {
		e.depthTween = d.newTween(e)
		e.depthTweenTo = e.DepthTarget
	}
	v, done := e.depthTween.Update(float32(dt))
	e.Depth = clamp01(float64(v))
	if done || math.Abs(e.Depth-e.DepthTarget) <= d.cfg.DepthEpsilon {
		e.Depth = clamp01(e.DepthTarget)
		e.DepthTarget = d.rng.Float64()
		e.depthTween = nil
	}
}

// newTween builds a linear tween from the current depth to the target whose
// duration yields a constant DepthChangeSpeed.
func (d *DepthModel) newTween(e *Entity) *gween.Tween {
	e.Depth = clamp01(e.Depth)
	e.DepthTarget = clamp01(e.DepthTarget)
	dur := math.Abs(e.DepthTarget-e.Depth) / d.cfg.DepthChangeSpeed
	if dur <= 0 {
		dur = math.SmallestNonzeroFloat32
	}
	return gween.New(float32(e.Depth), float32(e.DepthTarget), float32(dur), ease.Linear)
}

// Scale maps depth to a render scale, linear from ScaleMin at depth 0 to
// ScaleMax at depth 1. Without perspective the scale is always 1.
func Scale(cfg *Config, depth float64) float64 {
	if !cfg.Perspective {
		return 1
	}
	t := clamp01(depth)
	return (1-t)*cfg.ScaleMin + t*cfg.ScaleMax
}

// DrawOrder fills buf with entity indices in paint order: farthest first
// with perspective, list order without. Ties keep list order.
func DrawOrder(cfg *Config, entities []*Entity, buf []int) []int {
	buf = buf[:0]
	for i := range entities {
		buf = append(buf, i)
	}
	if cfg.Perspective {
		slices.SortStableFunc(buf, func(a, b int) int {
			return cmp.Compare(entities[a].Depth, entities[b].Depth)
		})
	}
	return buf
}
