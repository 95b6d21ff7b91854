package tetra

import (
	"math"
	"testing"
)

func TestAnimator_TurnCompletes(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDelta = 1
	var log eventLog
	a := NewAnimator(&cfg, cfg.Rand, &log)
	e := newTestEntity(&cfg, 0, 100, 100, -1, 0)
	e.startTurn(FacingRight, cfg.Rand, false)

	var yaws []int
	for i := 0; i < 3; i++ {
		a.Step([]*Entity{e}, 0.25)
		if e.Pose.Kind != PoseTurn {
			t.Fatalf("step %d: pose %v, want a turn pose", i, e.Pose)
		}
		yaws = append(yaws, e.Pose.Yaw)
	}
	want := []int{315, 0, 45}
	for i := range want {
		if yaws[i] != want[i] {
			t.Errorf("yaws = %v, want %v", yaws, want)
			break
		}
	}

	a.Step([]*Entity{e}, 0.25)
	if e.Turning() {
		t.Fatal("turn still playing after TurnDuration")
	}
	if e.Facing != FacingRight {
		t.Errorf("Facing = %v, want right", e.Facing)
	}
	if e.Pose.Kind != PoseSwim || e.Pose.Facing != FacingRight {
		t.Errorf("Pose = %v, want a right swim pose", e.Pose)
	}
	if got := log.count(EventTurnFinished); got != 1 {
		t.Errorf("turn-finished events = %d, want 1", got)
	}
}

func TestAnimator_TurnPlaybackReverses(t *testing.T) {
	for _, steps := range []int{3, 5, 10} {
		cfg := testConfig()
		cfg.TurnSteps = steps
		a := NewAnimator(&cfg, cfg.Rand, nil)

		visit := func(start Facing) []PoseKey {
			e := &Entity{Facing: start}
			e.startTurn(start.Opposite(), cfg.Rand, false)
			var out []PoseKey
			for i := 0; i < steps; i++ {
				e.Turn.Progress = (float64(i) + 0.5) / float64(steps)
				out = append(out, a.Pose(e))
			}
			return out
		}
		lr := visit(FacingLeft)
		rl := visit(FacingRight)
		for i := range lr {
			if lr[i] != rl[steps-1-i] {
				t.Errorf("steps=%d: L->R[%d] = %v, R->L[%d] = %v", steps, i, lr[i], steps-1-i, rl[steps-1-i])
			}
		}
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		progress float64
		n, want  int
	}{
		{0, 5, 0},
		{0.19, 5, 0},
		{0.2, 5, 1},
		{0.999, 5, 4},
		{1, 5, 4},
		{7, 5, 4},
		{-1, 5, 0},
		{math.NaN(), 5, 0},
		{math.Inf(1), 5, 4},
		{0.5, 10, 5},
		{0.5, 3, 1},
	}
	for _, tt := range tests {
		if got := bucket(tt.progress, tt.n); got != tt.want {
			t.Errorf("bucket(%v, %d) = %d, want %d", tt.progress, tt.n, got, tt.want)
		}
	}
}

func TestAnimator_OutOfRangeProgressClamps(t *testing.T) {
	cfg := testConfig()
	a := NewAnimator(&cfg, cfg.Rand, nil)
	e := &Entity{Facing: FacingLeft}
	e.startTurn(FacingRight, cfg.Rand, false)
	seq := a.Sequence(FacingLeft, false)

	e.Turn.Progress = 7
	if got := a.Pose(e); got != seq[len(seq)-1] {
		t.Errorf("Pose at progress 7 = %v, want %v", got, seq[len(seq)-1])
	}
	e.Turn.Progress = -1
	if got := a.Pose(e); got != seq[0] {
		t.Errorf("Pose at progress -1 = %v, want %v", got, seq[0])
	}
}

func TestAnimator_SwimFrame(t *testing.T) {
	cfg := testConfig()
	a := NewAnimator(&cfg, cfg.Rand, nil)
	tests := []struct {
		phase float64
		want  int
	}{
		{0, 0},
		{0.99, 0},
		{2.5, 2},
		{5.99, 5},
	}
	for _, tt := range tests {
		e := &Entity{Facing: FacingLeft, SwimPhase: tt.phase}
		got := a.Pose(e)
		if got != SwimPose(FacingLeft, tt.want) {
			t.Errorf("phase %v: Pose = %v, want frame %d", tt.phase, got, tt.want)
		}
	}
}

func TestAnimator_SwimPhaseWraps(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDelta = 1
	a := NewAnimator(&cfg, cfg.Rand, nil)
	e := &Entity{Facing: FacingRight, SwimPhase: 5, SwimSpeed: 1}

	a.Advance(e, 0.5)
	if e.SwimPhase != 2 {
		t.Errorf("SwimPhase = %v, want 2", e.SwimPhase)
	}
}

func TestAnimator_FrameSuppression(t *testing.T) {
	tests := []struct {
		suppress int
		chance   float64
		phase    float64
		want     int
	}{
		{2, 1, 2.5, 1},
		{2, 0, 2.5, 2},
		{0, 1, 0.5, 5}, // wraps to the last frame
		{-1, 1, 2.5, 2},
	}
	for _, tt := range tests {
		cfg := testConfig()
		cfg.SuppressFrame = tt.suppress
		cfg.SuppressChance = tt.chance
		a := NewAnimator(&cfg, cfg.Rand, nil)
		e := &Entity{Facing: FacingLeft, SwimPhase: tt.phase}

		got := a.Pose(e)
		if got.Frame != tt.want {
			t.Errorf("suppress=%d chance=%v: frame %d, want %d", tt.suppress, tt.chance, got.Frame, tt.want)
		}
		if e.SwimPhase != tt.phase {
			t.Errorf("SwimPhase changed to %v", e.SwimPhase)
		}
	}
}

func TestAnimator_StepRejectsBadDelta(t *testing.T) {
	cfg := testConfig()
	a := NewAnimator(&cfg, cfg.Rand, nil)
	e := &Entity{Facing: FacingLeft, SwimPhase: 1.5, SwimSpeed: 1, Pose: SwimPose(FacingLeft, 1)}
	for _, dt := range []float64{0, -0.1, math.NaN()} {
		a.Step([]*Entity{e}, dt)
	}
	if e.SwimPhase != 1.5 || e.Pose != SwimPose(FacingLeft, 1) {
		t.Errorf("state changed: phase %v pose %v", e.SwimPhase, e.Pose)
	}
}

func TestAnimator_Poses(t *testing.T) {
	cfg := testConfig()
	if got := len(NewAnimator(&cfg, cfg.Rand, nil).Poses()); got != 17 {
		t.Errorf("len(Poses) = %d, want 17", got)
	}
	cfg.AlternateRoute = true
	if got := len(NewAnimator(&cfg, cfg.Rand, nil).Poses()); got != 20 {
		t.Errorf("len(Poses) with alternate route = %d, want 20", got)
	}
}

func TestStartTurn_AlternateRoute(t *testing.T) {
	e := &Entity{Facing: FacingRight}
	if !e.startTurn(FacingLeft, fixedRand{n: 1}, true) {
		t.Fatal("startTurn returned false")
	}
	if !e.Turn.AlternateRoute {
		t.Error("AlternateRoute = false, want true")
	}
	if e.startTurn(FacingRight, fixedRand{}, false) {
		t.Error("second startTurn while turning returned true")
	}

	e2 := &Entity{Facing: FacingRight}
	e2.startTurn(FacingLeft, fixedRand{n: 1}, false)
	if e2.Turn.AlternateRoute {
		t.Error("AlternateRoute chosen although disabled")
	}
}
