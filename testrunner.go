package tetra

import (
	"encoding/json"
	"fmt"
)

// scriptStep is one entry of a tap script.
type scriptStep struct {
	Action string `json:"action"` // "tap", "wait" or "screenshot"
	Label  string `json:"label,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Entity *int   `json:"entity,omitempty"` // tap the center of this fish instead of x/y
	Frames int    `json:"frames,omitempty"`
}

// TestRunner replays a tap script one frame at a time so a school can be
// driven and captured without a person at the screen.
//
//	{"steps": [
//		{"action": "tap", "entity": 0},
//		{"action": "wait", "frames": 30},
//		{"action": "screenshot", "label": "mid-turn"}
//	]}
type TestRunner struct {
	steps []scriptStep
	next  int
	sleep int // frames left in the current wait
	done  bool
}

// LoadTestScript parses a tap script. Unknown actions are rejected up front
// so a typo does not surface halfway through a run.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("tetra: parse tap script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("tetra: parse tap script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "tap", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("tetra: parse tap script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner. School.Update advances it once per
// frame, before the tick.
func (s *School) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every step ran and every injected tap was consumed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step runs at most one script step. A tap still in the inject queue holds
// the script back, so each tap lands on its own tick.
func (r *TestRunner) step(s *School) {
	if r.done || len(s.injectQueue) > 0 {
		return
	}
	if r.sleep > 0 {
		r.sleep--
		return
	}
	if r.next >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.next]
	r.next++
	switch st.Action {
	case "tap":
		s.InjectTap(r.tapPoint(s, st))
	case "wait":
		r.sleep = max(st.Frames-1, 0) // the current frame is the first one waited
	case "screenshot":
		s.Screenshot(st.Label)
	}

	r.done = r.next >= len(r.steps) && r.sleep == 0 && len(s.injectQueue) == 0
}

// tapPoint resolves where a tap step lands.
func (r *TestRunner) tapPoint(s *School, st scriptStep) (int, int) {
	if st.Entity == nil || *st.Entity < 0 || *st.Entity >= len(s.entities) {
		return st.X, st.Y
	}
	c := s.entities[*st.Entity].CurrFootprint
	return (c.Min.X + c.Max.X) / 2, (c.Min.Y + c.Max.Y) / 2
}
