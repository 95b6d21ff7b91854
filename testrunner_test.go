package tetra

import (
	"image"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "tap", "x": 100, "y": 200},
			{"action": "tap", "entity": 1},
			{"action": "wait", "frames": 3},
			{"action": "screenshot", "label": "after-tap"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[1].Action != "tap" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Entity == nil || *runner.steps[2].Entity != 1 {
		t.Error("step 2 mismatch")
	}
	if runner.steps[3].Action != "wait" || runner.steps[3].Frames != 3 {
		t.Error("step 3 mismatch")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	if _, err := LoadTestScript([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadTestScript_Empty(t *testing.T) {
	if _, err := LoadTestScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadTestScript_UnknownAction(t *testing.T) {
	if _, err := LoadTestScript([]byte(`{"steps": [{"action": "click"}]}`)); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestRunnerStep_TapEntity(t *testing.T) {
	cfg := testConfig()
	e := newTestEntity(&cfg, 0, 100, 100, 1, 0)
	s := schoolWith(cfg, e)

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "tap", "entity": 0}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	runner.step(s)
	if len(s.injectQueue) != 1 || s.injectQueue[0] != image.Pt(120, 110) {
		t.Fatalf("injectQueue = %v, want [(120,110)]", s.injectQueue)
	}
	if runner.Done() {
		t.Error("runner should not be done while the inject queue has taps")
	}

	s.Tick(1.0 / 60)
	if !e.Turning() {
		t.Error("injected tap did not reach the fish")
	}
	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	s := newTestSchool(testConfig())
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "done"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		runner.step(s)
		if len(s.screenshotQueue) != 0 {
			t.Fatalf("frame %d: screenshot queued during wait", i)
		}
	}
	runner.step(s)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "done" {
		t.Errorf("screenshotQueue = %v, want [done]", s.screenshotQueue)
	}
	if !runner.Done() {
		t.Error("runner not done after the last step")
	}
}
