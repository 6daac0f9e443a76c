package stage

import (
	"image"
	"testing"
)

func TestInjectClick(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestScene(t, ctx)
	clicks := 0
	s.Add(testButton(ctx, func(o *ButtonOptions) {
		o.LeftClick = Do(func() { clicks++ })
	}))

	ctx.InjectClick(50, 50)
	if len(ctx.injectQueue) != 2 {
		t.Fatalf("expected 2 queued states, got %d", len(ctx.injectQueue))
	}

	// The host reports no input; injected states win.
	ctx.Tick(InputState{})
	if clicks != 1 {
		t.Errorf("press tick: clicks = %d, want 1", clicks)
	}
	ctx.Tick(InputState{})
	if ctx.Injecting() {
		t.Error("queue should be drained")
	}
	if ctx.Input.LeftDown() {
		t.Error("second injected state should release")
	}
}

func TestInjectDrag(t *testing.T) {
	ctx := newTestContext(t)
	ctx.InjectDrag(image.Pt(0, 0), image.Pt(30, 0), 5)
	want := []InputState{
		{LeftDown: true, Pointer: image.Pt(0, 0)},
		{LeftDown: true, Pointer: image.Pt(8, 0)},
		{LeftDown: true, Pointer: image.Pt(15, 0)},
		{LeftDown: true, Pointer: image.Pt(23, 0)},
		{Pointer: image.Pt(30, 0)},
	}
	if len(ctx.injectQueue) != len(want) {
		t.Fatalf("queued %d states, want %d", len(ctx.injectQueue), len(want))
	}
	for i, w := range want {
		got := ctx.injectQueue[i]
		if got.LeftDown != w.LeftDown || got.Pointer != w.Pointer {
			t.Errorf("state %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestInjectDragMinimumTicks(t *testing.T) {
	ctx := newTestContext(t)
	ctx.InjectDrag(image.Pt(1, 1), image.Pt(9, 9), 0)
	if len(ctx.injectQueue) != 2 {
		t.Errorf("queued %d states, want 2", len(ctx.injectQueue))
	}
}

func TestInjectKeyKeepsPointer(t *testing.T) {
	ctx := newTestContext(t)
	ctx.InjectHover(5, 6)
	ctx.InjectKey(KeyEscape)
	ctx.InjectText("hi")
	if len(ctx.injectQueue) != 4 {
		t.Fatalf("queued %d states, want 4", len(ctx.injectQueue))
	}
	press := ctx.injectQueue[1]
	if press.Pointer != image.Pt(5, 6) || len(press.Pressed) != 1 || press.Pressed[0] != KeyEscape {
		t.Errorf("key state = %+v", press)
	}
	if typed := ctx.injectQueue[3]; typed.Text != "hi" || typed.Pointer != image.Pt(5, 6) {
		t.Errorf("text state = %+v", typed)
	}
}

func TestInjectRightClick(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestScene(t, ctx)
	clicks := 0
	s.Add(testButton(ctx, func(o *ButtonOptions) {
		o.RightClick = Do(func() { clicks++ })
	}))
	ctx.InjectRightClick(10, 10)
	ctx.Tick(InputState{})
	ctx.Tick(InputState{})
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

// --- Test runner ---

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "ticks": 3},
			{"action": "key", "keys": ["escape"]},
			{"action": "type", "text": "42"}
		]
	}`)
	r, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(r.steps))
	}
	if r.steps[1].X != 100 || r.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if r.steps[2].Ticks != 3 {
		t.Error("step 2 mismatch")
	}
	if len(r.steps[3].Keys) != 1 || r.steps[3].Keys[0] != KeyEscape {
		t.Error("step 3 mismatch")
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`},
	}
	for _, tt := range tests {
		if _, err := LoadTestScript([]byte(tt.data)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestRunnerClick(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestScene(t, ctx)
	clicks := 0
	s.Add(testButton(ctx, func(o *ButtonOptions) {
		o.LeftClick = Do(func() { clicks++ })
	}))
	r, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetTestRunner(r)
	if ctx.TestRunner() != r {
		t.Error("TestRunner should return the attached runner")
	}

	ctx.Tick(InputState{})
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if r.Done() {
		t.Error("runner should not be done while injected input is pending")
	}
	ctx.Tick(InputState{})
	ctx.Tick(InputState{})
	if !r.Done() {
		t.Error("runner should be done after the queue drained")
	}
}

func TestRunnerWait(t *testing.T) {
	ctx := newTestContext(t)
	r, err := LoadTestScript([]byte(`{"steps": [{"action": "wait", "ticks": 3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetTestRunner(r)
	for i := range 3 {
		ctx.Tick(InputState{})
		if r.Done() {
			t.Fatalf("done after %d ticks, want 4", i+1)
		}
	}
	ctx.Tick(InputState{})
	if !r.Done() {
		t.Error("runner should be done after the wait")
	}
}
