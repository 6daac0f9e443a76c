package stage

import (
	"encoding/json"
	"image"

	"github.com/pkg/errors"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	FromX  int    `json:"fromX,omitempty"`
	FromY  int    `json:"fromY,omitempty"`
	ToX    int    `json:"toX,omitempty"`
	ToY    int    `json:"toY,omitempty"`
	Ticks  int    `json:"ticks,omitempty"`
	Keys   []Key  `json:"keys,omitempty"`
	Text   string `json:"text,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input and screenshots across ticks for
// scripted UI runs. Attach it with EngineContext.SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, errors.Wrap(err, "parse test script")
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "screenshot", "click", "rightclick", "drag", "key", "type", "wait", "hover":
		default:
			return nil, errors.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner. Its step runs at the start of every tick,
// before injected input is consumed.
func (c *EngineContext) SetTestRunner(r *TestRunner) {
	c.runner = r
}

// TestRunner returns the attached runner, or nil.
func (c *EngineContext) TestRunner() *TestRunner { return c.runner }

// Done reports whether every step has run and its input has drained.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one tick.
func (r *TestRunner) step(c *EngineContext) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if c.Injecting() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		c.Screenshot(st.Label)
	case "click":
		c.InjectClick(st.X, st.Y)
	case "rightclick":
		c.InjectRightClick(st.X, st.Y)
	case "hover":
		c.InjectHover(st.X, st.Y)
	case "drag":
		c.InjectDrag(image.Pt(st.FromX, st.FromY), image.Pt(st.ToX, st.ToY), max(st.Ticks, 2))
	case "key":
		c.InjectKey(st.Keys...)
	case "type":
		c.InjectText(st.Text)
	case "wait":
		if st.Ticks > 0 {
			r.waitCount = st.Ticks - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !c.Injecting() {
		r.done = true
	}
}
