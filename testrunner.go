package thicket

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Key    string `json:"key,omitempty"`
	Button string `json:"button,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input and screenshots across frames for
// automated visual testing. Steps:
//
//	{"action": "press", "key": "w"}       hold a key (or "button": "left")
//	{"action": "release", "key": "w"}     let it go
//	{"action": "tap", "key": "space"}     press then release, two frames
//	{"action": "wait", "frames": 30}      idle
//	{"action": "screenshot", "label": "x"}
//
// Attach to a Scene via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses and validates a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st testStep) validate() error {
	switch st.Action {
	case "press", "release", "tap":
		if st.Key != "" {
			if _, ok := ParseKey(st.Key); !ok {
				return fmt.Errorf("unknown key %q", st.Key)
			}
			return nil
		}
		if _, ok := ParseMouseButton(st.Button); !ok {
			return fmt.Errorf("%s needs a key or a mouse button", st.Action)
		}
	case "wait", "screenshot":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// SetTestRunner attaches a TestRunner to the scene. Its step runs at the
// start of every Scene.Update.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Let pending injections drain before advancing.
	if s.input.PendingInjections() > 0 {
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
		s.Screenshot(st.Label)
	case "press":
		injectStep(s.input, st, true)
	case "release":
		injectStep(s.input, st, false)
	case "tap":
		injectStep(s.input, st, true)
		injectStep(s.input, st, false)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	default:
		Logger().Warn("test runner: skipping unknown action", zap.String("action", st.Action))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && s.input.PendingInjections() == 0 {
		r.done = true
	}
}

func injectStep(m *InputManager, st testStep, pressed bool) {
	if k, ok := ParseKey(st.Key); ok {
		m.InjectKey(k, pressed)
		return
	}
	if b, ok := ParseMouseButton(st.Button); ok {
		m.InjectMouseButton(b, pressed)
	}
}
