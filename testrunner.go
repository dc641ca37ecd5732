package grove

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in a frame script.
type scriptStep struct {
	Action string `yaml:"action"`
	Scene  string `yaml:"scene,omitempty"`
	Layer  string `yaml:"layer,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
}

// scriptFile is the top-level YAML structure for a frame script.
type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// FrameScript sequences scene actions across frames for automated testing.
// Step is called once per frame before SceneManager.Update.
//
// Actions: "wait" (frames), "transition" (scene), "destroy" (tag),
// "toggle" (tag) and "expect" (scene: the active scene id).
type FrameScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadFrameScript parses a YAML frame script.
func LoadFrameScript(data []byte) (*FrameScript, error) {
	var file scriptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse frame script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("parse frame script: no steps")
	}
	for i, st := range file.Steps {
		switch st.Action {
		case "wait", "transition", "destroy", "toggle", "expect":
		default:
			return nil, fmt.Errorf("parse frame script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &FrameScript{steps: file.Steps}, nil
}

// LoadFrameScriptFile reads and parses a frame script from fsys.
func LoadFrameScriptFile(fsys fs.FS, path string) (*FrameScript, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read frame script %s: %w", path, err)
	}
	return LoadFrameScript(data)
}

// Done reports whether every step has executed.
func (r *FrameScript) Done() bool {
	return r.done
}

// Failures returns the messages of failed "expect" steps.
func (r *FrameScript) Failures() []string {
	return r.failures
}

// Step advances the script by one frame.
func (r *FrameScript) Step(m *SceneManager) {
	if r.done {
		return
	}
	// Count down wait frames.
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
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "transition":
		if !m.QueueTransition(st.Scene) {
			r.fail("step %d: transition to unknown scene %q", r.cursor-1, st.Scene)
		}
	case "destroy", "toggle":
		e := r.find(m, st)
		if e == nil {
			r.fail("step %d: no entity tagged %q", r.cursor-1, st.Tag)
			break
		}
		if st.Action == "destroy" {
			e.Destroy()
		} else {
			e.ToggleActive()
		}
	case "expect":
		if got := m.ActiveID(); got != st.Scene {
			r.fail("step %d: active scene = %q, want %q", r.cursor-1, got, st.Scene)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *FrameScript) find(m *SceneManager, st scriptStep) *Entity {
	s := m.Active()
	if s == nil {
		return nil
	}
	if st.Layer != "" {
		l := s.Layer(st.Layer)
		if l == nil {
			return nil
		}
		return l.FindByTag(st.Tag)
	}
	return s.FindByTag(st.Tag)
}

func (r *FrameScript) fail(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}
