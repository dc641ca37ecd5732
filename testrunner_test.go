package grove

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadFrameScriptValid(t *testing.T) {
	fs, err := LoadFrameScript([]byte(`
steps:
  - action: wait
    frames: 2
  - action: transition
    scene: Game
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs.steps) != 2 || fs.steps[0].Frames != 2 || fs.steps[1].Scene != "Game" {
		t.Errorf("steps = %+v", fs.steps)
	}
}

func TestLoadFrameScriptErrors(t *testing.T) {
	for _, data := range []string{
		"steps: []\n",
		"steps:\n  - action: explode\n",
		"steps: [\n",
	} {
		if _, err := LoadFrameScript([]byte(data)); err == nil {
			t.Errorf("accepted %q", data)
		}
	}
}

func TestLoadFrameScriptFile(t *testing.T) {
	fsys := fstest.MapFS{"smoke.yaml": {Data: []byte("steps:\n  - action: expect\n    scene: Menu\n")}}
	if _, err := LoadFrameScriptFile(fsys, "smoke.yaml"); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrameScriptFile(fsys, "missing.yaml"); err == nil {
		t.Error("missing file accepted")
	}
}

// runScript steps the script and the manager in frame order until the
// script finishes, returning the number of frames used.
func runScript(t *testing.T, fs *FrameScript, m *SceneManager) int {
	t.Helper()
	for frame := 1; frame <= 100; frame++ {
		fs.Step(m)
		m.Update(1.0 / 60)
		m.Render(nil)
		if fs.Done() {
			return frame
		}
	}
	t.Fatal("frame script did not finish")
	return 0
}

func TestFrameScriptDrivesScenes(t *testing.T) {
	m, _ := newTestManager(t)
	fs, err := LoadFrameScript([]byte(`
steps:
  - action: expect
    scene: Menu
  - action: toggle
    layer: ui
    tag: menu-ui
  - action: transition
    scene: Game
  - action: wait
    frames: 3
  - action: expect
    scene: Game
  - action: destroy
    tag: game-world
`))
	if err != nil {
		t.Fatal(err)
	}
	frames := runScript(t, fs, m)
	if frames != 8 {
		t.Errorf("frames = %d, want 8", frames)
	}
	if f := fs.Failures(); len(f) != 0 {
		t.Errorf("failures = %v", f)
	}
	if m.Active().FindByTag("game-world") != nil {
		t.Error("destroy step did not remove the entity")
	}
}

func TestFrameScriptRecordsFailures(t *testing.T) {
	m, _ := newTestManager(t)
	fs, err := LoadFrameScript([]byte(`
steps:
  - action: expect
    scene: Game
  - action: transition
    scene: Nowhere
  - action: toggle
    tag: ghost
  - action: destroy
    layer: sky
    tag: menu-world
`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, fs, m)
	f := fs.Failures()
	if len(f) != 4 {
		t.Fatalf("failures = %v, want 4", f)
	}
	if !strings.Contains(f[0], `want "Game"`) {
		t.Errorf("failure[0] = %q", f[0])
	}
}

func TestFrameScriptStepAfterDone(t *testing.T) {
	m, _ := newTestManager(t)
	fs, err := LoadFrameScript([]byte("steps:\n  - action: expect\n    scene: Menu\n"))
	if err != nil {
		t.Fatal(err)
	}
	fs.Step(m)
	if !fs.Done() {
		t.Fatal("single-step script not done")
	}
	fs.Step(m) // no-op
	if len(fs.Failures()) != 0 {
		t.Error("unexpected failures")
	}
}
