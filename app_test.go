package grove

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestAppFixedStepAccumulates(t *testing.T) {
	m, _ := newTestManager(t)
	p := probeOf(t, m.Active(), "menu-world")
	app := NewApp(m, AppConfig{FixedStep: 20 * time.Millisecond, MaxFixedSteps: 3})

	if err := app.tick(0.05); err != nil {
		t.Fatal(err)
	}
	if p.updates != 1 || p.fixed != 2 {
		t.Errorf("after 50ms: updates=%d fixed=%d, want 1 2", p.updates, p.fixed)
	}
	if err := app.tick(0.01); err != nil {
		t.Fatal(err)
	}
	if p.fixed != 3 {
		t.Errorf("after 60ms: fixed=%d, want 3", p.fixed)
	}
	if !near(p.lastFixed, 0.02) {
		t.Errorf("fixed dt = %v, want 0.02", p.lastFixed)
	}
}

func TestAppDropsBacklog(t *testing.T) {
	m, _ := newTestManager(t)
	p := probeOf(t, m.Active(), "menu-world")
	app := NewApp(m, AppConfig{FixedStep: 20 * time.Millisecond, MaxFixedSteps: 3})

	_ = app.tick(1)
	if p.fixed != 3 {
		t.Errorf("fixed = %d, want capped 3", p.fixed)
	}
	_ = app.tick(0.01)
	if p.fixed != 3 {
		t.Errorf("backlog carried over: fixed = %d", p.fixed)
	}
}

func TestAppNoFixedStep(t *testing.T) {
	m, _ := newTestManager(t)
	p := probeOf(t, m.Active(), "menu-world")
	app := NewApp(m, AppConfig{})
	_ = app.tick(1)
	if p.updates != 1 || p.fixed != 0 {
		t.Errorf("updates=%d fixed=%d, want 1 0", p.updates, p.fixed)
	}
	if app.Manager() != m {
		t.Error("Manager() mismatch")
	}
}

func TestAppScriptRunsBeforeUpdate(t *testing.T) {
	m, _ := newTestManager(t)
	script, err := LoadFrameScript([]byte("steps:\n  - action: transition\n    scene: Game\n  - action: expect\n    scene: Game\n"))
	if err != nil {
		t.Fatal(err)
	}
	app := NewApp(m, AppConfig{Script: script, ExitOnScriptDone: true})

	if err := app.tick(0.1); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if m.ActiveID() != "Game" {
		t.Errorf("transition queued by script not applied in the same tick")
	}
	if err := app.tick(0.1); !errors.Is(err, ebiten.Termination) {
		t.Errorf("err = %v, want ebiten.Termination", err)
	}
}

func TestAppScriptFailureEndsRun(t *testing.T) {
	m, _ := newTestManager(t)
	script, err := LoadFrameScript([]byte("steps:\n  - action: expect\n    scene: Game\n"))
	if err != nil {
		t.Fatal(err)
	}
	app := NewApp(m, AppConfig{Script: script, ExitOnScriptDone: true})
	err = app.tick(0.1)
	if err == nil || !strings.Contains(err.Error(), "frame script failed") {
		t.Errorf("err = %v, want frame script failure", err)
	}
}

func TestAppLayout(t *testing.T) {
	m, _ := newTestManager(t)
	app := NewApp(m, AppConfig{})
	if w, h := app.Layout(800, 600); w != 800 || h != 600 {
		t.Errorf("Layout = %d,%d, want outside size", w, h)
	}
	app.width, app.height = 320, 240
	if w, h := app.Layout(800, 600); w != 320 || h != 240 {
		t.Errorf("Layout = %d,%d, want 320,240", w, h)
	}
}
