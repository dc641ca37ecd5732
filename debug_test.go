package grove

import (
	"strings"
	"testing"
)

func TestViolationLogsWithoutDebug(t *testing.T) {
	ctx, logs, _ := newTestContext(t, nil)
	if violation(ctx, "bad %d", 7) {
		t.Error("violation returned true")
	}
	entries := logs.FilterMessage("invariant violation").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["detail"]; got != "bad 7" {
		t.Errorf("detail = %v, want bad 7", got)
	}
}

func TestViolationNilContext(t *testing.T) {
	// Falls back to the global logger and never panics.
	violation(nil, "orphan")
}

func TestViolationPanicsInDebug(t *testing.T) {
	ctx, _, _ := newTestContext(t, nil)
	ctx.Debug = true
	defer func() {
		r := recover()
		if s, _ := r.(string); !strings.HasPrefix(s, "grove debug: ") {
			t.Errorf("panic = %v", r)
		}
	}()
	violation(ctx, "boom")
}

func TestDebugSweptEntityPanics(t *testing.T) {
	ctx, _, _ := newTestContext(t, nil)
	ctx.Debug = true
	l := runningLayer(t, ctx)
	e := NewEntity("gone")
	l.AddEntity(e)
	other := NewEntity("other")
	l.AddEntity(other)
	e.Destroy()
	l.DeleteQueuedEntities()

	defer func() {
		r := recover()
		if s, _ := r.(string); !strings.Contains(s, "swept entity") {
			t.Errorf("panic = %v, want swept entity message", r)
		}
	}()
	// The swept entity keeps its layer pointer, so debug mode still sees it.
	e.AddChild(other)
}

func TestDebugSweptEntityIgnoredWithoutDebug(t *testing.T) {
	ctx, _, _ := newTestContext(t, nil)
	l := runningLayer(t, ctx)
	e := NewEntity("gone")
	l.AddEntity(e)
	e.Destroy()
	l.DeleteQueuedEntities()
	e.SetParent(NewEntity("p")) // must not panic
}

func TestDebugTreeDepthWarning(t *testing.T) {
	ctx, logs, _ := newTestContext(t, nil)
	ctx.Debug = true
	l := NewLayer(ctx, "deep", nil)
	parent := NewEntity("root")
	l.AddEntity(parent)
	for i := 0; i < debugMaxTreeDepth+1; i++ {
		c := NewEntity("")
		l.AddEntity(c)
		parent.AddChild(c)
		parent = c
	}
	if logs.FilterMessage("tree depth exceeds threshold").Len() == 0 {
		t.Error("no depth warning")
	}
}

func TestDebugChildCountWarning(t *testing.T) {
	ctx, logs, _ := newTestContext(t, nil)
	ctx.Debug = true
	l := NewLayer(ctx, "wide", nil)
	p := NewEntity("p")
	l.AddEntity(p)
	for i := 0; i <= debugMaxChildCount; i++ {
		p.AddChild(NewEntity(""))
	}
	if logs.FilterMessage("child count exceeds threshold").Len() != 1 {
		t.Error("expected exactly one child count warning")
	}
}

func TestDebugFrameStatsLogged(t *testing.T) {
	ctx, logs, _ := newTestContext(t, managerFiles)
	ctx.Debug = true
	s := NewScene(ctx, "Menu", "menu.yaml")
	if err := s.Load("menu.yaml"); err != nil {
		t.Fatal(err)
	}
	if err := s.OnSceneLoad(); err != nil {
		t.Fatal(err)
	}
	s.Begin()
	s.Update(0.1)
	s.Render(nil)
	s.EndFrame()

	entries := logs.FilterMessage("frame").All()
	if len(entries) != 1 {
		t.Fatalf("frame logs = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["renderables"]; got != int64(2) {
		t.Errorf("renderables = %v, want 2", got)
	}

	ctx.Debug = false
	s.EndFrame()
	if logs.FilterMessage("frame").Len() != 1 {
		t.Error("frame stats logged without debug")
	}
}
