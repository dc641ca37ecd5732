package grove

import (
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLogger returns a logger that records entries at debug and above.
func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// newTestContext builds a context over an in-memory file system with the
// builtin kinds and the test probe kind registered.
func newTestContext(t *testing.T, files map[string]string) (*Context, *observer.ObservedLogs, *recordingSink) {
	t.Helper()
	log, logs := newObservedLogger()
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	sink := &recordingSink{}
	ctx := &Context{Log: log, Assets: fsys, Factory: NewFactory(), Events: sink}
	if err := RegisterBuiltins(ctx); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}
	if err := ctx.Factory.Register(ctx, "probe", KindCustom, newProbe); err != nil {
		t.Fatalf("register probe: %v", err)
	}
	return ctx, logs, sink
}

// recordingSink counts lifecycle events per type and scene.
type recordingSink struct {
	events []LifecycleEvent
}

func (r *recordingSink) Emit(ev LifecycleEvent) {
	r.events = append(r.events, ev)
}

func (r *recordingSink) count(typ LifecycleEventType, sceneID string) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ && (sceneID == "" || ev.SceneID == sceneID) {
			n++
		}
	}
	return n
}

// probe implements every capability and records calls. The optional
// onUpdate callback runs inside Update.
type probe struct {
	entity    *Entity
	updates   int
	fixed     int
	renders   int
	loads     int
	begins    int
	destroys  int
	loadErr   error
	onUpdate  func(p *probe)
	onLoad    func(p *probe)
	onDestroy func(p *probe)
	lastDt    float64
	lastFixed float64
}

func newProbe(_ *Context, def *EntityDef) (any, error) {
	return &probe{}, nil
}

func (p *probe) Attach(e *Entity)  { p.entity = e }
func (p *probe) Begin()             { p.begins++ }
func (p *probe) OnSceneLoad() error {
	p.loads++
	if p.onLoad != nil {
		p.onLoad(p)
	}
	return p.loadErr
}
func (p *probe) OnDestroy() {
	p.destroys++
	if p.onDestroy != nil {
		p.onDestroy(p)
	}
}
func (p *probe) Render(*ebiten.Image) {
	p.renders++
}
func (p *probe) FixedUpdate(dt float64) {
	p.fixed++
	p.lastFixed = dt
}
func (p *probe) Update(dt float64) {
	p.updates++
	p.lastDt = dt
	if p.onUpdate != nil {
		p.onUpdate(p)
	}
}

// probeOf returns the probe behavior of the entity tagged tag in scene s.
func probeOf(t *testing.T, s *Scene, tag string) *probe {
	t.Helper()
	e := s.FindByTag(tag)
	if e == nil {
		t.Fatalf("no entity tagged %q in scene %s", tag, s.ID())
	}
	p, ok := e.Behavior.(*probe)
	if !ok {
		t.Fatalf("entity %q behavior = %T, want *probe", tag, e.Behavior)
	}
	return p
}

// runningLayer returns a standalone layer already in the Running state.
func runningLayer(t *testing.T, ctx *Context) *Layer {
	t.Helper()
	l := NewLayer(ctx, "test", nil)
	if err := l.Load(&LayerDef{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := l.PostLoad(); err != nil {
		t.Fatalf("PostLoad: %v", err)
	}
	l.Begin()
	if l.State() != LayerRunning {
		t.Fatalf("state = %v, want running", l.State())
	}
	return l
}
