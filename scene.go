package grove

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Layer names every scene owns, bottom to top.
const (
	LayerWorld = "world"
	LayerUI    = "ui"
)

var layerOrder = [...]string{LayerWorld, LayerUI}

// ErrUnknownLayer reports a scene definition naming a layer the scene lacks.
var ErrUnknownLayer = errors.New("grove: unknown layer")

// Scene is one loadable screen: a fixed stack of layers updated and drawn
// bottom to top.
type Scene struct {
	ctx    *Context
	id     string
	path   string
	layers []*Layer
	loaded bool

	stats frameStats
}

// NewScene creates an unloaded scene with the standard layer stack.
// SceneManager.Init creates one per directory entry.
func NewScene(ctx *Context, id, path string) *Scene {
	s := &Scene{ctx: ctx, id: id, path: path}
	s.resetLayers()
	return s
}

func (s *Scene) resetLayers() {
	s.layers = make([]*Layer, 0, len(layerOrder))
	for _, name := range layerOrder {
		s.layers = append(s.layers, NewLayer(s.ctx, name, s))
	}
}

// ID returns the scene's directory id.
func (s *Scene) ID() string { return s.id }

// Path returns the scene's definition path.
func (s *Scene) Path() string { return s.path }

// IsLoaded reports whether Load completed successfully and Destroy has not
// run since.
func (s *Scene) IsLoaded() bool { return s.loaded }

// Layers returns the layer stack, bottom first. MUST NOT be mutated.
func (s *Scene) Layers() []*Layer { return s.layers }

// Layer returns the layer with the given name, or nil.
func (s *Scene) Layer(name string) *Layer {
	for _, l := range s.layers {
		if l.name == name {
			return l
		}
	}
	return nil
}

// FindByTag searches every layer, bottom first, for an entity carrying tag.
func (s *Scene) FindByTag(tag string) *Entity {
	for _, l := range s.layers {
		if e := l.FindByTag(tag); e != nil {
			return e
		}
	}
	return nil
}

// Load parses the definition at path and loads every layer from it.
func (s *Scene) Load(path string) error {
	s.path = path
	def, err := LoadSceneDef(s.ctx.Assets, path)
	if err != nil {
		s.ctx.logger().Error("scene load failed", zap.String("scene", s.id), zap.Error(err))
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(def.Layers)) {
		if s.Layer(name) == nil {
			err := fmt.Errorf("scene %s: %w %q", s.id, ErrUnknownLayer, name)
			s.ctx.logger().Error("scene load failed", zap.String("scene", s.id), zap.Error(err))
			return err
		}
	}
	for _, l := range s.layers {
		ld := def.Layers[l.name]
		if err := l.Load(&ld); err != nil {
			return fmt.Errorf("scene %s: %w", s.id, err)
		}
	}
	s.loaded = true
	s.ctx.logger().Debug("scene loaded", zap.String("scene", s.id), zap.String("path", path))
	return nil
}

// OnSceneLoad runs the post-load step on every layer.
func (s *Scene) OnSceneLoad() error {
	for _, l := range s.layers {
		if err := l.PostLoad(); err != nil {
			s.ctx.logger().Error("scene post-load failed", zap.String("scene", s.id), zap.Error(err))
			return fmt.Errorf("scene %s: %w", s.id, err)
		}
	}
	s.ctx.emit(LifecycleEvent{Type: EventSceneLoaded, SceneID: s.id})
	return nil
}

// Begin starts every layer running.
func (s *Scene) Begin() {
	for _, l := range s.layers {
		l.Begin()
	}
	s.ctx.emit(LifecycleEvent{Type: EventSceneBegan, SceneID: s.id})
}

// Update ticks every layer, bottom first.
func (s *Scene) Update(dt float64) {
	var t0 time.Time
	if s.ctx.Debug {
		t0 = time.Now()
	}
	for _, l := range s.layers {
		l.Update(dt)
	}
	if s.ctx.Debug {
		s.stats.updateTime += time.Since(t0)
	}
}

// FixedUpdate ticks every layer's fixed-step registry, bottom first.
func (s *Scene) FixedUpdate(dt float64) {
	for _, l := range s.layers {
		l.FixedUpdate(dt)
	}
}

// Render draws every layer, bottom first.
func (s *Scene) Render(screen *ebiten.Image) {
	var t0 time.Time
	if s.ctx.Debug {
		t0 = time.Now()
	}
	for _, l := range s.layers {
		s.stats.renderable += l.NumRenderables()
		l.Render(screen)
	}
	if s.ctx.Debug {
		s.stats.renderTime += time.Since(t0)
	}
}

// EndFrame runs the deletion sweep on every layer. It must be called after
// the frame's Update and Render have returned. Returns the number of
// entities removed.
func (s *Scene) EndFrame() int {
	var t0 time.Time
	if s.ctx.Debug {
		t0 = time.Now()
	}
	n := 0
	for _, l := range s.layers {
		n += l.DeleteQueuedEntities()
	}
	if s.ctx.Debug {
		s.stats.sweepTime = time.Since(t0)
		s.stats.swept = n
		s.debugLog(s.stats)
	}
	s.stats = frameStats{}
	return n
}

// Destroy tears down every layer and replaces the stack with fresh unloaded
// layers so the scene can be loaded again.
func (s *Scene) Destroy() {
	for _, l := range s.layers {
		l.Destroy()
	}
	s.loaded = false
	s.resetLayers()
	s.ctx.logger().Debug("scene destroyed", zap.String("scene", s.id))
	s.ctx.emit(LifecycleEvent{Type: EventSceneDestroyed, SceneID: s.id})
}
