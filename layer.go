package grove

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ErrLayerState reports a lifecycle call made in the wrong layer state.
var ErrLayerState = errors.New("grove: layer in wrong state")

// Layer owns a set of entities and the three registries that drive their
// per-frame passes. Registries hold non-owning references keyed by entity ID.
type Layer struct {
	name  string
	state LayerState
	scene *Scene
	ctx   *Context

	entities    *DenseRegistry[uint32, *Entity]
	deleteQueue []uint32

	updateables      *DenseRegistry[uint32, Updateable]
	fixedUpdateables *DenseRegistry[uint32, FixedUpdateable]
	renderables      *DenseRegistry[uint32, Renderable]

	// Per-frame snapshot buffers, reused so passes may mutate the registries.
	keyBuf []uint32
	updBuf []Updateable
	fixBuf []FixedUpdateable
	rndBuf []Renderable
}

// NewLayer creates an unloaded layer. scene may be nil for a standalone layer.
func NewLayer(ctx *Context, name string, scene *Scene) *Layer {
	log := ctx.logger().With(zap.String("layer", name))
	return &Layer{
		name:             name,
		scene:            scene,
		ctx:              ctx,
		entities:         NewDenseRegistry[uint32, *Entity](log),
		updateables:      NewDenseRegistry[uint32, Updateable](log),
		fixedUpdateables: NewDenseRegistry[uint32, FixedUpdateable](log),
		renderables:      NewDenseRegistry[uint32, Renderable](log),
	}
}

// Name returns the layer's name.
func (l *Layer) Name() string { return l.name }

// State returns the current lifecycle state.
func (l *Layer) State() LayerState { return l.state }

// Scene returns the owning scene, or nil.
func (l *Layer) Scene() *Scene { return l.scene }

// Context returns the shared context.
func (l *Layer) Context() *Context { return l.ctx }

// Entity returns the owned entity with the given ID, or nil. It does not log.
func (l *Layer) Entity(id uint32) *Entity {
	if !l.entities.Has(id) {
		return nil
	}
	return *l.entities.Get(id)
}

// Entities returns the owned entities. The returned slice MUST NOT be mutated.
func (l *Layer) Entities() []*Entity {
	return l.entities.Values()
}

// FindByTag returns the first owned entity carrying tag, or nil. An empty
// tag matches nothing.
func (l *Layer) FindByTag(tag string) *Entity {
	if tag == "" {
		return nil
	}
	for _, e := range l.entities.Values() {
		if !e.queued && e.Tag() == tag {
			return e
		}
	}
	return nil
}

// NumEntities returns the number of owned entities, including queued ones.
func (l *Layer) NumEntities() int { return l.entities.Len() }

// NumUpdateables returns the size of the update registry.
func (l *Layer) NumUpdateables() int { return l.updateables.Len() }

// NumFixedUpdateables returns the size of the fixed-update registry.
func (l *Layer) NumFixedUpdateables() int { return l.fixedUpdateables.Len() }

// NumRenderables returns the size of the render registry.
func (l *Layer) NumRenderables() int { return l.renderables.Len() }

// --- Lifecycle ---

// Load creates the layer's entities from def and moves Unloaded → Loaded.
// On error the entities created so far stay owned by the layer.
func (l *Layer) Load(def *LayerDef) error {
	if l.state != LayerUnloaded {
		return fmt.Errorf("load layer %s in state %s: %w", l.name, l.state, ErrLayerState)
	}
	if l.ctx == nil || l.ctx.Factory == nil {
		return fmt.Errorf("load layer %s: no factory", l.name)
	}
	for i := range def.Entities {
		if _, err := l.spawn(&def.Entities[i], nil); err != nil {
			l.ctx.logger().Error("layer load failed", zap.String("layer", l.name), zap.Error(err))
			return fmt.Errorf("load layer %s: %w", l.name, err)
		}
	}
	l.state = LayerLoaded
	return nil
}

// Spawn creates an entity from def at runtime and attaches it under parent
// (nil for a root). Nested children in def are created too.
func (l *Layer) Spawn(def *EntityDef, parent *Entity) (*Entity, error) {
	if l.state == LayerDestroying {
		return nil, fmt.Errorf("spawn in layer %s: %w", l.name, ErrLayerState)
	}
	return l.spawn(def, parent)
}

func (l *Layer) spawn(def *EntityDef, parent *Entity) (*Entity, error) {
	b, kind, err := l.ctx.Factory.Create(l.ctx, def)
	if err != nil {
		return nil, err
	}
	e := NewEntity(def.Tag)
	e.Kind = kind
	e.X, e.Y = def.X, def.Y
	e.Behavior = b
	e.active = def.Active()
	l.AddEntity(e)
	if parent != nil {
		parent.AddChild(e)
	}
	for i := range def.Children {
		if _, err := l.spawn(&def.Children[i], e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// PostLoad runs OnSceneLoad on every behavior that implements SceneLoader and
// moves Loaded → PostLoad. The first hook error aborts the step.
func (l *Layer) PostLoad() error {
	if l.state != LayerLoaded {
		return fmt.Errorf("post-load layer %s in state %s: %w", l.name, l.state, ErrLayerState)
	}
	ents := append([]*Entity(nil), l.entities.Values()...)
	for _, e := range ents {
		if sl, ok := e.Behavior.(SceneLoader); ok {
			if err := sl.OnSceneLoad(); err != nil {
				return fmt.Errorf("post-load layer %s entity %d (%s): %w", l.name, e.ID, e.Tag(), err)
			}
		}
	}
	l.state = LayerPostLoad
	return nil
}

// Begin moves PostLoad → Running and runs Begin on every Beginner behavior.
func (l *Layer) Begin() {
	if l.state != LayerPostLoad {
		l.ctx.logger().Warn("Begin in wrong state", zap.String("layer", l.name), zap.Stringer("state", l.state))
		return
	}
	l.state = LayerRunning
	ents := append([]*Entity(nil), l.entities.Values()...)
	for _, e := range ents {
		if b, ok := e.Behavior.(Beginner); ok {
			b.Begin()
		}
	}
}

// Destroy tears down every owned entity and registry and moves the layer to
// Destroying. Destroyed layers are not reused.
func (l *Layer) Destroy() {
	if l.state == LayerDestroying {
		return
	}
	l.state = LayerDestroying
	ents := append([]*Entity(nil), l.entities.Values()...)
	for _, e := range ents {
		if d, ok := e.Behavior.(Destroyer); ok {
			d.OnDestroy()
		}
	}
	for _, e := range ents {
		e.swept = true
		e.queued = true
		e.parent = nil
		e.children = nil
	}
	l.updateables.Clear()
	l.fixedUpdateables.Clear()
	l.renderables.Clear()
	l.entities.Clear()
	l.deleteQueue = l.deleteQueue[:0]
}

// --- Entity ownership ---

// AddEntity takes ownership of e and subscribes its behavior to the
// registries matching its capabilities. Reports false if e already belongs
// to a layer.
func (l *Layer) AddEntity(e *Entity) bool {
	if l.state == LayerDestroying {
		l.ctx.logger().Warn("AddEntity on destroyed layer", zap.String("layer", l.name), zap.Uint32("entity", e.ID))
		return false
	}
	if e.layer != nil {
		if e.layer != l {
			return violation(l.ctx, "entity %d already owned by layer %s", e.ID, e.layer.name)
		}
		return false
	}
	if !l.entities.Add(e.ID, e) {
		return false
	}
	e.layer = l
	if a, ok := e.Behavior.(Attacher); ok {
		a.Attach(e)
	}
	if u, ok := e.Behavior.(Updateable); ok {
		l.AddUpdateable(e.ID, u)
	}
	if f, ok := e.Behavior.(FixedUpdateable); ok {
		l.AddFixedUpdateable(e.ID, f)
	}
	if r, ok := e.Behavior.(Renderable); ok {
		l.AddRenderable(e.ID, r)
	}
	return true
}

// DestroyEntity flags the entity with the given ID for the next sweep (see
// Entity.Destroy). Logs a warning and reports false for an unknown ID.
func (l *Layer) DestroyEntity(id uint32) bool {
	e := l.Entity(id)
	if e == nil {
		l.ctx.logger().Warn("DestroyEntity: unknown entity", zap.String("layer", l.name), zap.Uint32("entity", id))
		return false
	}
	e.Destroy()
	return true
}

func (l *Layer) queueDeletion(id uint32) {
	l.deleteQueue = append(l.deleteQueue, id)
}

// NumQueued returns the number of entities waiting for the sweep.
func (l *Layer) NumQueued() int { return len(l.deleteQueue) }

// --- Registries ---

// AddUpdateable subscribes u to the update pass under id.
func (l *Layer) AddUpdateable(id uint32, u Updateable) bool { return l.updateables.Add(id, u) }

// RemoveUpdateable unsubscribes id from the update pass.
func (l *Layer) RemoveUpdateable(id uint32) bool { return l.updateables.Remove(id) }

// AddFixedUpdateable subscribes f to the fixed-step pass under id.
func (l *Layer) AddFixedUpdateable(id uint32, f FixedUpdateable) bool {
	return l.fixedUpdateables.Add(id, f)
}

// RemoveFixedUpdateable unsubscribes id from the fixed-step pass.
func (l *Layer) RemoveFixedUpdateable(id uint32) bool { return l.fixedUpdateables.Remove(id) }

// AddRenderable subscribes r to the render pass under id.
func (l *Layer) AddRenderable(id uint32, r Renderable) bool { return l.renderables.Add(id, r) }

// RemoveRenderable unsubscribes id from the render pass.
func (l *Layer) RemoveRenderable(id uint32) bool { return l.renderables.Remove(id) }

// --- Per-frame passes ---

// Update ticks every updateable. Only running layers are ticked.
func (l *Layer) Update(dt float64) {
	if l.state != LayerRunning {
		return
	}
	l.keyBuf, l.updBuf = l.updateables.snapshot(l.keyBuf, l.updBuf)
	for i, u := range l.updBuf {
		if l.updateables.Has(l.keyBuf[i]) {
			u.Update(dt)
		}
	}
	clear(l.updBuf)
}

// FixedUpdate ticks every fixed-updateable with the fixed step.
func (l *Layer) FixedUpdate(dt float64) {
	if l.state != LayerRunning {
		return
	}
	l.keyBuf, l.fixBuf = l.fixedUpdateables.snapshot(l.keyBuf, l.fixBuf)
	for i, f := range l.fixBuf {
		if l.fixedUpdateables.Has(l.keyBuf[i]) {
			f.FixedUpdate(dt)
		}
	}
	clear(l.fixBuf)
}

// Render draws every renderable in registry order.
func (l *Layer) Render(screen *ebiten.Image) {
	if l.state != LayerRunning {
		return
	}
	l.keyBuf, l.rndBuf = l.renderables.snapshot(l.keyBuf, l.rndBuf)
	for i, r := range l.rndBuf {
		if l.renderables.Has(l.keyBuf[i]) {
			r.Render(screen)
		}
	}
	clear(l.rndBuf)
}

// DeleteQueuedEntities removes every flagged entity from the layer: it is
// detached from the tree, unsubscribed from all registries and dropped from
// the entity table. Call only after the frame's update and render passes
// have returned. Returns the number of entities removed.
func (l *Layer) DeleteQueuedEntities() int {
	n := 0
	// OnDestroy hooks may flag more entities; they are swept in this pass.
	for i := 0; i < len(l.deleteQueue); i++ {
		id := l.deleteQueue[i]
		e := l.Entity(id)
		if e == nil {
			continue
		}
		l.sweep(e)
		n++
	}
	l.deleteQueue = l.deleteQueue[:0]
	return n
}

func (l *Layer) sweep(e *Entity) {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
	// Children flagged with the entity detach themselves when swept; anything
	// attached after flagging becomes a root.
	kids := append([]*Entity(nil), e.children...)
	for _, c := range kids {
		if !c.queued {
			e.RemoveChild(c)
		}
	}
	if l.updateables.Has(e.ID) {
		l.updateables.Remove(e.ID)
	}
	if l.fixedUpdateables.Has(e.ID) {
		l.fixedUpdateables.Remove(e.ID)
	}
	if l.renderables.Has(e.ID) {
		l.renderables.Remove(e.ID)
	}
	if d, ok := e.Behavior.(Destroyer); ok {
		d.OnDestroy()
	}
	e.swept = true
	l.entities.Remove(e.ID)

	ev := LifecycleEvent{Type: EventEntityDestroyed, Layer: l.name, EntityID: e.ID, Tag: e.Tag()}
	if l.scene != nil {
		ev.SceneID = l.scene.id
	}
	l.ctx.emit(ev)
}
