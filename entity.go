package grove

import (
	"unique"

	"go.uber.org/zap"
)

// entityIDCounter is a plain counter (not atomic; grove is single-threaded).
var entityIDCounter uint32

func nextEntityID() uint32 {
	entityIDCounter++
	return entityIDCounter
}

// Entity is a node in a layer's scene tree. Children are referenced, not
// owned: every entity is owned by its Layer's entity table and only leaves it
// through the layer's deferred sweep.
type Entity struct {
	// Identity
	ID   uint32
	Kind EntityKind

	// Local position relative to the parent.
	X, Y float64

	// Behavior is the entity's kind-specific state. It may implement any of
	// the capability interfaces (Updateable, Renderable, ...).
	Behavior any

	// Metadata
	UserData any

	// Hierarchy
	parent   *Entity
	children []*Entity
	tag      unique.Handle[string]
	layer    *Layer

	active bool
	queued bool // flagged by Destroy or DestroyEntityAndChildren
	swept  bool // removed from the layer by the deletion sweep

	// Lifecycle hooks (nil by default; zero cost when unused)
	OnParentSet    func(parent *Entity)
	OnChildAdded   func(child *Entity)
	OnChildRemoved func(child *Entity)
	OnActive       func()
	OnInactive     func()
}

// NewEntity creates an active, parentless container entity. An empty tag
// means the entity is untagged. The entity is not part of any layer until
// passed to Layer.AddEntity.
func NewEntity(tag string) *Entity {
	return &Entity{
		ID:     nextEntityID(),
		Kind:   KindContainer,
		tag:    unique.Make(tag),
		active: true,
	}
}

// Tag returns the entity's immutable tag, or "" if it has none.
func (e *Entity) Tag() string {
	if e.tag == (unique.Handle[string]{}) {
		return ""
	}
	return e.tag.Value()
}

// Parent returns the parent entity, or nil for a root.
func (e *Entity) Parent() *Entity {
	return e.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Entity) Children() []*Entity {
	return e.children
}

// NumChildren returns the number of children.
func (e *Entity) NumChildren() int {
	return len(e.children)
}

// ChildAt returns the child at the given index.
func (e *Entity) ChildAt(index int) *Entity {
	return e.children[index]
}

// Layer returns the owning layer, or nil if the entity was never added to one.
func (e *Entity) Layer() *Layer {
	return e.layer
}

// IsQueuedForDeletion reports whether the entity is waiting for the sweep.
func (e *Entity) IsQueuedForDeletion() bool {
	return e.queued
}

func (e *Entity) context() *Context {
	if e.layer == nil {
		return nil
	}
	return e.layer.ctx
}

func (e *Entity) logger() *zap.Logger {
	return e.context().logger()
}

// --- Tree manipulation ---

// SetParent moves the entity under newParent, detaching it from its current
// parent first. A nil newParent makes the entity a root. No-op if newParent
// is already the parent.
func (e *Entity) SetParent(newParent *Entity) {
	if newParent == e.parent {
		return
	}
	debugCheckSwept(e, "SetParent")
	if newParent != nil && isAncestor(e, newParent) {
		violation(e.context(), "SetParent of %d under %d would create a cycle", e.ID, newParent.ID)
		return
	}
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
	if newParent != nil {
		newParent.attach(e)
	}
}

// AddChild appends child to this entity's children. Adding an existing child
// again is a no-op. If child has another parent it is detached from it first.
func (e *Entity) AddChild(child *Entity) {
	if child == nil {
		violation(e.context(), "AddChild of nil child to %d", e.ID)
		return
	}
	debugCheckSwept(e, "AddChild (parent)")
	debugCheckSwept(child, "AddChild (child)")
	for _, c := range e.children {
		if c == child {
			return
		}
	}
	if isAncestor(child, e) {
		violation(e.context(), "AddChild of %d to %d would create a cycle", child.ID, e.ID)
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	e.attach(child)
	if e.OnChildAdded != nil {
		e.OnChildAdded(child)
	}
}

// attach links a parentless child under e and runs the child's parent and
// activation hooks.
func (e *Entity) attach(child *Entity) {
	e.children = append(e.children, child)
	child.parent = e
	if child.OnParentSet != nil {
		child.OnParentSet(e)
	}
	child.propagateActivation()
	debugCheckTreeDepth(child)
	debugCheckChildCount(e)
}

// RemoveChild detaches child from this entity. The last child takes the
// removed child's slot, so sibling order is not preserved. Logs a warning and
// reports false if child is not a child of this entity.
func (e *Entity) RemoveChild(child *Entity) bool {
	for i, c := range e.children {
		if c != child {
			continue
		}
		last := len(e.children) - 1
		e.children[i] = e.children[last]
		e.children[last] = nil
		e.children = e.children[:last]
		child.parent = nil
		if e.OnChildRemoved != nil {
			e.OnChildRemoved(child)
		}
		return true
	}
	var childID uint32
	if child != nil {
		childID = child.ID
	}
	e.logger().Warn("RemoveChild: not a child", zap.Uint32("parent", e.ID), zap.Uint32("child", childID))
	return false
}

// ChildByTag returns the first direct child carrying tag, or nil.
// Grandchildren are not searched. An empty tag matches nothing.
func (e *Entity) ChildByTag(tag string) *Entity {
	if tag == "" {
		return nil
	}
	h := unique.Make(tag)
	for _, c := range e.children {
		if c.tag == h {
			return c
		}
	}
	return nil
}

// --- Destruction ---

// Destroy flags the entity for deletion and splices it out of the tree: its
// children are moved to its own parent (or become roots). Children are not
// destroyed. No-op if already flagged.
func (e *Entity) Destroy() {
	if e.queued {
		return
	}
	kids := append([]*Entity(nil), e.children...)
	for _, c := range kids {
		c.SetParent(e.parent)
	}
	e.markQueued()
}

// DestroyEntityAndChildren flags the entity and its whole subtree for
// deletion, deepest first. Nothing is reparented. No-op if already flagged.
func (e *Entity) DestroyEntityAndChildren() {
	if e.queued {
		return
	}
	for _, c := range e.children {
		c.DestroyEntityAndChildren()
	}
	e.markQueued()
}

func (e *Entity) markQueued() {
	e.queued = true
	if e.layer != nil {
		e.layer.queueDeletion(e.ID)
	}
}

// --- Activity ---

// SetActive sets the entity's local active flag and runs OnActive or
// OnInactive for it, then repeats the hook selection down the subtree.
//
// Hooks follow each entity's local flag even when an ancestor is inactive,
// so OnActive can fire for an entity whose IsActive reports false.
func (e *Entity) SetActive(active bool) {
	if active == e.active {
		return
	}
	e.active = active
	e.fireActivation()
	for _, c := range e.children {
		c.propagateActivation()
	}
}

// ToggleActive flips the local active flag.
func (e *Entity) ToggleActive() {
	e.SetActive(!e.active)
}

// propagateActivation runs the hook selection for a parent-side activity
// change and recurses into the subtree.
func (e *Entity) propagateActivation() {
	e.fireActivation()
	for _, c := range e.children {
		c.propagateActivation()
	}
}

func (e *Entity) fireActivation() {
	if e.active {
		if e.OnActive != nil {
			e.OnActive()
		}
	} else if e.OnInactive != nil {
		e.OnInactive()
	}
}

// IsActive reports the effective activity: the local flag masked by every
// ancestor. It walks the ancestor chain on each call.
func (e *Entity) IsActive() bool {
	for p := e; p != nil; p = p.parent {
		if !p.active {
			return false
		}
	}
	return true
}

// IsActiveSelf returns the local flag, ignoring ancestors.
func (e *Entity) IsActiveSelf() bool {
	return e.active
}

// WorldPosition returns the entity's position summed over its ancestors.
func (e *Entity) WorldPosition() Vec2 {
	var v Vec2
	for p := e; p != nil; p = p.parent {
		v.X += p.X
		v.Y += p.Y
	}
	return v
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Entity) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}
