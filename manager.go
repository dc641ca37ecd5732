package grove

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ErrUnknownScene reports a scene id missing from the directory.
var ErrUnknownScene = errors.New("grove: unknown scene")

type sceneEntry struct {
	path  string
	scene *Scene
}

// SceneManager owns the scene directory and the single active scene.
// Transitions are deferred: QueueTransition records a target and Update
// performs the switch only after the active scene's Update has returned.
type SceneManager struct {
	ctx     *Context
	dir     Directory
	entries map[string]*sceneEntry

	active   *Scene
	activeID string

	pending   bool
	pendingID string
	requests  uint64 // accepted QueueTransition calls
}

// NewSceneManager creates a manager for dir and registers it on ctx.
// Call Init before entering a scene.
func NewSceneManager(ctx *Context, dir Directory) *SceneManager {
	m := &SceneManager{ctx: ctx, dir: dir}
	ctx.Scenes = m
	return m
}

// Init validates the start scene and creates one unloaded Scene per
// directory entry.
func (m *SceneManager) Init() error {
	log := m.ctx.logger()
	found := false
	for _, e := range m.dir.Scenes {
		if e.ID == m.dir.Start {
			found = true
			break
		}
	}
	if !found {
		err := fmt.Errorf("start scene %q: %w", m.dir.Start, ErrUnknownScene)
		log.Error("scene manager init failed", zap.Error(err))
		return err
	}
	m.entries = make(map[string]*sceneEntry, len(m.dir.Scenes))
	for _, e := range m.dir.Scenes {
		if _, dup := m.entries[e.ID]; dup {
			log.Warn("duplicate scene id in directory; keeping first", zap.String("scene", e.ID))
			continue
		}
		m.entries[e.ID] = &sceneEntry{path: e.Path, scene: NewScene(m.ctx, e.ID, e.Path)}
	}
	log.Info("scene manager ready", zap.Int("scenes", len(m.entries)), zap.String("start", m.dir.Start))
	return nil
}

// EnterStartScene performs the first transition, into the start scene.
func (m *SceneManager) EnterStartScene() error {
	if !m.QueueTransition(m.dir.Start) {
		return fmt.Errorf("enter start scene %q: %w", m.dir.Start, ErrUnknownScene)
	}
	return m.TransitionToScene()
}

// QueueTransition requests a switch to the scene with the given id at the end
// of the next Update. An unknown id logs a warning, changes nothing and
// reports false.
func (m *SceneManager) QueueTransition(id string) bool {
	if _, ok := m.entries[id]; !ok {
		m.ctx.logger().Warn("QueueTransition: unknown scene", zap.String("scene", id))
		return false
	}
	m.pending = true
	m.pendingID = id
	m.requests++
	m.ctx.emit(LifecycleEvent{Type: EventTransitionQueued, SceneID: id})
	return true
}

// Update ticks the active scene, then performs any queued transition. The
// active scene is never destroyed while its own Update is on the stack.
func (m *SceneManager) Update(dt float64) {
	if m.active != nil {
		m.active.Update(dt)
	}
	if m.pending {
		if err := m.TransitionToScene(); err != nil {
			m.ctx.logger().Error("scene transition failed", zap.String("scene", m.pendingID), zap.Error(err))
		}
	}
}

// FixedUpdate ticks the active scene's fixed-step registries.
func (m *SceneManager) FixedUpdate(dt float64) {
	if m.active != nil {
		m.active.FixedUpdate(dt)
	}
}

// Render draws the active scene and then runs its deletion sweep.
func (m *SceneManager) Render(screen *ebiten.Image) {
	if m.active == nil {
		return
	}
	m.active.Render(screen)
	m.active.EndFrame()
}

// TransitionToScene destroys the active scene and loads, post-loads and
// begins the pending target.
//
// The target becomes active before loading. If Load or OnSceneLoad fails the
// active scene stays the partially loaded target and the transition stays
// pending, so the next Update retries it.
//
// The target is fixed when the call starts. A transition queued by a
// destroy or post-load hook is dropped with a warning when the load succeeds.
func (m *SceneManager) TransitionToScene() error {
	id := m.pendingID
	requests := m.requests
	entry, ok := m.entries[id]
	if !ok {
		m.pending = false
		return fmt.Errorf("transition to %q: %w", id, ErrUnknownScene)
	}
	if m.active != nil {
		m.active.Destroy()
	}
	m.active = entry.scene
	m.activeID = id

	if err := m.active.Load(entry.path); err != nil {
		m.pendingID = id
		return fmt.Errorf("transition to %q: %w", id, err)
	}
	if err := m.active.OnSceneLoad(); err != nil {
		m.pendingID = id
		return fmt.Errorf("transition to %q: %w", id, err)
	}
	if m.requests != requests {
		m.ctx.logger().Warn("transition queued during scene change dropped",
			zap.String("scene", id), zap.String("dropped", m.pendingID))
	}
	m.pending = false
	m.pendingID = id
	m.active.Begin()
	m.ctx.logger().Info("entered scene", zap.String("scene", id))
	return nil
}

// Shutdown destroys the active scene.
func (m *SceneManager) Shutdown() {
	if m.active != nil {
		m.active.Destroy()
		m.active = nil
		m.activeID = ""
	}
	m.pending = false
}

// Active returns the active scene, or nil before the first transition.
func (m *SceneManager) Active() *Scene { return m.active }

// ActiveID returns the active scene's id, or "".
func (m *SceneManager) ActiveID() string { return m.activeID }

// Scene returns the scene registered under id, or nil.
func (m *SceneManager) Scene(id string) *Scene {
	if e, ok := m.entries[id]; ok {
		return e.scene
	}
	return nil
}

// TransitionPending reports whether a transition is queued.
func (m *SceneManager) TransitionPending() bool { return m.pending }

// PendingID returns the queued target id. Only meaningful while
// TransitionPending reports true.
func (m *SceneManager) PendingID() string { return m.pendingID }

// Directory returns the scene directory the manager was created with.
func (m *SceneManager) Directory() Directory { return m.dir }

// StartID returns the configured start scene id.
func (m *SceneManager) StartID() string { return m.dir.Start }
