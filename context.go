package grove

import (
	"io/fs"

	"go.uber.org/zap"
)

// Context carries the collaborators shared by a SceneManager and everything
// it owns. Build one at startup and pass it to NewSceneManager; layers and
// entities reach it through their owners.
type Context struct {
	// Log receives every diagnostic. Nil means zap.L().
	Log *zap.Logger

	// Assets is the file system scene definitions and scripts are read from.
	Assets fs.FS

	// Factory constructs entity behaviors by type name.
	Factory *Factory

	// Events optionally receives lifecycle notifications.
	Events EventSink

	// Scenes is set by NewSceneManager so behaviors can queue transitions.
	Scenes *SceneManager

	// Debug turns invariant violations into panics and enables per-frame
	// timing logs. With Debug off, violations are logged and refused.
	Debug bool
}

func (c *Context) logger() *zap.Logger {
	if c == nil || c.Log == nil {
		return zap.L()
	}
	return c.Log
}

func (c *Context) emit(ev LifecycleEvent) {
	if c == nil || c.Events == nil {
		return
	}
	c.Events.Emit(ev)
}

// EventSink receives lifecycle events. See ecs.NewDonburiSink for an adapter
// that forwards them into a Donburi world.
type EventSink interface {
	Emit(event LifecycleEvent)
}

// LifecycleEventType identifies a lifecycle notification.
type LifecycleEventType uint8

const (
	EventSceneLoaded      LifecycleEventType = iota // Load and OnSceneLoad succeeded
	EventSceneBegan                                 // all layers are running
	EventSceneDestroyed                             // all layers torn down
	EventEntityDestroyed                            // entity swept from its layer
	EventTransitionQueued                           // QueueTransition accepted a target
)

// LifecycleEvent carries lifecycle data to an EventSink.
type LifecycleEvent struct {
	Type     LifecycleEventType
	SceneID  string
	Layer    string
	EntityID uint32
	Tag      string
}
