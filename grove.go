package grove

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts a Color to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

// Vec2 is a 2D vector used for positions and offsets.
type Vec2 struct {
	X, Y float64
}

// EntityKind is the closed set of entity kinds a Factory can construct.
// It is a tag only; behavior lives in the entity's Behavior value.
type EntityKind uint8

const (
	KindContainer EntityKind = iota // grouping node with no behavior
	KindSprite                      // solid or tinted rectangle
	KindLabel                       // debug text
	KindTween                       // gween-driven property animation
	KindFPS                         // frame rate overlay
	KindSwitch                      // queues a scene transition on a key or timer
	KindScript                      // Lua-driven behavior (package script)
	KindCustom                      // user-registered kind
)

var kindNames = [...]string{
	KindContainer: "container",
	KindSprite:    "sprite",
	KindLabel:     "label",
	KindTween:     "tween",
	KindFPS:       "fps",
	KindSwitch:    "switch",
	KindScript:    "script",
	KindCustom:    "custom",
}

// String returns the kind's definition name.
func (k EntityKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// LayerState is a Layer's position in its lifecycle.
// Transitions only move forward: Unloaded → Loaded → PostLoad → Running,
// and any state → Destroying, which is terminal.
type LayerState uint8

const (
	LayerUnloaded   LayerState = iota // constructed, nothing parsed
	LayerLoaded                       // entities created from the definition
	LayerPostLoad                     // post-load hooks have run
	LayerRunning                      // receiving per-frame passes
	LayerDestroying                   // torn down; terminal
)

func (s LayerState) String() string {
	switch s {
	case LayerUnloaded:
		return "unloaded"
	case LayerLoaded:
		return "loaded"
	case LayerPostLoad:
		return "postload"
	case LayerRunning:
		return "running"
	case LayerDestroying:
		return "destroying"
	default:
		return "invalid"
	}
}

// Capability interfaces. A Behavior implements any subset; the owning Layer
// subscribes it to the matching registries when the entity is added.

// Updateable is ticked once per frame by Layer.Update.
type Updateable interface {
	Update(dt float64)
}

// FixedUpdateable is ticked at the fixed simulation step by Layer.FixedUpdate.
type FixedUpdateable interface {
	FixedUpdate(dt float64)
}

// Attacher is told which entity owns it when the entity joins a layer.
type Attacher interface {
	Attach(e *Entity)
}

// SceneLoader runs once after every layer of the scene has loaded.
// Returning an error fails the scene load.
type SceneLoader interface {
	OnSceneLoad() error
}

// Beginner runs once when the scene starts running.
type Beginner interface {
	Begin()
}

// Destroyer runs when the entity is swept or its layer is torn down.
type Destroyer interface {
	OnDestroy()
}
