package grove

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"":          ease.Linear,
	"linear":    ease.Linear,
	"inQuad":    ease.InQuad,
	"outQuad":   ease.OutQuad,
	"inOutQuad": ease.InOutQuad,
	"inOutSine": ease.InOutSine,
	"outBounce": ease.OutBounce,
}

// Tween animates one property of a target entity. The target is the tween's
// parent, or the parent's child tagged Target. Properties are "x", "y" and
// "alpha" (sprite targets only).
//
// If the target is queued for deletion the tween stops immediately.
type Tween struct {
	Target   string  `yaml:"target"`
	Property string  `yaml:"property"`
	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
	Loop     bool    `yaml:"loop"`

	// Done is set once a non-looping tween finishes or its target is gone.
	Done bool `yaml:"-"`

	tween  *gween.Tween
	entity *Entity
	target *Entity
	field  *float64
}

func newTween(_ *Context, def *EntityDef) (any, error) {
	t := &Tween{Property: "x", Duration: 1}
	if err := def.DecodeAttrs(t); err != nil {
		return nil, err
	}
	fn, ok := easings[t.Ease]
	if !ok {
		return nil, fmt.Errorf("tween ease %q: unknown easing", t.Ease)
	}
	if t.Duration <= 0 {
		return nil, fmt.Errorf("tween duration %v: must be positive", t.Duration)
	}
	t.tween = gween.New(float32(t.From), float32(t.To), float32(t.Duration), fn)
	return t, nil
}

// Attach implements Attacher.
func (t *Tween) Attach(e *Entity) { t.entity = e }

// OnSceneLoad resolves the target once the whole scene exists.
func (t *Tween) OnSceneLoad() error {
	parent := t.entity.Parent()
	switch {
	case parent == nil:
		return fmt.Errorf("tween %d has no parent: %w", t.entity.ID, ErrMissingAttribute)
	case t.Target == "":
		t.target = parent
	default:
		t.target = parent.ChildByTag(t.Target)
	}
	if t.target == nil {
		return fmt.Errorf("tween target %q: %w", t.Target, ErrMissingAttribute)
	}
	switch t.Property {
	case "x":
		t.field = &t.target.X
	case "y":
		t.field = &t.target.Y
	case "alpha":
		s, ok := t.target.Behavior.(*Sprite)
		if !ok {
			return fmt.Errorf("tween alpha on non-sprite %q", t.target.Tag())
		}
		t.field = &s.Alpha
	default:
		return fmt.Errorf("tween property %q: unknown property", t.Property)
	}
	*t.field = t.From
	return nil
}

// Update advances the tween by dt seconds and writes the value to the target.
func (t *Tween) Update(dt float64) {
	if t.Done || t.field == nil || !t.entity.IsActive() {
		return
	}
	if t.target.IsQueuedForDeletion() {
		t.Done = true
		return
	}
	val, finished := t.tween.Update(float32(dt))
	*t.field = float64(val)
	if !finished {
		return
	}
	if t.Loop {
		t.tween.Reset()
		return
	}
	t.Done = true
}
