package grove

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RegisterBuiltins registers the built-in entity kinds on ctx.Factory:
// container, sprite, label, tween, fps and switch.
func RegisterBuiltins(ctx *Context) error {
	f := ctx.Factory
	return errors.Join(
		f.Register(ctx, "container", KindContainer, nil),
		f.Register(ctx, "sprite", KindSprite, newSprite),
		f.Register(ctx, "label", KindLabel, newLabel),
		f.Register(ctx, "tween", KindTween, newTween),
		f.Register(ctx, "fps", KindFPS, newFPSCounter),
		f.Register(ctx, "switch", KindSwitch, newSwitch),
	)
}

// --- Sprite ---

// Sprite draws a solid rectangle at its entity's world position.
type Sprite struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Color  Color   `yaml:"color"`
	Alpha  float64 `yaml:"alpha"`

	entity *Entity
}

func newSprite(_ *Context, def *EntityDef) (any, error) {
	s := &Sprite{Width: 16, Height: 16, Color: ColorWhite, Alpha: 1}
	if err := def.DecodeAttrs(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Attach implements Attacher.
func (s *Sprite) Attach(e *Entity) { s.entity = e }

// Render implements Renderable. Inactive entities are skipped.
func (s *Sprite) Render(screen *ebiten.Image) {
	if !s.entity.IsActive() {
		return
	}
	p := s.entity.WorldPosition()
	drawRect(screen, p.X, p.Y, s.Width, s.Height, s.Color, s.Alpha)
}

// --- Label ---

// Label prints debug text at its entity's world position.
type Label struct {
	Text string `yaml:"text"`

	entity *Entity
}

func newLabel(_ *Context, def *EntityDef) (any, error) {
	l := &Label{}
	if err := def.DecodeAttrs(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Attach implements Attacher.
func (l *Label) Attach(e *Entity) { l.entity = e }

// Render implements Renderable.
func (l *Label) Render(screen *ebiten.Image) {
	if screen == nil || !l.entity.IsActive() {
		return
	}
	p := l.entity.WorldPosition()
	ebitenutil.DebugPrintAt(screen, l.Text, int(p.X), int(p.Y))
}

// --- Switch ---

// Switch queues a scene transition when its key is pressed or, if After is
// set, once that many seconds of active time have elapsed. It fires once.
type Switch struct {
	Target string  `yaml:"target"`
	Key    string  `yaml:"key"`
	After  float64 `yaml:"after"`

	key     ebiten.Key
	hasKey  bool
	elapsed float64
	fired   bool
	entity  *Entity
	ctx     *Context
}

func newSwitch(ctx *Context, def *EntityDef) (any, error) {
	s := &Switch{ctx: ctx}
	if err := def.DecodeAttrs(s); err != nil {
		return nil, err
	}
	if s.Target == "" {
		return nil, fmt.Errorf("switch target: %w", ErrMissingAttribute)
	}
	if s.Key != "" {
		if err := s.key.UnmarshalText([]byte(s.Key)); err != nil {
			return nil, fmt.Errorf("switch key %q: %w", s.Key, err)
		}
		s.hasKey = true
	}
	return s, nil
}

// Attach implements Attacher.
func (s *Switch) Attach(e *Entity) { s.entity = e }

// Update implements Updateable.
func (s *Switch) Update(dt float64) {
	if s.fired || !s.entity.IsActive() {
		return
	}
	s.elapsed += dt
	pressed := s.hasKey && inpututil.IsKeyJustPressed(s.key)
	if !pressed && (s.After <= 0 || s.elapsed < s.After) {
		return
	}
	if s.ctx.Scenes != nil && s.ctx.Scenes.QueueTransition(s.Target) {
		s.fired = true
	}
}
