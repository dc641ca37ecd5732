package script

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/phanxgames/grove"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Behavior is the "script" entity kind. Exactly one of File (read from
// Context.Assets) or Source must be set.
type Behavior struct {
	File   string `yaml:"file"`
	Source string `yaml:"source"`

	engine *Engine
	entity *grove.Entity
	env    *lua.LTable
	failed bool
}

func (e *Engine) newBehavior(_ *grove.Context, def *grove.EntityDef) (any, error) {
	b := &Behavior{engine: e}
	if err := def.DecodeAttrs(b); err != nil {
		return nil, err
	}
	if (b.File == "") == (b.Source == "") {
		return nil, fmt.Errorf("script needs one of file or source: %w", grove.ErrMissingAttribute)
	}
	return b, nil
}

// Attach implements grove.Attacher.
func (b *Behavior) Attach(e *grove.Entity) { b.entity = e }

// OnSceneLoad compiles and runs the script body in a fresh environment.
func (b *Behavior) OnSceneLoad() error {
	vm := b.engine.vm
	name := b.File
	src := b.Source
	if b.File != "" {
		raw, err := fs.ReadFile(b.engine.ctx.Assets, b.File)
		if err != nil {
			return fmt.Errorf("read script %s: %w", b.File, err)
		}
		src = string(raw)
	} else {
		name = fmt.Sprintf("entity-%d", b.entity.ID)
	}

	fn, err := vm.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("compile script %s: %w", name, err)
	}
	env := vm.NewTable()
	mt := vm.NewTable()
	mt.RawSetString("__index", vm.G.Global)
	vm.SetMetatable(env, mt)
	env.RawSetString("self", b.selfTable())
	fn.Env = env

	vm.Push(fn)
	if err := vm.PCall(0, 0, nil); err != nil {
		return fmt.Errorf("run script %s: %w", name, err)
	}
	b.env = env
	return nil
}

// Begin implements grove.Beginner.
func (b *Behavior) Begin() { b.call("begin") }

// Update implements grove.Updateable.
func (b *Behavior) Update(dt float64) {
	if !b.entity.IsActive() {
		return
	}
	b.call("update", lua.LNumber(dt))
}

// OnDestroy implements grove.Destroyer.
func (b *Behavior) OnDestroy() { b.call("destroy") }

// call invokes a script function if defined. A runtime error is logged once
// and disables the script.
func (b *Behavior) call(name string, args ...lua.LValue) {
	if b.env == nil || b.failed {
		return
	}
	fn := b.env.RawGetString(name)
	if fn.Type() != lua.LTFunction {
		return
	}
	err := b.engine.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil {
		b.failed = true
		b.engine.log.Error("script error; disabling",
			zap.Uint32("entity", b.entity.ID),
			zap.String("tag", b.entity.Tag()),
			zap.String("func", name),
			zap.Error(err))
	}
}

// selfTable exposes the owning entity to Lua. Methods are called with
// colon syntax, so argument 1 is the table itself.
func (b *Behavior) selfTable() *lua.LTable {
	vm := b.engine.vm
	t := vm.NewTable()
	vm.SetFuncs(t, map[string]lua.LGFunction{
		"set_active": func(L *lua.LState) int {
			b.entity.SetActive(L.ToBool(2))
			return 0
		},
		"toggle": func(L *lua.LState) int {
			b.entity.ToggleActive()
			return 0
		},
		"is_active": func(L *lua.LState) int {
			L.Push(lua.LBool(b.entity.IsActive()))
			return 1
		},
		"destroy": func(L *lua.LState) int {
			b.entity.Destroy()
			return 0
		},
		"tag": func(L *lua.LState) int {
			L.Push(lua.LString(b.entity.Tag()))
			return 1
		},
		"id": func(L *lua.LState) int {
			L.Push(lua.LNumber(b.entity.ID))
			return 1
		},
	})
	return t
}
