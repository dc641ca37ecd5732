// Package script runs grove entity behaviors written in Lua.
//
// A single Engine wraps one gopher-lua VM shared by every script entity.
// Each entity's file runs in its own environment table, so globals defined by
// one script do not leak into another. The VM is not goroutine safe; like
// the rest of grove it is only touched from the frame loop.
//
// Scripts may define begin(), update(dt) and destroy(). The global module
// grove provides transition(id) and log(msg); the per-script table self
// exposes the owning entity.
package script

import (
	"github.com/phanxgames/grove"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for script behaviors.
type Engine struct {
	vm  *lua.LState
	ctx *grove.Context
	log *zap.Logger
}

// NewEngine creates a Lua VM bound to ctx.
func NewEngine(ctx *grove.Context) *Engine {
	log := ctx.Log
	if log == nil {
		log = zap.L()
	}
	e := &Engine{
		vm:  lua.NewState(),
		ctx: ctx,
		log: log.Named("lua"),
	}
	e.vm.SetGlobal("API_VERSION", lua.LNumber(1))
	mod := e.vm.NewTable()
	e.vm.SetFuncs(mod, map[string]lua.LGFunction{
		"transition": e.luaTransition,
		"log":        e.luaLog,
	})
	e.vm.SetGlobal("grove", mod)
	return e
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// Register adds the "script" entity kind to ctx.Factory.
func Register(ctx *grove.Context, e *Engine) error {
	return ctx.Factory.Register(ctx, "script", grove.KindScript, e.newBehavior)
}

// grove.transition(id) -> bool
func (e *Engine) luaTransition(L *lua.LState) int {
	id := L.CheckString(1)
	ok := false
	if e.ctx.Scenes != nil {
		ok = e.ctx.Scenes.QueueTransition(id)
	}
	L.Push(lua.LBool(ok))
	return 1
}

// grove.log(msg)
func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info(L.CheckString(1))
	return 0
}
