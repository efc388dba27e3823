package scripting

import (
	"github.com/l1jgo/ecsreg/internal/component"
	"github.com/l1jgo/ecsreg/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Entity ids cross into Lua as the integer ToType form. Lua numbers are
// float64, so ids round-trip exactly while they fit in 53 bits.

func (e *Engine[E]) module() *lua.LTable {
	return e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"allocate":     e.luaAllocate,
		"deallocate":   e.luaDeallocate,
		"defer":        e.luaDefer,
		"valid":        e.luaValid,
		"active":       e.luaActive,
		"position":     e.luaPosition,
		"set_position": e.luaSetPosition,
		"translate":    e.luaTranslate,
		"velocity":     e.luaVelocity,
		"set_velocity": e.luaSetVelocity,
		"each":         e.luaEach,
		"spawn":        e.luaSpawn,
		"log":          e.luaLog,
	})
}

func (e *Engine[E]) pushID(L *lua.LState, h ecs.Handle[E]) {
	L.Push(lua.LNumber(h.Entity().ToType()))
}

func (e *Engine[E]) checkHandle(L *lua.LState, n int) ecs.Handle[E] {
	return e.reg.Handle(ecs.FromType[E](uint64(L.CheckNumber(n))))
}

func lFloat(L *lua.LState, n int) float32 {
	return float32(L.CheckNumber(n))
}

func (e *Engine[E]) luaAllocate(L *lua.LState) int {
	e.pushID(L, e.reg.Allocate())
	return 1
}

func (e *Engine[E]) luaDeallocate(L *lua.LState) int {
	L.Push(lua.LBool(e.reg.Deallocate(e.checkHandle(L, 1))))
	return 1
}

func (e *Engine[E]) luaDefer(L *lua.LState) int {
	e.reg.Defer(e.checkHandle(L, 1))
	return 0
}

func (e *Engine[E]) luaValid(L *lua.LState) int {
	L.Push(lua.LBool(e.checkHandle(L, 1).Valid()))
	return 1
}

func (e *Engine[E]) luaActive(L *lua.LState) int {
	L.Push(lua.LNumber(e.reg.Active()))
	return 1
}

// luaPosition returns x, y, z, or nil for entities without a Transform.
func (e *Engine[E]) luaPosition(L *lua.LState) int {
	tr := ecs.TryGet[ecs.Transform](e.checkHandle(L, 1))
	if tr == nil {
		L.Push(lua.LNil)
		return 1
	}
	for _, v := range tr.Position {
		L.Push(lua.LNumber(v))
	}
	return 3
}

func (e *Engine[E]) luaSetPosition(L *lua.LState) int {
	tr := ecs.TryGet[ecs.Transform](e.checkHandle(L, 1))
	if tr != nil {
		tr.SetPosition(lFloat(L, 2), lFloat(L, 3), lFloat(L, 4))
	}
	L.Push(lua.LBool(tr != nil))
	return 1
}

func (e *Engine[E]) luaTranslate(L *lua.LState) int {
	tr := ecs.TryGet[ecs.Transform](e.checkHandle(L, 1))
	if tr != nil {
		tr.Translate(lFloat(L, 2), lFloat(L, 3), lFloat(L, 4))
	}
	L.Push(lua.LBool(tr != nil))
	return 1
}

func (e *Engine[E]) luaVelocity(L *lua.LState) int {
	v := ecs.TryGet[component.Velocity](e.checkHandle(L, 1))
	if v == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v.X))
	L.Push(lua.LNumber(v.Y))
	L.Push(lua.LNumber(v.Z))
	return 3
}

func (e *Engine[E]) luaSetVelocity(L *lua.LState) int {
	h := e.checkHandle(L, 1)
	v := component.Velocity{X: lFloat(L, 2), Y: lFloat(L, 3), Z: lFloat(L, 4)}
	ecs.AssignOrReplace(h, v)
	L.Push(lua.LBool(h.Valid()))
	return 1
}

// luaEach calls fn(id) for every entity live at the time of the call,
// skipping those deallocated along the way. fn returning false stops.
func (e *Engine[E]) luaEach(L *lua.LState) int {
	fn := L.CheckFunction(1)
	handles := e.reg.EntityView().Handles()
	for _, h := range handles {
		if !h.Valid() {
			continue
		}
		L.Push(fn)
		e.pushID(L, h)
		L.Call(1, 1)
		ret := L.Get(-1)
		L.Pop(1)
		if ret == lua.LFalse {
			break
		}
	}
	return 0
}

// luaSpawn returns the new id, or nil and a message.
func (e *Engine[E]) luaSpawn(L *lua.LState) int {
	name := L.CheckString(1)
	if e.prefabs == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString("no prefabs loaded"))
		return 2
	}
	h, err := e.prefabs.Spawn(e.reg, name)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	e.pushID(L, h)
	return 1
}

func (e *Engine[E]) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
