package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/l1jgo/ecsreg/internal/core/ecs"
	coresys "github.com/l1jgo/ecsreg/internal/core/system"
	"github.com/l1jgo/ecsreg/internal/data"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// APIVersion is exposed to scripts as the global API_VERSION.
const APIVersion = 1

// Engine wraps a single gopher-lua VM bound to one registry. Scripts reach
// the registry through the "ecs" module. Single-goroutine access only.
type Engine[E ecs.Identifier[E]] struct {
	vm      *lua.LState
	reg     *ecs.Registry[E]
	prefabs *data.PrefabTable[E]
	log     *zap.Logger
}

// NewEngine creates a Lua engine over reg and loads all scripts from
// scriptsDir: core/ first, then the directory itself. A missing directory
// loads nothing.
func NewEngine[E ecs.Identifier[E]](scriptsDir string, reg *ecs.Registry[E], log *zap.Logger) (*Engine[E], error) {
	e := newEngine(reg, log)
	if err := e.loadDir(filepath.Join(scriptsDir, "core")); err != nil {
		e.Close()
		return nil, fmt.Errorf("load core scripts: %w", err)
	}
	if err := e.loadDir(scriptsDir); err != nil {
		e.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func newEngine[E ecs.Identifier[E]](reg *ecs.Registry[E], log *zap.Logger) *Engine[E] {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	e := &Engine[E]{vm: vm, reg: reg, log: log}
	mod := e.module()
	vm.SetGlobal("ecs", mod)
	vm.PreloadModule("ecs", func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	return e
}

// loadDir loads all .lua files in a directory.
func (e *Engine[E]) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua in the engine's VM.
func (e *Engine[E]) DoString(src string) error {
	return e.vm.DoString(src)
}

// UsePrefabs makes t available to scripts through ecs.spawn.
func (e *Engine[E]) UsePrefabs(t *data.PrefabTable[E]) {
	e.prefabs = t
}

// Phase places Lua systems in the update phase.
func (e *Engine[E]) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Update calls the global Lua function update(dt) with dt in seconds.
// Scripts without an update function are skipped; errors are logged.
func (e *Engine[E]) Update(dt time.Duration) {
	if e.vm.GetGlobal("update") == lua.LNil {
		return
	}
	if err := e.call("update", 0, lua.LNumber(dt.Seconds())); err != nil {
		e.log.Error("lua update error", zap.Error(err))
	}
}

// CallInt calls a global Lua function with int args and returns an int result.
func (e *Engine[E]) CallInt(name string, args ...int) (int, error) {
	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}
	if err := e.call(name, 1, lArgs...); err != nil {
		return 0, err
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result)), nil
}

func (e *Engine[E]) call(name string, nret int, args ...lua.LValue) error {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return fmt.Errorf("lua function %s not found", name)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    nret,
		Protect: true,
	}, args...); err != nil {
		return fmt.Errorf("lua %s: %w", name, err)
	}
	return nil
}

// Close shuts down the Lua VM.
func (e *Engine[E]) Close() {
	e.vm.Close()
}
