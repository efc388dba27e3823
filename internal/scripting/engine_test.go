package scripting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/l1jgo/ecsreg/internal/component"
	"github.com/l1jgo/ecsreg/internal/core/ecs"
	"github.com/l1jgo/ecsreg/internal/data"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewEngineLoadsCoreFirst(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "core"), "base.lua", "SPEED = 3\n")
	writeScript(t, dir, "main.lua", "function speed() return SPEED * 2 end\n")
	writeScript(t, dir, "notes.txt", "not lua")

	reg := ecs.NewRegistry[ecs.Entity32](ecs.Options{})
	e, err := NewEngine(dir, reg, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	got, err := e.CallInt("speed")
	if err != nil || got != 6 {
		t.Fatalf("expected 6, got %d (%v)", got, err)
	}
}

func TestNewEngineReportsScriptErrors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", "function (\n")
	_, err := NewEngine(dir, ecs.NewRegistry[ecs.Entity32](ecs.Options{}), nil)
	if err == nil || !strings.Contains(err.Error(), "broken.lua") {
		t.Fatalf("expected load error naming the file, got %v", err)
	}
}

func TestMissingDirLoadsNothing(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "absent"), ecs.NewRegistry[ecs.Entity32](ecs.Options{}), nil)
	if err != nil {
		t.Fatalf("missing dir must not fail: %v", err)
	}
	defer e.Close()
	e.Update(time.Second)
}

func TestLuaDrivesRegistry(t *testing.T) {
	reg := ecs.NewRegistry[ecs.Entity64](ecs.Options{})
	e := newEngine(reg, nil)
	defer e.Close()

	err := e.DoString(`
		local ecs = require("ecs")
		a = ecs.allocate()
		b = ecs.allocate()
		ecs.set_position(a, 1, 2, 3)
		ecs.translate(a, 1, 0, 0)
		ecs.deallocate(b)
		stale = ecs.valid(b)
		count = ecs.active()
		x, y, z = ecs.position(a)
	`)
	if err != nil {
		t.Fatalf("lua: %v", err)
	}
	if reg.Active() != 1 {
		t.Fatalf("expected 1 active, got %d", reg.Active())
	}
	h := reg.At(0)
	if got := ecs.Get[ecs.Transform](h).Position; got != [3]float32{2, 2, 3} {
		t.Fatalf("expected [2 2 3], got %v", got)
	}
	if e.vm.GetGlobal("stale").String() != "false" || e.vm.GetGlobal("count").String() != "1" {
		t.Fatal("unexpected lua view of registry")
	}
	if e.vm.GetGlobal("x").String() != "2" {
		t.Fatalf("expected x=2, got %s", e.vm.GetGlobal("x"))
	}
}

func TestUpdateMovesEntities(t *testing.T) {
	reg := ecs.NewRegistry[ecs.Entity32](ecs.Options{})
	for i := 0; i < 3; i++ {
		reg.Allocate()
	}
	e := newEngine(reg, nil)
	defer e.Close()
	if err := e.DoString(`
		function update(dt)
			ecs.each(function(id) ecs.translate(id, dt, 0, 0) end)
		end
	`); err != nil {
		t.Fatal(err)
	}

	e.Update(500 * time.Millisecond)
	e.Update(500 * time.Millisecond)

	for h := range reg.EntityView().All() {
		if x := ecs.Get[ecs.Transform](h).Position[0]; x != 1 {
			t.Fatalf("%v: expected x=1, got %v", h, x)
		}
	}
}

func TestEachStopsOnFalseAndSkipsDeallocated(t *testing.T) {
	reg := ecs.NewRegistry[ecs.Entity32](ecs.Options{})
	for i := 0; i < 5; i++ {
		reg.Allocate()
	}
	e := newEngine(reg, nil)
	defer e.Close()
	if err := e.DoString(`
		seen = 0
		ecs.each(function(id)
			seen = seen + 1
			if seen == 1 then
				ecs.each(function(other)
					if other ~= id then ecs.deallocate(other) end
				end)
			end
		end)
		stopped = 0
		ecs.allocate()
		ecs.each(function(id)
			stopped = stopped + 1
			return false
		end)
	`); err != nil {
		t.Fatal(err)
	}
	if got := e.vm.GetGlobal("seen").String(); got != "1" {
		t.Fatalf("deallocated entities must be skipped, visited %s", got)
	}
	if got := e.vm.GetGlobal("stopped").String(); got != "1" {
		t.Fatalf("returning false must stop, visited %s", got)
	}
}

func TestUpdateErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := newEngine(ecs.NewRegistry[ecs.Entity32](ecs.Options{}), zap.New(core))
	defer e.Close()
	if err := e.DoString(`function update(dt) error("boom") end`); err != nil {
		t.Fatal(err)
	}
	e.Update(time.Millisecond)
	if logs.FilterMessage("lua update error").Len() != 1 {
		t.Fatal("expected one logged update error")
	}
}

func TestSpawnAndVelocityFromLua(t *testing.T) {
	reg := ecs.NewRegistry[ecs.Entity32](ecs.Options{})
	catalog := data.NewCatalog[ecs.Entity32]()
	data.Component[component.Velocity](catalog, "velocity")
	table, err := data.ParsePrefabTable([]byte("- name: probe\n  components:\n    velocity: {x: 4}\n"), catalog, nil)
	if err != nil {
		t.Fatal(err)
	}

	e := newEngine(reg, nil)
	defer e.Close()
	if err := e.DoString(`missing, msg = ecs.spawn("probe")`); err != nil {
		t.Fatal(err)
	}
	if e.vm.GetGlobal("msg").String() != "no prefabs loaded" {
		t.Fatal("spawn without prefabs must report it")
	}

	e.UsePrefabs(table)
	if err := e.DoString(`
		id = ecs.spawn("probe")
		vx = ecs.velocity(id)
		ecs.set_velocity(id, 0, 1, 0)
		bad, err = ecs.spawn("nope")
	`); err != nil {
		t.Fatal(err)
	}
	if e.vm.GetGlobal("vx").String() != "4" {
		t.Fatalf("expected vx=4, got %s", e.vm.GetGlobal("vx"))
	}
	if v := ecs.Get[component.Velocity](reg.At(0)); v.Y != 1 || v.X != 0 {
		t.Fatalf("set_velocity not applied: %+v", *v)
	}
	if !strings.Contains(e.vm.GetGlobal("err").String(), "unknown prefab") {
		t.Fatalf("unexpected error %s", e.vm.GetGlobal("err"))
	}
}
