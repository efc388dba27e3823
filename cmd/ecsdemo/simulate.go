package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/l1jgo/ecsreg/internal/component"
	"github.com/l1jgo/ecsreg/internal/config"
	"github.com/l1jgo/ecsreg/internal/core/ecs"
	"github.com/l1jgo/ecsreg/internal/core/event"
	coresys "github.com/l1jgo/ecsreg/internal/core/system"
	"github.com/l1jgo/ecsreg/internal/data"
	"github.com/l1jgo/ecsreg/internal/scripting"
	"github.com/l1jgo/ecsreg/internal/system"
	"go.uber.org/zap"
)

// simulate builds a registry of identifier type E and ticks it until the
// configured tick count is reached or a signal arrives.
func simulate[E ecs.Identifier[E]](cfg *config.Config, log *zap.Logger) error {
	// 1. Registry and its event bus
	printSection("registry")
	bus := event.NewBus(log)
	reg := ecs.NewRegistry[E](ecs.Options{
		PageSize:        cfg.Registry.PageSize,
		InitialCapacity: cfg.Registry.InitialCapacity,
		Logger:          log,
		Events:          bus,
	})
	ecs.Register[component.Velocity](reg)
	ecs.Register[component.Lifetime](reg)
	ecs.Register[component.Name](reg)
	printStat("page size", cfg.Registry.PageSize)
	printStat("reserved slots", reg.Capacity())
	printStat("component pools", reg.Pools())

	ecs.OnAdd(reg, func(h ecs.Handle[E], n component.Name) {
		log.Debug("entity named", zap.Stringer("entity", h), zap.String("name", n.Value))
	})
	ecs.OnRemove[component.Lifetime](reg, func(h ecs.Handle[E]) {
		log.Debug("entity expired", zap.Stringer("entity", h))
	})
	fmt.Println()

	// 2. Prefabs
	printSection("prefabs")
	catalog := data.NewCatalog[E]()
	data.Component[component.Velocity](catalog, "velocity")
	data.Component[component.Lifetime](catalog, "lifetime")
	data.Component[component.Name](catalog, "name")

	prefabs, err := data.LoadPrefabTable(cfg.Prefabs.Path, catalog, log)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("prefab file not found, starting empty", zap.String("path", cfg.Prefabs.Path))
	case err != nil:
		return fmt.Errorf("load prefabs: %w", err)
	default:
		for _, name := range prefabs.Names() {
			if _, err := prefabs.Spawn(reg, name); err != nil {
				return fmt.Errorf("spawn %s: %w", name, err)
			}
		}
		printStat("prefabs", prefabs.Count())
	}
	printStat("entities", reg.Active())
	fmt.Println()

	// 3. Systems
	printSection("systems")
	runner := coresys.NewRunner(log)
	runner.Register(system.NewEventSystem(bus))
	runner.Register(system.NewMovementSystem(reg))
	runner.Register(system.NewLifetimeSystem(reg))
	runner.Register(system.NewStatsSystem(reg, log, cfg.Simulation.StatsInterval))
	runner.Register(system.NewCleanupSystem(reg, log))

	if cfg.Scripting.Enabled {
		lua, err := scripting.NewEngine(cfg.Scripting.Dir, reg, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer lua.Close()
		if prefabs != nil {
			lua.UsePrefabs(prefabs)
		}
		runner.Register(lua)
		printOK(fmt.Sprintf("lua scripts loaded from %s", cfg.Scripting.Dir))
	}
	printStat("systems", runner.Len())
	fmt.Println()

	// 4. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("simulation")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	for cfg.Simulation.Ticks <= 0 || runner.Ticks() < uint64(cfg.Simulation.Ticks) {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return report(reg, runner)
		}
	}
	return report(reg, runner)
}

func report[E ecs.Identifier[E]](reg *ecs.Registry[E], runner *coresys.Runner) error {
	fmt.Println()
	printSection("summary")
	printStat("ticks", int(runner.Ticks()))
	printStat("active entities", reg.Active())
	printStat("allocated slots", reg.Allocated())
	printStat("component pools", reg.Pools())
	return nil
}
