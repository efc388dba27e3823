// Profiling:
// go build ./cmd/ecsbench
// ./ecsbench -mode mem
// go tool pprof -http=":8000" -nodefraction=0.001 ./ecsbench mem.pprof

package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/l1jgo/ecsreg/internal/component"
	"github.com/l1jgo/ecsreg/internal/core/ecs"
	"github.com/pkg/profile"
)

func main() {
	mode := flag.String("mode", "cpu", "profile mode: cpu or mem")
	rounds := flag.Int("rounds", 50, "registries built")
	iters := flag.Int("iters", 1000, "allocate/iterate/deallocate cycles per registry")
	entities := flag.Int("entities", 1000, "entities per cycle")
	flag.Parse()

	var opt func(*profile.Profile)
	switch *mode {
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfileAllocs
	default:
		fmt.Fprintf(os.Stderr, "fatal: unknown mode %q\n", *mode)
		os.Exit(1)
	}

	p := profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook)
	run(*rounds, *iters, *entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		reg := ecs.NewRegistry[ecs.Entity32](ecs.Options{InitialCapacity: numEntities})
		vel := ecs.Register[component.Velocity](reg)
		handles := make([]ecs.Handle[ecs.Entity32], 0, numEntities)

		for range iters {
			for range numEntities {
				h := reg.Allocate()
				ecs.Assign(h, component.Velocity{X: 1, Y: 2})
				handles = append(handles, h)
			}
			for h := range reg.EntityView(vel).All() {
				v := ecs.Get[component.Velocity](h)
				ecs.Get[ecs.Transform](h).Translate(v.X, v.Y, v.Z)
			}
			ecs.Each2(reg, func(_ ecs.Handle[ecs.Entity32], tr *ecs.Transform, v *component.Velocity) {
				tr.Translate(-v.X, -v.Y, -v.Z)
			})
			// Newest first: each release then lands at the free-list head.
			for _, h := range slices.Backward(handles) {
				reg.Deallocate(h)
			}
			handles = handles[:0]
		}
	}
}
