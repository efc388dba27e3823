package system

import (
	"time"

	"github.com/l1jgo/ecsreg/internal/component"
	"github.com/l1jgo/ecsreg/internal/core/ecs"
	coresys "github.com/l1jgo/ecsreg/internal/core/system"
)

// LifetimeSystem counts down Lifetime components and queues expired
// entities for the cleanup phase. Phase 3 (PostUpdate).
type LifetimeSystem[E ecs.Identifier[E]] struct {
	reg *ecs.Registry[E]
}

func NewLifetimeSystem[E ecs.Identifier[E]](reg *ecs.Registry[E]) *LifetimeSystem[E] {
	return &LifetimeSystem[E]{reg: reg}
}

func (s *LifetimeSystem[E]) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *LifetimeSystem[E]) Update(dt time.Duration) {
	ecs.Each1(s.reg, func(h ecs.Handle[E], l *component.Lifetime) {
		l.Remaining -= dt
		if l.Remaining <= 0 {
			s.reg.Defer(h)
		}
	})
}
