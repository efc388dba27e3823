package system

import (
	"time"

	"github.com/l1jgo/ecsreg/internal/component"
	"github.com/l1jgo/ecsreg/internal/core/ecs"
	coresys "github.com/l1jgo/ecsreg/internal/core/system"
)

// MovementSystem integrates Velocity into Transform. Phase 2 (Update).
type MovementSystem[E ecs.Identifier[E]] struct {
	reg *ecs.Registry[E]
}

func NewMovementSystem[E ecs.Identifier[E]](reg *ecs.Registry[E]) *MovementSystem[E] {
	return &MovementSystem[E]{reg: reg}
}

func (s *MovementSystem[E]) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem[E]) Update(dt time.Duration) {
	sec := float32(dt.Seconds())
	ecs.Each2(s.reg, func(_ ecs.Handle[E], tr *ecs.Transform, v *component.Velocity) {
		tr.Translate(v.X*sec, v.Y*sec, v.Z*sec)
	})
}
