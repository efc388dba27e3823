package system

import (
	"time"

	"github.com/l1jgo/ecsreg/internal/core/ecs"
	coresys "github.com/l1jgo/ecsreg/internal/core/system"
	"go.uber.org/zap"
)

// StatsSystem logs registry statistics every interval ticks. Phase 4 (Output).
type StatsSystem[E ecs.Identifier[E]] struct {
	reg       *ecs.Registry[E]
	log       *zap.Logger
	tickCount int
	interval  int
}

func NewStatsSystem[E ecs.Identifier[E]](reg *ecs.Registry[E], log *zap.Logger, intervalTicks int) *StatsSystem[E] {
	return &StatsSystem[E]{reg: reg, log: log, interval: max(intervalTicks, 1)}
}

func (s *StatsSystem[E]) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *StatsSystem[E]) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.log.Info("registry stats",
		zap.Int("active", s.reg.Active()),
		zap.Int("allocated", s.reg.Allocated()),
		zap.Int("capacity", s.reg.Capacity()),
		zap.Int("pools", s.reg.Pools()),
		zap.Int("retired", s.reg.Retired()),
		zap.Int("pending", s.reg.Pending()))
}
