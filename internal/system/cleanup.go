package system

import (
	"time"

	"github.com/l1jgo/ecsreg/internal/core/ecs"
	coresys "github.com/l1jgo/ecsreg/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem flushes the registry's deferred deallocations at tick end.
// Phase 5 (Cleanup).
type CleanupSystem[E ecs.Identifier[E]] struct {
	reg *ecs.Registry[E]
	log *zap.Logger
}

func NewCleanupSystem[E ecs.Identifier[E]](reg *ecs.Registry[E], log *zap.Logger) *CleanupSystem[E] {
	return &CleanupSystem[E]{reg: reg, log: log}
}

func (s *CleanupSystem[E]) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem[E]) Update(_ time.Duration) {
	if n := s.reg.Flush(); n > 0 {
		s.log.Debug("deferred entities deallocated", zap.Int("count", n))
	}
}
