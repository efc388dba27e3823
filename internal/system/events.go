package system

import (
	"time"

	"github.com/l1jgo/ecsreg/internal/core/event"
	coresys "github.com/l1jgo/ecsreg/internal/core/system"
)

// EventSystem delivers events posted during the previous tick.
// Phase 0 (Input).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
