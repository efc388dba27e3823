package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: deliver events posted last tick
	PhasePreUpdate               // 1: spawn requests
	PhaseUpdate                  // 2: scripts and simulation
	PhasePostUpdate              // 3: lifetimes, hierarchy fixups
	PhaseOutput                  // 4: reporting
	PhaseCleanup                 // 5: flush deferred deallocations
)

var phaseNames = [...]string{"input", "pre_update", "update", "post_update", "output", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a plain function to System.
type Func struct {
	P  Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase            { return f.P }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }
