package component

import "time"

// Velocity is applied to the entity's Transform position every tick,
// in units per second.
type Velocity struct {
	X, Y, Z float32
}

// Lifetime counts down each tick; the entity is destroyed when it
// reaches zero.
type Lifetime struct {
	Remaining time.Duration
}
