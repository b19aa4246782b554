// Package components defines ECS components for the scene.
package components

import "github.com/pthm-cable/wishtree/systems"

// Wish identifies a submitted wish.
type Wish struct {
	ID         uint64
	Text       string
	LaunchTick int32
}

// Projectile owns the particle system that flies the wish to the tree.
type Projectile struct {
	Sys *systems.Wish
}

// Retirement counts down from arrival until the entity is removed.
type Retirement struct {
	Remaining float64 // seconds
	Armed     bool
}

// Tick advances the countdown and reports whether it has elapsed.
func (r *Retirement) Tick(dt float64) bool {
	if !r.Armed {
		return false
	}
	r.Remaining -= dt
	return r.Remaining <= 0
}
