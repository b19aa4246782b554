// Package camera provides a damped orbit camera around a fixed target.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wishtree/config"
)

// Camera orbits Target on a sphere. Input accumulates into pending deltas
// that are bled off by Damping each frame, which gives the glide after a drag.
type Camera struct {
	Target r3.Vec
	Fovy   float64

	// Spherical position relative to Target; Polar is measured from +Y
	Distance float64
	Polar    float64
	Azimuth  float64

	// Constraints
	MinDistance, MaxDistance float64
	MinPolar, MaxPolar       float64

	Damping         float64
	AutoRotateSpeed float64 // 1.0 = one orbit per 60s

	dAzimuth, dPolar float64
	scale            float64
}

// New creates a camera at cfg.Position looking at cfg.Target.
func New(cfg config.CameraConfig) *Camera {
	c := &Camera{
		Target:          r3.Vec{X: cfg.Target[0], Y: cfg.Target[1], Z: cfg.Target[2]},
		Fovy:            cfg.Fovy,
		MinDistance:     cfg.MinDistance,
		MaxDistance:     cfg.MaxDistance,
		MinPolar:        cfg.MinPolar,
		MaxPolar:        cfg.MaxPolar,
		Damping:         cfg.Damping,
		AutoRotateSpeed: cfg.AutoRotateSpeed,
		scale:           1,
	}
	c.SetPosition(r3.Vec{X: cfg.Position[0], Y: cfg.Position[1], Z: cfg.Position[2]})
	return c
}

// SetPosition places the camera at p, clamped to the constraints.
func (c *Camera) SetPosition(p r3.Vec) {
	off := r3.Sub(p, c.Target)
	c.Distance = r3.Norm(off)
	if c.Distance > 0 {
		c.Polar = math.Acos(clamp(off.Y/c.Distance, -1, 1))
	}
	c.Azimuth = math.Atan2(off.X, off.Z)
	c.dAzimuth, c.dPolar, c.scale = 0, 0, 1
	c.constrain()
}

// Rotate queues an orbit by the given angles in radians.
func (c *Camera) Rotate(dAzimuth, dPolar float64) {
	c.dAzimuth += dAzimuth
	c.dPolar += dPolar
}

// Dolly queues a distance change. factor > 1 moves away.
func (c *Camera) Dolly(factor float64) {
	if factor > 0 {
		c.scale *= factor
	}
}

// Update applies auto-rotation and one frame of damped input.
func (c *Camera) Update(dt float64, autoRotate bool) {
	if autoRotate && dt > 0 {
		c.dAzimuth -= 2 * math.Pi / 60 * c.AutoRotateSpeed * dt
	}

	if c.Damping > 0 && c.Damping < 1 {
		c.Azimuth += c.dAzimuth * c.Damping
		c.Polar += c.dPolar * c.Damping
		c.dAzimuth *= 1 - c.Damping
		c.dPolar *= 1 - c.Damping
	} else {
		c.Azimuth += c.dAzimuth
		c.Polar += c.dPolar
		c.dAzimuth, c.dPolar = 0, 0
	}
	c.Distance *= c.scale
	c.scale = 1

	c.constrain()
}

func (c *Camera) constrain() {
	c.Polar = clamp(c.Polar, c.MinPolar, c.MaxPolar)
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
	c.Azimuth = math.Remainder(c.Azimuth, 2*math.Pi)
}

// Position returns the camera's world position.
func (c *Camera) Position() r3.Vec {
	sp, cp := math.Sincos(c.Polar)
	sa, ca := math.Sincos(c.Azimuth)
	off := r3.Vec{X: c.Distance * sp * sa, Y: c.Distance * cp, Z: c.Distance * sp * ca}
	return r3.Add(c.Target, off)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() r3.Vec {
	return r3.Unit(r3.Sub(c.Target, c.Position()))
}

// Apply updates tunables from a reloaded config without moving the camera.
func (c *Camera) Apply(cfg config.CameraConfig) {
	c.Fovy = cfg.Fovy
	c.MinDistance, c.MaxDistance = cfg.MinDistance, cfg.MaxDistance
	c.MinPolar, c.MaxPolar = cfg.MinPolar, cfg.MaxPolar
	c.Damping = cfg.Damping
	c.AutoRotateSpeed = cfg.AutoRotateSpeed
	c.constrain()
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
