// Package curve provides the path and easing math used by the particle systems.
package curve

import (
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// QuadraticBezier is a quadratic Bezier curve through P0 and P2 with control point P1.
type QuadraticBezier struct {
	P0, P1, P2 r3.Vec
}

// NewQuadraticBezier creates a curve from array triples (as loaded from config).
func NewQuadraticBezier(start, control, end [3]float64) QuadraticBezier {
	return QuadraticBezier{
		P0: r3.Vec{X: start[0], Y: start[1], Z: start[2]},
		P1: r3.Vec{X: control[0], Y: control[1], Z: control[2]},
		P2: r3.Vec{X: end[0], Y: end[1], Z: end[2]},
	}
}

// Point evaluates the curve at t in [0,1].
func (c QuadraticBezier) Point(t float64) r3.Vec {
	t = Clamp01(t)
	u := 1 - t
	p := r3.Scale(u*u, c.P0)
	p = r3.Add(p, r3.Scale(2*u*t, c.P1))
	return r3.Add(p, r3.Scale(t*t, c.P2))
}

// Derivative returns the (unnormalized) first derivative at t.
func (c QuadraticBezier) Derivative(t float64) r3.Vec {
	t = Clamp01(t)
	a := r3.Scale(2*(1-t), r3.Sub(c.P1, c.P0))
	b := r3.Scale(2*t, r3.Sub(c.P2, c.P1))
	return r3.Add(a, b)
}

// Tangent returns the unit tangent at t, or the zero vector where the
// derivative vanishes.
func (c QuadraticBezier) Tangent(t float64) r3.Vec {
	d := c.Derivative(t)
	n := r3.Norm(d)
	if n < 1e-12 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, d)
}

// EaseInOutQuint maps x in [0,1] to a slow-start, slow-end progress value.
// The endpoints are exact: 0 -> 0 and 1 -> 1.
func EaseInOutQuint(x float64) float64 {
	x = Clamp01(x)
	if x == 0 || x == 1 {
		return x
	}
	return float64(ease.InOutQuint(float32(x), 0, 1, 1))
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Damp moves value toward target by factor (exponential smoothing per step).
func Damp(value, target, factor float64) float64 {
	return value + (target-value)*factor
}

// Clamp restricts a value to a range.
func Clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// Clamp01 restricts a value to [0,1].
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}
