package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wishtree/config"
	"github.com/pthm-cable/wishtree/curve"
)

// WishPhase is the lifecycle stage of a wish projectile.
type WishPhase uint8

const (
	WishFlight WishPhase = iota
	WishDissolving
	WishRetired
)

func (p WishPhase) String() string {
	switch p {
	case WishFlight:
		return "flight"
	case WishDissolving:
		return "dissolving"
	case WishRetired:
		return "retired"
	}
	return "unknown"
}

// Transform places a point cloud in the world. Rotation is applied Z first, then X.
type Transform struct {
	Position   r3.Vec
	RotX, RotZ float64
}

// Apply maps a local point to world space.
func (tf Transform) Apply(x, y, z float64) r3.Vec {
	sz, cz := math.Sincos(tf.RotZ)
	x, y = x*cz-y*sz, x*sz+y*cz
	sx, cx := math.Sincos(tf.RotX)
	y, z = y*cx-z*sx, y*sx+z*cx
	return r3.Add(tf.Position, r3.Vec{X: x, Y: y, Z: z})
}

// Wish is a star-shaped projectile that flies to the tree, fires its arrival
// callback once on impact, then dissolves into drifting snow.
type Wish struct {
	id  uint64
	cfg config.WishConfig

	buf       *ParticleBuffer
	rest      []float32
	explosion []float32 // per-particle velocity, x,y,z triples
	ones      []float32

	path      curve.QuadraticBezier
	phase     WishPhase
	progress  float64
	clock     float64 // seconds since impact
	transform Transform

	onArrival func(id uint64)
}

// NewWish creates a wish at the start of its flight path.
func NewWish(id uint64, cfg config.WishConfig, palette Palette, rng *rand.Rand, onArrival func(id uint64)) *Wish {
	rng = newRNG(rng)
	star := StarPolygon{
		Arms:        cfg.Arms,
		CoreRatio:   cfg.CoreRatio,
		CoreRadius:  cfg.CoreRadius,
		OuterRadius: cfg.OuterRadius,
		Depth:       cfg.Depth,
	}
	buf := Generate(cfg.Count, star, palette, NewRange(cfg.Size), rng)

	magnitude := NewRange(cfg.Explosion)
	explosion := make([]float32, cfg.Count*3)
	for i := 0; i < cfg.Count; i++ {
		v := randomDirection(rng)
		v = r3.Scale(magnitude.Random(rng), v)
		explosion[i*3] = float32(v.X)
		explosion[i*3+1] = float32(v.Y)
		explosion[i*3+2] = float32(v.Z)
	}

	ones := make([]float32, cfg.Count*3)
	for i := range ones {
		ones[i] = 1
	}

	w := &Wish{
		id:        id,
		cfg:       cfg,
		buf:       buf,
		rest:      buf.copyPositions(),
		explosion: explosion,
		ones:      ones,
		path:      curve.NewQuadraticBezier(cfg.Start, cfg.Control, cfg.Target),
		onArrival: onArrival,
	}
	w.transform.Position = w.path.Point(0)
	return w
}

// randomDirection returns a unit vector from a cube sample, rejecting the
// near-zero draws that cannot be normalized.
func randomDirection(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5, Z: rng.Float64() - 0.5}
		if n := r3.Norm(v); n > 1e-6 {
			return r3.Scale(1/n, v)
		}
	}
}

// Update advances the wish by one frame. t is the elapsed scene time.
func (w *Wish) Update(t, dt float64) {
	if dt < 0 {
		dt = 0
	}
	switch w.phase {
	case WishFlight:
		w.updateFlight(t, dt)
	case WishDissolving:
		w.updateDissolve(t, dt)
	}
}

func (w *Wish) updateFlight(t, dt float64) {
	w.progress = math.Min(1, w.progress+dt*w.cfg.FlightRate)
	e := curve.EaseInOutQuint(w.progress)

	w.transform.Position = w.path.Point(e)
	w.transform.RotZ += dt * w.cfg.SpinZ
	w.transform.RotX += dt * w.cfg.SpinX

	tan := w.path.Tangent(e)
	tx, ty, tz := float32(tan.X), float32(tan.Y), float32(tan.Z)
	trail := float32((1 - e) * w.cfg.Trail)

	pos := w.buf.Positions
	seeds := w.buf.Seeds
	for i := range seeds {
		j := i * 3
		jitter := sin32(t*w.cfg.JitterFreq+float64(i)) * float32(w.cfg.Jitter)
		off := trail * seeds[i]
		pos[j] = w.rest[j] - tx*off + jitter
		pos[j+1] = w.rest[j+1] - ty*off + jitter
		pos[j+2] = w.rest[j+2] - tz*off
	}

	if w.progress >= 1 {
		// Notify before leaving flight so the callback sees the impact frame
		if w.onArrival != nil {
			w.onArrival(w.id)
		}
		w.phase = WishDissolving
	}
}

func (w *Wish) updateDissolve(t, dt float64) {
	w.clock += dt
	if w.clock > w.cfg.DissolveSeconds {
		w.phase = WishRetired
		return
	}

	slow := float32(math.Max(0, 1-w.clock/w.cfg.SlowdownSeconds))
	step := float32(dt) * slow
	fallY := float32(-dt * w.cfg.Gravity)
	drift := float32(w.cfg.Drift)

	pos := w.buf.Positions
	for i := 0; i < w.buf.Len(); i++ {
		j := i * 3
		driftX := sin32(t*w.cfg.DriftFreq+float64(i)) * drift
		pos[j] += w.explosion[j]*step + driftX
		pos[j+1] += w.explosion[j+1]*step + fallY
		pos[j+2] += w.explosion[j+2] * step
	}

	// Colors relax toward white: c = (1-k)c + k
	k := float32(math.Min(1, dt*w.cfg.WhitenRate))
	colors := blas32.Vector{N: len(w.buf.Colors), Inc: 1, Data: w.buf.Colors}
	blas32.Scal(1-k, colors)
	blas32.Axpy(k, blas32.Vector{N: len(w.ones), Inc: 1, Data: w.ones}, colors)

	sizes := blas32.Vector{N: len(w.buf.Sizes), Inc: 1, Data: w.buf.Sizes}
	blas32.Scal(float32(w.cfg.Shrink), sizes)
	for i, s := range w.buf.Sizes {
		if s < 0 {
			w.buf.Sizes[i] = 0
		}
	}
}

// Opacity is full during flight and the early explosion, then fades out over
// the final FadeSeconds of the dissolve window.
func (w *Wish) Opacity() float64 {
	switch w.phase {
	case WishFlight:
		return 1
	case WishDissolving:
		return curve.Clamp01((w.cfg.DissolveSeconds - w.clock) / w.cfg.FadeSeconds)
	}
	return 0
}

// Visible reports whether the wish should still be drawn.
func (w *Wish) Visible() bool {
	return w.phase != WishRetired
}

// DissolveSeconds is the dissolve ceiling this wish was launched with.
func (w *Wish) DissolveSeconds() float64 {
	return w.cfg.DissolveSeconds
}

// ID returns the wish identifier.
func (w *Wish) ID() uint64 {
	return w.id
}

// Phase returns the lifecycle stage.
func (w *Wish) Phase() WishPhase {
	return w.phase
}

// Progress returns the raw flight progress in [0,1].
func (w *Wish) Progress() float64 {
	return w.progress
}

// ExplosionClock returns seconds elapsed since impact.
func (w *Wish) ExplosionClock() float64 {
	return w.clock
}

// Transform returns the group placement.
func (w *Wish) Transform() Transform {
	return w.transform
}

// Path returns the flight curve.
func (w *Wish) Path() curve.QuadraticBezier {
	return w.path
}

// Buffer returns the particle buffer for rendering.
func (w *Wish) Buffer() *ParticleBuffer {
	return w.buf
}

// ExplosionVector returns particle i's dissolve velocity.
func (w *Wish) ExplosionVector(i int) r3.Vec {
	j := i * 3
	return r3.Vec{X: float64(w.explosion[j]), Y: float64(w.explosion[j+1]), Z: float64(w.explosion[j+2])}
}
