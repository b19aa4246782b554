package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/wishtree/config"
	"github.com/pthm-cable/wishtree/curve"
	"github.com/pthm-cable/wishtree/gesture"
)

// TreeInput carries the per-frame values the tree reacts to.
type TreeInput struct {
	Gesture    gesture.Category
	PulseToken uint64     // increases by one per wish arrival
	Follow     [2]float64 // smoothed yaw, pitch in radians
}

// Topper is the ornament at the top of the tree.
type Topper struct {
	Scale    float64
	Emissive float64
	Spin     float64 // yaw in radians
}

// Tree is the particle canopy. It blooms outward while an open palm is held
// and flashes when a wish lands.
type Tree struct {
	cfg config.TreeConfig

	buf       *ParticleBuffer
	rest      []float32 // rest positions
	baseSizes []float32

	expansion float64
	pulse     float64
	lastToken uint64

	yaw, pitch float64
	bob        float64
	topper     Topper
}

// NewTree generates the canopy as a solid cone.
func NewTree(cfg config.TreeConfig, palette Palette, rng *rand.Rand) *Tree {
	cone := ConicalVolume{Height: cfg.Height, MaxRadius: cfg.MaxRadius}
	buf := Generate(cfg.Count, cone, palette, NewRange(cfg.Size), rng)

	return &Tree{
		cfg:       cfg,
		buf:       buf,
		rest:      buf.copyPositions(),
		baseSizes: buf.copySizes(),
		topper:    Topper{Scale: 1, Emissive: 1},
	}
}

// Update advances the canopy animation by one frame.
func (tr *Tree) Update(t, dt float64, in TreeInput) {
	cfg := &tr.cfg

	target := 0.0
	if in.Gesture == gesture.CategoryOpenPalm {
		target = 1
	}
	tr.expansion = curve.Clamp01(curve.Damp(tr.expansion, target, cfg.ExpansionSmoothing))

	if dt > 0 {
		tr.pulse -= dt * cfg.PulseDecay
	}
	if in.PulseToken > tr.lastToken {
		tr.pulse = cfg.PulsePeak
		tr.lastToken = in.PulseToken
	}
	tr.pulse = curve.Clamp(tr.pulse, 0, cfg.PulsePeak)

	tr.updateParticles(t)

	tr.yaw, tr.pitch = in.Follow[0], in.Follow[1]
	tr.bob = math.Sin(t*cfg.FloatSpeed) * 0.5 * cfg.FloatAmplitude

	e, p := tr.expansion, tr.pulse
	tr.topper = Topper{
		Scale:    1 + e*0.5 + math.Sin(t*2)*0.05 + p*1.2,
		Emissive: 1 + e*6 + p*30,
		Spin:     t * 0.5,
	}
}

// updateParticles rewrites positions and sizes from the rest pose.
func (tr *Tree) updateParticles(t float64) {
	cfg := &tr.cfg
	e := float32(tr.expansion)
	radial := e * float32(cfg.ExpansionRadial)
	vertical := e * float32(cfg.ExpansionVertical)
	halfH := float32(cfg.Height / 2)
	bias := float32(cfg.VerticalBias)

	threshold := float32(cfg.TwinkleThreshold)
	twinkleGain := float32(cfg.TwinkleGain)
	sizeBoost := 1 + e*float32(cfg.ExpansionSizeGain) + float32(tr.pulse*cfg.PulseSizeGain)

	pos := tr.buf.Positions
	sizes := tr.buf.Sizes
	seeds := tr.buf.Seeds

	for i := range sizes {
		j := i * 3
		ox := tr.rest[j]
		oy := tr.rest[j+1]
		oz := tr.rest[j+2]

		// Farther from the axis moves farther
		pos[j] = ox + ox*radial
		pos[j+1] = oy + (oy-halfH)*bias*vertical
		pos[j+2] = oz + oz*radial

		boost := sizeBoost
		if seeds[i] > threshold {
			osc := sin32(t*3+float64(seeds[i])*20)*0.5 + 0.5
			boost += osc * twinkleGain
		}
		sizes[i] = tr.baseSizes[i] * boost
	}
}

// SetConfig applies tunable values from a reloaded config. The particle
// count and cone shape are fixed for the lifetime of the system.
func (tr *Tree) SetConfig(cfg config.TreeConfig) {
	cfg.Count = tr.cfg.Count
	cfg.Height = tr.cfg.Height
	cfg.MaxRadius = tr.cfg.MaxRadius
	cfg.Size = tr.cfg.Size
	cfg.Palette = tr.cfg.Palette
	tr.cfg = cfg
	tr.pulse = curve.Clamp(tr.pulse, 0, cfg.PulsePeak)
}

// Buffer returns the particle buffer for rendering.
func (tr *Tree) Buffer() *ParticleBuffer {
	return tr.buf
}

// RestPosition returns particle i's position before expansion.
func (tr *Tree) RestPosition(i int) (x, y, z float32) {
	j := i * 3
	return tr.rest[j], tr.rest[j+1], tr.rest[j+2]
}

// Expansion returns the bloom factor in [0,1].
func (tr *Tree) Expansion() float64 {
	return tr.expansion
}

// PulseEnergy returns the impact flash energy.
func (tr *Tree) PulseEnergy() float64 {
	return tr.pulse
}

// Orientation returns the canopy yaw and pitch in radians.
func (tr *Tree) Orientation() (yaw, pitch float64) {
	return tr.yaw, tr.pitch
}

// Bob returns the vertical float offset of the whole tree group.
func (tr *Tree) Bob() float64 {
	return tr.bob
}

// Topper returns the ornament state for this frame.
func (tr *Tree) Topper() Topper {
	return tr.topper
}

// Config returns the active tree config.
func (tr *Tree) Config() config.TreeConfig {
	return tr.cfg
}
