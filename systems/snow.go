package systems

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/wishtree/config"
)

// Snow is the ambient snowfall. Every particle loops falling -> recycled -> falling.
type Snow struct {
	cfg   config.SnowConfig
	refHz float64
	rng   *rand.Rand

	buf      *ParticleBuffer
	fall     []float32 // per reference frame
	recycles []uint32

	half    float64 // half of the horizontal domain
	ceiling float64
}

// NewSnow creates the snowfall with particles scattered through the whole domain.
func NewSnow(cfg config.SnowConfig, refHz float64, rng *rand.Rand) *Snow {
	rng = newRNG(rng)
	if refHz <= 0 {
		refHz = 60
	}
	half := cfg.Range / 2
	box := UniformBox{
		Min: [3]float64{-half, 0, -half},
		Max: [3]float64{half, cfg.Range, half},
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	buf := Generate(cfg.Count, box, SolidPalette(white), Range{Min: cfg.Size, Max: cfg.Size}, rng)

	speed := NewRange(cfg.FallSpeed)
	fall := make([]float32, cfg.Count)
	for i := range fall {
		fall[i] = float32(speed.Random(rng))
	}

	return &Snow{
		cfg:      cfg,
		refHz:    refHz,
		rng:      rng,
		buf:      buf,
		fall:     fall,
		recycles: make([]uint32, cfg.Count),
		half:     half,
		ceiling:  cfg.Range,
	}
}

// Update advances every flake by one frame. t is the elapsed scene time.
// Fall and wind amounts are tuned per reference frame and scaled by dt.
func (s *Snow) Update(t, dt float64) {
	if dt <= 0 {
		return
	}
	step := float32(dt * s.refHz)
	wind := float32(s.cfg.Wind) * step
	floor := float32(s.cfg.Floor)
	pos := s.buf.Positions

	for i := range s.fall {
		j := i * 3
		x := pos[j]
		y := pos[j+1]
		z := pos[j+2]

		y -= s.fall[i] * step
		// Wind phase is keyed by index so each flake drifts coherently over time
		x += sin32(t+float64(i)) * wind
		z += cos32(t+float64(i)) * wind

		if y < floor {
			y = float32(s.ceiling)
			x = float32((s.rng.Float64()*2 - 1) * s.half)
			z = float32((s.rng.Float64()*2 - 1) * s.half)
			s.recycles[i]++
		}

		pos[j] = x
		pos[j+1] = y
		pos[j+2] = z
	}
}

// SetConfig applies tunable values from a reloaded config. Count and domain
// size are fixed for the lifetime of the system.
func (s *Snow) SetConfig(cfg config.SnowConfig) {
	s.cfg.Wind = cfg.Wind
	s.cfg.Opacity = cfg.Opacity
	s.cfg.Size = cfg.Size
	for i := range s.buf.Sizes {
		s.buf.Sizes[i] = float32(cfg.Size)
	}
}

// Buffer returns the particle buffer for rendering.
func (s *Snow) Buffer() *ParticleBuffer {
	return s.buf
}

// Recycles returns how many times particle i has been reset to the ceiling.
func (s *Snow) Recycles(i int) uint32 {
	return s.recycles[i]
}

// FallSpeed returns particle i's fall distance per reference frame.
func (s *Snow) FallSpeed(i int) float32 {
	return s.fall[i]
}

// Ceiling returns the height flakes are recycled to.
func (s *Snow) Ceiling() float64 {
	return s.ceiling
}

// Floor returns the recycle threshold.
func (s *Snow) Floor() float64 {
	return s.cfg.Floor
}

// Opacity returns the point opacity.
func (s *Snow) Opacity() float64 {
	return s.cfg.Opacity
}
