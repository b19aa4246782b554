package systems

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/wishtree/config"
)

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

// NewRange builds a Range from a config pair.
func NewRange(r [2]float64) Range {
	return Range{Min: r[0], Max: r[1]}
}

// Random returns a random float64 in [Min, Max).
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Shape samples a particle's rest position.
type Shape interface {
	Sample(rng *rand.Rand) (x, y, z float64)
}

// ConicalVolume fills a solid cone standing on the XZ plane with its apex at Height.
type ConicalVolume struct {
	Height    float64
	MaxRadius float64
}

// RadiusAt returns the cross-section radius at height y.
func (c ConicalVolume) RadiusAt(y float64) float64 {
	return (1 - y/c.Height) * c.MaxRadius
}

// Sample draws a point uniformly by area within the cross-section at a
// uniformly chosen height. sqrt on the radial draw keeps the disk uniform.
func (c ConicalVolume) Sample(rng *rand.Rand) (x, y, z float64) {
	y = rng.Float64() * c.Height
	radius := c.RadiusAt(y)
	angle := rng.Float64() * 2 * math.Pi
	dist := math.Sqrt(rng.Float64()) * radius
	return math.Cos(angle) * dist, y, math.Sin(angle) * dist
}

// StarPolygon fills a flat star in the XY plane with a little Z depth.
type StarPolygon struct {
	Arms        int
	CoreRatio   float64 // probability of drawing the outer magnitude
	CoreRadius  float64
	OuterRadius float64
	Depth       float64
}

// DefaultStar returns a five-armed star biased toward a dense core.
func DefaultStar() StarPolygon {
	return StarPolygon{Arms: 5, CoreRatio: 0.3, CoreRadius: 0.3, OuterRadius: 0.8, Depth: 0.2}
}

// Sample draws a point inside the star outline. Independent scale factors on
// x and y fill the interior rather than the boundary curve.
func (s StarPolygon) Sample(rng *rand.Rand) (x, y, z float64) {
	angle := rng.Float64() * 2 * math.Pi
	base := s.CoreRadius
	if rng.Float64() < s.CoreRatio {
		base = s.OuterRadius
	}
	r := base * (0.8 + 0.2*math.Sin(float64(s.Arms)*angle))
	x = math.Cos(angle) * r * rng.Float64()
	y = math.Sin(angle) * r * rng.Float64()
	z = (rng.Float64() - 0.5) * s.Depth
	return x, y, z
}

// MaxExtent returns the largest distance from the origin a sample can have in XY.
func (s StarPolygon) MaxExtent() float64 {
	return math.Max(s.CoreRadius, s.OuterRadius)
}

// UniformBox fills an axis-aligned box.
type UniformBox struct {
	Min, Max [3]float64
}

// Sample draws a point uniformly within the box.
func (b UniformBox) Sample(rng *rand.Rand) (x, y, z float64) {
	x = b.Min[0] + rng.Float64()*(b.Max[0]-b.Min[0])
	y = b.Min[1] + rng.Float64()*(b.Max[1]-b.Min[1])
	z = b.Min[2] + rng.Float64()*(b.Max[2]-b.Min[2])
	return x, y, z
}

// paletteEntry is one parsed weighted color choice.
type paletteEntry struct {
	from   colorful.Color
	to     colorful.Color
	blend  bool
	boost  Range
	weight float64
}

// Palette draws colors by weight.
type Palette struct {
	entries []paletteEntry
	total   float64
}

// NewPalette parses hex colors from config entries.
func NewPalette(entries []config.PaletteEntry) (Palette, error) {
	p := Palette{}
	for i, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		from, err := colorful.Hex(e.Color)
		if err != nil {
			return Palette{}, fmt.Errorf("palette entry %d color %q: %w", i, e.Color, err)
		}
		pe := paletteEntry{from: from, to: from, weight: e.Weight, boost: Range{Min: 1, Max: 1}}
		if e.Blend != "" {
			to, err := colorful.Hex(e.Blend)
			if err != nil {
				return Palette{}, fmt.Errorf("palette entry %d blend %q: %w", i, e.Blend, err)
			}
			pe.to = to
			pe.blend = true
		}
		if e.Boost[0] > 0 && e.Boost[1] >= e.Boost[0] {
			pe.boost = NewRange(e.Boost)
		}
		p.entries = append(p.entries, pe)
		p.total += pe.weight
	}
	if len(p.entries) == 0 {
		return Palette{}, fmt.Errorf("palette has no entries with positive weight")
	}
	return p, nil
}

// SolidPalette returns a palette with a single color.
func SolidPalette(c colorful.Color) Palette {
	return Palette{
		entries: []paletteEntry{{from: c, to: c, boost: Range{Min: 1, Max: 1}, weight: 1}},
		total:   1,
	}
}

// Len returns the number of entries.
func (p Palette) Len() int {
	return len(p.entries)
}

// pick returns the index of a weighted random entry.
func (p Palette) pick(rng *rand.Rand) int {
	r := rng.Float64() * p.total
	for i := range p.entries {
		r -= p.entries[i].weight
		if r < 0 {
			return i
		}
	}
	return len(p.entries) - 1
}

// Sample draws a color. Boosted channels are clamped back into [0,1].
func (p Palette) Sample(rng *rand.Rand) colorful.Color {
	e := &p.entries[p.pick(rng)]
	c := e.from
	if e.blend {
		c = e.from.BlendRgb(e.to, rng.Float64())
	}
	if k := e.boost.Random(rng); k != 1 {
		c = colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
	}
	return c.Clamped()
}

// newRNG returns rng, or a time-seeded generator when rng is nil.
func newRNG(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Generate builds the initial attribute buffer for count particles.
func Generate(count int, shape Shape, palette Palette, size Range, rng *rand.Rand) *ParticleBuffer {
	rng = newRNG(rng)
	buf := NewParticleBuffer(count)
	for i := 0; i < count; i++ {
		x, y, z := shape.Sample(rng)
		buf.SetPosition(i, float32(x), float32(y), float32(z))

		c := palette.Sample(rng)
		buf.SetColor(i, float32(c.R), float32(c.G), float32(c.B))

		buf.Sizes[i] = float32(size.Random(rng))
		buf.Seeds[i] = rng.Float32()
	}
	return buf
}
