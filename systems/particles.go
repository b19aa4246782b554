package systems

// ParticleBuffer holds the per-particle attributes of one point cloud as
// parallel arrays. The particle count is fixed at creation; systems mutate
// the slices in place every frame and never reallocate them.
type ParticleBuffer struct {
	Positions []float32 // x,y,z triples
	Colors    []float32 // r,g,b triples in [0,1]
	Sizes     []float32
	Seeds     []float32 // in [0,1), set once at creation
}

// NewParticleBuffer allocates a zeroed buffer for n particles.
func NewParticleBuffer(n int) *ParticleBuffer {
	if n < 0 {
		n = 0
	}
	return &ParticleBuffer{
		Positions: make([]float32, n*3),
		Colors:    make([]float32, n*3),
		Sizes:     make([]float32, n),
		Seeds:     make([]float32, n),
	}
}

// Len returns the number of particles.
func (b *ParticleBuffer) Len() int {
	return len(b.Sizes)
}

// Position returns particle i's position.
func (b *ParticleBuffer) Position(i int) (x, y, z float32) {
	j := i * 3
	return b.Positions[j], b.Positions[j+1], b.Positions[j+2]
}

// SetPosition sets particle i's position.
func (b *ParticleBuffer) SetPosition(i int, x, y, z float32) {
	j := i * 3
	b.Positions[j] = x
	b.Positions[j+1] = y
	b.Positions[j+2] = z
}

// Color returns particle i's color.
func (b *ParticleBuffer) Color(i int) (r, g, bl float32) {
	j := i * 3
	return b.Colors[j], b.Colors[j+1], b.Colors[j+2]
}

// SetColor sets particle i's color.
func (b *ParticleBuffer) SetColor(i int, r, g, bl float32) {
	j := i * 3
	b.Colors[j] = r
	b.Colors[j+1] = g
	b.Colors[j+2] = bl
}

// Valid reports whether all attribute arrays agree on the particle count.
func (b *ParticleBuffer) Valid() bool {
	n := len(b.Sizes)
	return len(b.Seeds) == n && len(b.Positions) == n*3 && len(b.Colors) == n*3
}

// copyPositions returns a snapshot of the current positions, used as the
// rest pose that per-frame offsets are applied to.
func (b *ParticleBuffer) copyPositions() []float32 {
	out := make([]float32, len(b.Positions))
	copy(out, b.Positions)
	return out
}

// copySizes returns a snapshot of the current sizes.
func (b *ParticleBuffer) copySizes() []float32 {
	out := make([]float32, len(b.Sizes))
	copy(out, b.Sizes)
	return out
}
