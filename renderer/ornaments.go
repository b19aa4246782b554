package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wishtree/systems"
)

var (
	trunkColor  = rl.Color{R: 26, G: 17, B: 10, A: 255}
	topperColor = rl.Color{R: 146, G: 64, B: 14, A: 255}
	glowColor   = rl.Color{R: 255, G: 170, B: 0, A: 38}
	ringColor   = rl.Color{R: 255, G: 204, B: 0, A: 102}
	shadowColor = rl.Color{R: 17, G: 17, B: 17, A: 128}
)

// drawTrunk draws the trunk in tree-group space.
func drawTrunk() {
	base := rl.Vector3{Y: 1 - 1.25}
	rl.DrawCylinder(base, 0.4, 0.6, 2.5, 32, trunkColor)
}

// drawTopper draws the heart ornament at pos. It brightens toward white as
// its emissive level rises.
func drawTopper(pos rl.Vector3, t systems.Topper) {
	glow := math.Min(t.Emissive/30, 1)
	c := lighten(topperColor, 0.3+0.7*glow)

	rl.PushMatrix()
	rl.Translatef(pos.X, pos.Y, pos.Z)
	rl.Rotatef(float32(t.Spin*180/math.Pi), 0, 1, 0)
	rl.Scalef(float32(t.Scale), float32(t.Scale), float32(t.Scale))

	const segments = 48
	center := rl.Vector3{Y: -0.1}
	for i := 0; i < segments; i++ {
		p0 := heartVertex(float64(i) / segments * 2 * math.Pi)
		p1 := heartVertex(float64(i+1) / segments * 2 * math.Pi)
		// Both windings so the flat heart shows from either side
		rl.DrawTriangle3D(center, p0, p1, c)
		rl.DrawTriangle3D(center, p1, p0, c)
	}
	rl.PopMatrix()

	if glow > 0.05 {
		halo := c
		halo.A = uint8(60 * glow)
		rl.DrawSphere(pos, float32(0.9*t.Scale), halo)
	}
}

// heartVertex returns a point on the classic heart curve, about one unit across.
func heartVertex(a float64) rl.Vector3 {
	s := math.Sin(a)
	x := 16 * s * s * s
	y := 13*math.Cos(a) - 5*math.Cos(2*a) - 2*math.Cos(3*a) - math.Cos(4*a)
	return rl.Vector3{X: float32(x / 32), Y: float32(y / 32)}
}

// lighten mixes c toward white by f in [0,1].
func lighten(c rl.Color, f float64) rl.Color {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*f)
	}
	return rl.Color{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

// drawAura draws the floor glow under the tree: a dark shadow disc, a soft
// breathing glow and a slowly counter-rotating ring.
func drawAura(center rl.Vector3, t float64) {
	drawRing(center, 0, 8, 32, 0, shadowColor)

	center.Y += 0.01
	rl.BeginBlendMode(rl.BlendAdditive)
	drawRing(center, 0, 6*(1+math.Sin(t)*0.05), 64, t*0.2, glowColor)
	drawRing(center, 5.2, 5.5, 64, -t*0.1, ringColor)
	rl.EndBlendMode()
}

// drawRing fills an annulus in the XZ plane. inner 0 draws a disc.
func drawRing(center rl.Vector3, inner, outer float64, segments int, phase float64, c rl.Color) {
	rl.Begin(rl.Triangles)
	rl.Color4ub(c.R, c.G, c.B, c.A)
	for i := 0; i < segments; i++ {
		a0 := phase + float64(i)/float64(segments)*2*math.Pi
		a1 := phase + float64(i+1)/float64(segments)*2*math.Pi
		s0, c0 := math.Sincos(a0)
		s1, c1 := math.Sincos(a1)

		ox0, oz0 := float32(c0*outer), float32(s0*outer)
		ox1, oz1 := float32(c1*outer), float32(s1*outer)
		ix0, iz0 := float32(c0*inner), float32(s0*inner)
		ix1, iz1 := float32(c1*inner), float32(s1*inner)

		rl.Vertex3f(center.X+ix0, center.Y, center.Z+iz0)
		rl.Vertex3f(center.X+ox1, center.Y, center.Z+oz1)
		rl.Vertex3f(center.X+ox0, center.Y, center.Z+oz0)

		rl.Vertex3f(center.X+ix0, center.Y, center.Z+iz0)
		rl.Vertex3f(center.X+ix1, center.Y, center.Z+iz1)
		rl.Vertex3f(center.X+ox1, center.Y, center.Z+oz1)
	}
	rl.End()
}

// starfield is a fixed shell of distant points.
type starfield struct {
	points []rl.Vector3
	shade  []uint8
}

func newStarfield(n int, radius float64, seed int64) *starfield {
	rng := rand.New(rand.NewSource(seed))
	sf := &starfield{points: make([]rl.Vector3, n), shade: make([]uint8, n)}
	for i := range sf.points {
		// Upper hemisphere only
		theta := rng.Float64() * 2 * math.Pi
		y := rng.Float64()*0.9 + 0.1
		r := math.Sqrt(1 - y*y)
		sf.points[i] = rl.Vector3{
			X: float32(r * math.Cos(theta) * radius),
			Y: float32(y * radius),
			Z: float32(r * math.Sin(theta) * radius),
		}
		sf.shade[i] = uint8(120 + rng.Intn(136))
	}
	return sf
}

func (sf *starfield) draw(t float64) {
	for i, p := range sf.points {
		tw := 0.85 + 0.15*math.Sin(t*1.7+float64(i))
		v := uint8(float64(sf.shade[i]) * tw)
		rl.DrawPoint3D(p, rl.Color{R: v, G: v, B: v, A: 255})
	}
}
