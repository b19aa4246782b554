package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wishtree/systems"
)

// Billboard holds the camera's world-space right and up vectors, used to
// face particle quads toward the viewer.
type Billboard struct {
	Right, Up rl.Vector3
}

// NewBillboard derives billboard axes from a camera.
func NewBillboard(cam rl.Camera3D) Billboard {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(cam.Target, cam.Position))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, cam.Up))
	up := rl.Vector3CrossProduct(right, forward)
	return Billboard{Right: right, Up: up}
}

// ParticleRenderer draws a particle buffer as additive camera-facing quads.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders every particle in buf under the current matrix. Colors are
// multiplied by tint; alpha is opacity in [0,1].
func (r *ParticleRenderer) Draw(buf *systems.ParticleBuffer, bb Billboard, tint [3]float32, opacity float64) {
	if opacity <= 0 {
		return
	}
	alpha := uint8(math.Min(opacity, 1) * 255)

	rl.Begin(rl.Quads)
	for i := 0; i < buf.Len(); i++ {
		j := i * 3
		half := buf.Sizes[i] * 0.5
		if half <= 0 {
			continue
		}
		x, y, z := buf.Positions[j], buf.Positions[j+1], buf.Positions[j+2]
		rx, ry, rz := bb.Right.X*half, bb.Right.Y*half, bb.Right.Z*half
		ux, uy, uz := bb.Up.X*half, bb.Up.Y*half, bb.Up.Z*half

		rl.Color4ub(
			channel(buf.Colors[j]*tint[0]),
			channel(buf.Colors[j+1]*tint[1]),
			channel(buf.Colors[j+2]*tint[2]),
			alpha,
		)
		rl.Vertex3f(x-rx-ux, y-ry-uy, z-rz-uz)
		rl.Vertex3f(x+rx-ux, y+ry-uy, z+rz-uz)
		rl.Vertex3f(x+rx+ux, y+ry+uy, z+rz+uz)
		rl.Vertex3f(x-rx+ux, y-ry+uy, z-rz+uz)
	}
	rl.End()
}

// channel converts a linear color component to a byte, saturating above 1.
func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
