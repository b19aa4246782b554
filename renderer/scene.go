// Package renderer draws the scene with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/wishtree/camera"
	"github.com/pthm-cable/wishtree/config"
	"github.com/pthm-cable/wishtree/systems"
)

// View is the read-only scene state consumed by one Draw call.
type View struct {
	Time   float64
	Camera *camera.Camera
	Tree   *systems.Tree
	Snow   *systems.Snow
	Wishes []*systems.Wish
}

// SceneRenderer draws the sky, tree, snow and wishes.
type SceneRenderer struct {
	cfg       *config.Config
	sky       *SkyRenderer
	particles *ParticleRenderer
	stars     *starfield
	bg        rl.Color
	time      float64
}

// NewSceneRenderer creates a renderer. GPU resources load on first Draw.
func NewSceneRenderer(cfg *config.Config) *SceneRenderer {
	bg := rl.Color{R: 2, G: 4, B: 10, A: 255}
	if c, err := colorful.Hex(cfg.Screen.Background); err == nil {
		r, g, b := c.RGB255()
		bg = rl.Color{R: r, G: g, B: b, A: 255}
	}
	return &SceneRenderer{
		cfg:       cfg,
		sky:       NewSkyRenderer(int32(cfg.Screen.Width), int32(cfg.Screen.Height), bg),
		particles: NewParticleRenderer(),
		stars:     newStarfield(1500, 120, 7),
		bg:        bg,
	}
}

// SetConfig swaps in a reloaded config.
func (r *SceneRenderer) SetConfig(cfg *config.Config) {
	r.cfg = cfg
}

// Resize propagates new window dimensions.
func (r *SceneRenderer) Resize(w, h int32) {
	r.sky.Resize(w, h)
}

// ToCamera3D converts the orbit camera to a raylib perspective camera.
func ToCamera3D(c *camera.Camera) rl.Camera3D {
	p := c.Position()
	return rl.Camera3D{
		Position:   rl.Vector3{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)},
		Target:     rl.Vector3{X: float32(c.Target.X), Y: float32(c.Target.Y), Z: float32(c.Target.Z)},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       float32(c.Fovy),
		Projection: rl.CameraPerspective,
	}
}

// Draw renders one frame of the 3D scene. Must be called between
// BeginDrawing and EndDrawing.
func (r *SceneRenderer) Draw(v View) {
	r.time = v.Time
	rl.ClearBackground(r.bg)
	r.sky.Draw(float32(v.Time))

	cam := ToCamera3D(v.Camera)
	bb := NewBillboard(cam)

	rl.BeginMode3D(cam)
	r.stars.draw(v.Time)
	r.drawTree(v.Tree, bb)

	rl.BeginBlendMode(rl.BlendAdditive)
	r.drawSnow(v.Snow, bb)
	for _, w := range v.Wishes {
		r.drawWish(w, bb)
	}
	rl.EndBlendMode()

	rl.EndMode3D()
}

// drawTree draws the canopy group with its trunk, aura and topper.
func (r *SceneRenderer) drawTree(tr *systems.Tree, bb Billboard) {
	cfg := tr.Config()
	yaw, pitch := tr.Orientation()
	origin := rl.Vector3{
		X: float32(cfg.Offset[0]),
		Y: float32(cfg.Offset[1] + tr.Bob()),
		Z: float32(cfg.Offset[2]),
	}

	drawAura(rl.Vector3{X: origin.X, Y: float32(cfg.Offset[1]) + 0.1, Z: origin.Z}, r.time)

	rl.PushMatrix()
	rl.Translatef(origin.X, origin.Y, origin.Z)
	rl.Rotatef(float32(yaw*180/math.Pi), 0, 1, 0)
	rl.Rotatef(float32(pitch*180/math.Pi), 1, 0, 0)

	drawTrunk()

	rl.PushMatrix()
	rl.Translatef(0, float32(cfg.CanopyLift), 0)
	rl.BeginBlendMode(rl.BlendAdditive)
	r.particles.Draw(tr.Buffer(), bb, [3]float32{1, 1, 1}, 1)
	rl.EndBlendMode()
	rl.PopMatrix()

	drawTopper(rl.Vector3{Y: float32(cfg.TopperHeight)}, tr.Topper())
	rl.PopMatrix()
}

func (r *SceneRenderer) drawSnow(s *systems.Snow, bb Billboard) {
	r.particles.Draw(s.Buffer(), bb, [3]float32{1, 1, 1}, s.Opacity())
}

// drawWish places the wish's local point cloud with its transform: rotate
// about Z, then X, then translate.
func (r *SceneRenderer) drawWish(w *systems.Wish, bb Billboard) {
	if !w.Visible() {
		return
	}
	tf := w.Transform()

	rl.PushMatrix()
	rl.Translatef(float32(tf.Position.X), float32(tf.Position.Y), float32(tf.Position.Z))
	rl.Rotatef(float32(tf.RotX*180/math.Pi), 1, 0, 0)
	rl.Rotatef(float32(tf.RotZ*180/math.Pi), 0, 0, 1)
	r.particles.Draw(w.Buffer(), bb, [3]float32{1, 1, 1}, w.Opacity())
	rl.PopMatrix()
}

// Unload frees GPU resources.
func (r *SceneRenderer) Unload() {
	r.sky.Unload()
}
