package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wishtree/camera"
	"github.com/pthm-cable/wishtree/gesture"
)

// Update reads input and advances the scene by the frame delta.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	dt := float64(rl.GetFrameTime())
	if dt > g.cfg.Physics.MaxDT {
		dt = g.cfg.Physics.MaxDT
	}
	g.Step(dt)
}

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	mouse := rl.GetMousePosition()
	w, h := float64(g.screenWidth), float64(g.screenHeight)
	g.SetPointer(float64(mouse.X), float64(mouse.Y), w, h)

	// Keys typed into the wish box are not shortcuts
	typing := g.overlay != nil && g.overlay.Editing()
	if !typing && rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	g.handleVirtualHand(typing, float64(mouse.X)/w, float64(mouse.Y)/h)
	g.handleCameraInput(typing)
}

// handleVirtualHand drives the camera stand-in from held keys. The hand
// sits under the pointer.
func (g *Game) handleVirtualHand(typing bool, x, y float64) {
	c := gesture.CategoryNone
	if !typing {
		switch {
		case rl.IsKeyDown(rl.KeyO):
			c = gesture.CategoryOpenPalm
		case rl.IsKeyDown(rl.KeyF):
			c = gesture.CategoryClosedFist
		case rl.IsKeyDown(rl.KeyV):
			c = gesture.CategoryVictory
		}
	}
	g.hand.Set(c, x, y)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	if g.scene != nil {
		g.scene.Resize(int32(w), int32(h))
	}
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput(typing bool) {
	const rotateStep = 0.02

	if !typing {
		if rl.IsKeyDown(rl.KeyRight) {
			g.camera.Rotate(rotateStep, 0)
		}
		if rl.IsKeyDown(rl.KeyLeft) {
			g.camera.Rotate(-rotateStep, 0)
		}
		if rl.IsKeyDown(rl.KeyDown) {
			g.camera.Rotate(0, rotateStep)
		}
		if rl.IsKeyDown(rl.KeyUp) {
			g.camera.Rotate(0, -rotateStep)
		}
		if rl.IsKeyPressed(rl.KeyHome) {
			g.camera = camera.New(g.cfg.Camera)
		}
	}

	// Right-drag orbits
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Rotate(-float64(d.X)*0.005, -float64(d.Y)*0.005)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.Dolly(1 - float64(wheel)*0.1)
	}
}
