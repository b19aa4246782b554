package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the status panel.
type HUDData struct {
	Title        string
	ActiveWishes int
	Source       string
	Gesture      string
	CameraState  string
	Expansion    float64
	Pulse        float64
	PulsePeak    float64
	Tick         int32
	FPS          int32
	Paused       bool
}

// HUD renders the status panel.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	const width = 260
	x, y := int32(10), int32(10)
	pad := r.Theme.Padding

	r.DrawPanel(x, y, width, 8*r.Theme.LineHeight+2*pad)
	x += pad
	y += pad

	y = r.DrawSectionHeader(x, y, data.Title)
	y = r.DrawLabelValue(x, y, "Wishes", fmt.Sprintf("%d", data.ActiveWishes))
	y = r.DrawLabelValue(x, y, "Input", data.Source)
	y = r.DrawLabelValue(x, y, "Gesture", data.Gesture)
	y = r.DrawLabelValue(x, y, "Camera", data.CameraState)
	y = r.DrawBar(x, y, "Bloom", float32(data.Expansion), 1, width-2*pad)
	y = r.DrawBar(x, y, "Pulse", float32(data.Pulse), float32(data.PulsePeak), width-2*pad)

	status := fmt.Sprintf("Tick %d | FPS %d", data.Tick, data.FPS)
	if data.Paused {
		status += " | PAUSED"
	}
	rl.DrawText(status, x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
