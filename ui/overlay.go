package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// maxTextBytes bounds the raygui text buffer. Prompt.MaxLen limits runes.
const maxTextBytes = 512

// OverlayState is what the overlay needs to know about the scene this frame.
type OverlayState struct {
	Width, Height int32
	CameraOn      bool
	Notice        string
	HUD           HUDData
}

// Actions are the user requests collected during one overlay draw.
type Actions struct {
	Wish          string
	Submitted     bool
	ToggleGesture bool
	DismissNotice bool
}

// Overlay draws the wish prompt, the camera toggle, the HUD and any camera
// error notice.
type Overlay struct {
	prompt Prompt
	hud    *HUD
	theme  Theme
}

// NewOverlay creates an overlay whose prompt accepts up to maxLen runes.
func NewOverlay(maxLen int) *Overlay {
	return &Overlay{
		prompt: Prompt{MaxLen: maxLen},
		hud:    NewHUD(),
		theme:  DefaultTheme(),
	}
}

// Editing reports whether the wish box has keyboard focus.
func (o *Overlay) Editing() bool {
	return o.prompt.Editing
}

// Draw renders the overlay and returns what the user asked for.
func (o *Overlay) Draw(s OverlayState) Actions {
	var act Actions

	o.hud.Draw(s.HUD)
	o.hud.DrawControls(s.Height, "Enter: send wish | O/F/V: hand pose | Right-drag: orbit | Space: pause | F11: fullscreen")

	// Prompt row along the bottom center
	const boxW, btnW, rowH = 420, 90, 32
	x := float32(s.Width)/2 - (boxW+btnW+10)/2
	y := float32(s.Height) - 80

	box := rl.Rectangle{X: x, Y: y, Width: boxW, Height: rowH}
	if gui.TextBox(box, &o.prompt.Text, maxTextBytes, o.prompt.Editing) {
		if o.prompt.Editing && rl.IsKeyPressed(rl.KeyEnter) {
			act.Wish, act.Submitted = o.prompt.Submit()
		}
		o.prompt.Editing = !o.prompt.Editing
	}
	o.prompt.Clip()

	send := rl.Rectangle{X: x + boxW + 10, Y: y, Width: btnW, Height: rowH}
	if gui.Button(send, "Send") {
		act.Wish, act.Submitted = o.prompt.Submit()
	}

	label := "Camera: off"
	if s.CameraOn {
		label = "Camera: on"
	}
	toggle := rl.Rectangle{X: float32(s.Width) - 150, Y: 10, Width: 140, Height: rowH}
	if gui.Button(toggle, label) {
		act.ToggleGesture = true
	}

	if s.Notice != "" {
		bounds := rl.Rectangle{X: float32(s.Width)/2 - 220, Y: float32(s.Height)/2 - 70, Width: 440, Height: 140}
		if gui.MessageBox(bounds, "Camera", s.Notice, "OK") >= 0 {
			act.DismissNotice = true
		}
	}

	return act
}
