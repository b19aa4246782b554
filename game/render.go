package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wishtree/renderer"
	"github.com/pthm-cable/wishtree/ui"
)

// Draw renders the scene and overlay, then applies overlay actions.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()

	if g.scene != nil {
		g.scene.Draw(renderer.View{
			Time:   g.simTime,
			Camera: g.camera,
			Tree:   g.tree,
			Snow:   g.snow,
			Wishes: g.Wishes(),
		})
	}

	var act ui.Actions
	if g.overlay != nil {
		act = g.overlay.Draw(g.overlayState())
	}

	rl.EndDrawing()

	g.applyActions(act)
}

func (g *Game) overlayState() ui.OverlayState {
	camState := "off"
	switch {
	case g.gesture.Active():
		camState = "on"
	case g.gesture.Enabled():
		camState = "starting"
	}
	return ui.OverlayState{
		Width:    int32(g.screenWidth),
		Height:   int32(g.screenHeight),
		CameraOn: g.gesture.Enabled(),
		Notice:   g.notice,
		HUD: ui.HUDData{
			Title:        "Wish Tree",
			ActiveWishes: g.activeWish,
			Source:       g.source.String(),
			Gesture:      g.sample.Category.String(),
			CameraState:  camState,
			Expansion:    g.tree.Expansion(),
			Pulse:        g.tree.PulseEnergy(),
			PulsePeak:    g.cfg.Tree.PulsePeak,
			Tick:         g.tick,
			FPS:          rl.GetFPS(),
			Paused:       g.paused,
		},
	}
}

// applyActions carries out what the user asked for in the overlay.
func (g *Game) applyActions(act ui.Actions) {
	if act.Submitted {
		g.SubmitWish(act.Wish)
	}
	if act.ToggleGesture {
		g.ToggleGesture()
	}
	if act.DismissNotice {
		g.DismissNotice()
	}
}
