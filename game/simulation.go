package game

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/pthm-cable/wishtree/config"
	"github.com/pthm-cable/wishtree/curve"
	"github.com/pthm-cable/wishtree/gesture"
	"github.com/pthm-cable/wishtree/systems"
	"github.com/pthm-cable/wishtree/telemetry"
)

// Step advances the scene by dt seconds. Phases run in a fixed order:
// config, gesture, params, tree, snow, wishes, retire.
func (g *Game) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseConfig)
	g.reloadConfig()

	g.simTime += dt
	t := g.simTime

	g.perfCollector.StartPhase(telemetry.PhaseGesture)
	g.updateGesture()

	g.perfCollector.StartPhase(telemetry.PhaseParams)
	g.updateParams(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTree)
	g.tree.Update(t, dt, systems.TreeInput{
		Gesture:    g.treeGesture(),
		PulseToken: g.pulseToken,
		Follow:     g.follow,
	})

	g.perfCollector.StartPhase(telemetry.PhaseSnow)
	g.snow.Update(t, dt)

	g.perfCollector.StartPhase(telemetry.PhaseWishes)
	g.autoSubmit()
	g.updateWishes(t, dt)

	g.perfCollector.StartPhase(telemetry.PhaseRetire)
	g.retireWishes(dt)

	g.perfCollector.EndTick()

	g.tick++
	g.collector.RecordTick(telemetry.TickSample{
		GestureSource: g.source == SourceGesture,
		OpenPalm:      g.treeGesture() == gesture.CategoryOpenPalm,
		Expansion:     g.tree.Expansion(),
		Pulse:         g.tree.PulseEnergy(),
	})
	g.flushTelemetry()
}

// reloadConfig applies a pending hot-reloaded config to live-tunable values.
func (g *Game) reloadConfig() {
	cfg, ok := g.watcher.Poll()
	if !ok {
		return
	}
	g.applyConfig(cfg)
	g.recordEvent(telemetry.NewConfigReloadedEvent(g.tick, g.simTime, g.opts.ConfigPath))
}

// applyConfig swaps in a new config. Buffer sizes never change.
func (g *Game) applyConfig(cfg *config.Config) {
	config.Set(cfg)
	g.cfg = cfg
	g.tree.SetConfig(cfg.Tree)
	g.snow.SetConfig(cfg.Snow)
	g.camera.Apply(cfg.Camera)
	if g.scene != nil {
		g.scene.SetConfig(cfg)
	}
	if p, err := systems.NewPalette(cfg.Wish.Palette); err == nil {
		g.wishPalette = p
	} else {
		slog.Warn("keeping previous wish palette", "error", err)
	}
}

// updateGesture feeds the pipeline and picks up its latest result.
func (g *Game) updateGesture() {
	g.gesture.Tick(g.clockBase.Add(time.Duration(g.simTime * float64(time.Second))))

	if err := g.gesture.TakeError(); err != nil {
		g.notice = cameraNotice(err)
		g.recordEvent(telemetry.NewCameraErrorEvent(g.tick, g.simTime, err))
	}

	g.sample = g.gesture.Latest()
	if !g.gesture.Active() {
		g.sample.Category = gesture.CategoryNone
	}
	if c := g.sample.Category; c != g.lastGesture {
		g.lastGesture = c
		g.recordEvent(telemetry.NewGestureChangedEvent(g.tick, g.simTime, c.String()))
	}
}

// cameraNotice turns a device error into a user-facing message.
func cameraNotice(err error) string {
	switch {
	case errors.Is(err, gesture.ErrPermissionDenied):
		return "Camera access was denied. Gesture control is off; the tree follows your mouse."
	case errors.Is(err, gesture.ErrDeviceUnavailable):
		return "No camera was found. Gesture control is off; the tree follows your mouse."
	}
	return "The camera could not be started. Gesture control is off; the tree follows your mouse."
}

// treeGesture is the category the tree reacts to.
func (g *Game) treeGesture() gesture.Category {
	if g.source != SourceGesture {
		return gesture.CategoryNone
	}
	return g.sample.Category
}

// updateParams selects the input source, damps the follow target and
// moves the camera.
func (g *Game) updateParams(dt float64) {
	cfg := g.cfg.Follow
	active := g.gesture.Active()

	var target [2]float64
	if active && g.sample.Category != gesture.CategoryNone {
		g.source = SourceGesture
		d := g.sample.Direction
		target = [2]float64{d[0] * math.Pi * cfg.Gesture[0], d[1] * math.Pi * cfg.Gesture[1]}
	} else {
		g.source = SourceMouse
		target = [2]float64{g.pointer[0] * math.Pi * cfg.Mouse[0], g.pointer[1] * math.Pi * cfg.Mouse[1]}
	}

	g.follow[0] = curve.Damp(g.follow[0], target[0], cfg.Smoothing)
	g.follow[1] = curve.Damp(g.follow[1], target[1], cfg.Smoothing)

	g.autoRotate = !active || g.sample.Category == gesture.CategoryNone
	g.camera.Update(dt, g.autoRotate)
}
