package game

import "log/slog"

// logSceneState logs a snapshot of the live scene.
func (g *Game) logSceneState() {
	yaw, pitch := g.tree.Orientation()
	attrs := []any{
		"tick", g.tick,
		"sim_time", g.simTime,
		"active_wishes", g.activeWish,
		"tracked_wishes", g.lifetimeTracker.Count(),
		"source", g.source.String(),
		"gesture", g.sample.Category.String(),
		"auto_rotate", g.autoRotate,
		"expansion", g.tree.Expansion(),
		"pulse", g.tree.PulseEnergy(),
		"yaw", yaw,
		"pitch", pitch,
		"camera_azimuth", g.camera.Azimuth,
		"camera_polar", g.camera.Polar,
	}
	if g.gesture != nil {
		s := g.gesture.Stats()
		attrs = append(attrs,
			"camera_active", g.gesture.Active(),
			"inferences", s.Inferences,
			"inference_errors", s.Errors,
		)
	}
	slog.Info("scene", attrs...)
}
