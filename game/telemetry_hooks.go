package game

import (
	"log/slog"

	"github.com/pthm-cable/wishtree/telemetry"
)

// flushTelemetry writes the stats window once it is complete.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	total := 0
	for i := 0; i < g.snow.Buffer().Len(); i++ {
		total += int(g.snow.Recycles(i))
	}
	recycles := total - g.snowRecycles
	g.snowRecycles = total
	var dropped uint64
	if g.gesture != nil {
		dropped = g.gesture.Stats().Dropped
	}

	stats := g.collector.Flush(g.tick, g.activeWish, recycles, dropped)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logSceneState()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
	g.writeEvents()
}

// recordEvent queues an event for the events file and logs it when stats
// logging is on.
func (g *Game) recordEvent(e telemetry.Event) {
	if g.logStats {
		slog.Info("event", "event", e)
	}
	if g.outputManager != nil {
		g.events = append(g.events, e)
	}
}

// writeEvents flushes queued events.
func (g *Game) writeEvents() {
	if len(g.events) == 0 {
		return
	}
	if err := g.outputManager.WriteEvents(g.events); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	g.events = g.events[:0]
}
