package telemetry

import "math"

// TickSample is the per-tick scene state the collector aggregates.
type TickSample struct {
	GestureSource bool
	OpenPalm      bool
	Expansion     float64
	Pulse         float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	launched int
	arrived  int
	retired  int
	flights  []float64

	// Per-tick samples for current window
	ticks         int
	gestureTicks  int
	openPalmTicks int
	expansion     []float64
	pulseMax      float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		expansion:           make([]float64, 0, ticksPerWindow),
	}
}

// RecordLaunch records a submitted wish.
func (c *Collector) RecordLaunch() {
	c.launched++
}

// RecordArrival records a wish reaching the tree after flightSec seconds.
func (c *Collector) RecordArrival(flightSec float64) {
	c.arrived++
	c.flights = append(c.flights, flightSec)
}

// RecordRetire records a wish being removed.
func (c *Collector) RecordRetire() {
	c.retired++
}

// RecordTick samples the scene state once per tick.
func (c *Collector) RecordTick(s TickSample) {
	c.ticks++
	if s.GestureSource {
		c.gestureTicks++
	}
	if s.OpenPalm {
		c.openPalmTicks++
	}
	c.expansion = append(c.expansion, s.Expansion)
	if s.Pulse > c.pulseMax {
		c.pulseMax = s.Pulse
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, activeWishes, snowRecycles int, droppedFrames uint64) WindowStats {
	var gestureShare, palmShare float64
	if c.ticks > 0 {
		gestureShare = float64(c.gestureTicks) / float64(c.ticks)
		palmShare = float64(c.openPalmTicks) / float64(c.ticks)
	}
	flightMean, _, _, _ := ComputeDistribution(c.flights)
	expMean, _, _, expP90 := ComputeDistribution(c.expansion)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		ActiveWishes: activeWishes,
		Launched:     c.launched,
		Arrived:      c.arrived,
		Retired:      c.retired,
		FlightMean:   flightMean,

		GestureShare:  gestureShare,
		OpenPalmShare: palmShare,

		ExpansionMean: expMean,
		ExpansionP90:  expP90,
		PulseMax:      c.pulseMax,

		SnowRecycles:  snowRecycles,
		DroppedFrames: droppedFrames,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.launched = 0
	c.arrived = 0
	c.retired = 0
	c.flights = c.flights[:0]
	c.ticks = 0
	c.gestureTicks = 0
	c.openPalmTicks = 0
	c.expansion = c.expansion[:0]
	c.pulseMax = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
