package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Wish counts
	ActiveWishes int `csv:"active_wishes"`
	Launched     int `csv:"launched"`
	Arrived      int `csv:"arrived"`
	Retired      int `csv:"retired"`

	// Flight time of wishes that arrived during the window
	FlightMean float64 `csv:"flight_mean"`

	// Input source share of ticks in the window
	GestureShare  float64 `csv:"gesture_share"`
	OpenPalmShare float64 `csv:"open_palm_share"`

	// Tree state sampled every tick
	ExpansionMean float64 `csv:"expansion_mean"`
	ExpansionP90  float64 `csv:"expansion_p90"`
	PulseMax      float64 `csv:"pulse_max"`

	SnowRecycles  int    `csv:"snow_recycles"`
	DroppedFrames uint64 `csv:"dropped_frames"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean and percentiles of values.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("active_wishes", s.ActiveWishes),
		slog.Int("launched", s.Launched),
		slog.Int("arrived", s.Arrived),
		slog.Int("retired", s.Retired),
		slog.Float64("flight_mean", s.FlightMean),
		slog.Float64("gesture_share", s.GestureShare),
		slog.Float64("open_palm_share", s.OpenPalmShare),
		slog.Float64("expansion_mean", s.ExpansionMean),
		slog.Float64("expansion_p90", s.ExpansionP90),
		slog.Float64("pulse_max", s.PulseMax),
		slog.Int("snow_recycles", s.SnowRecycles),
		slog.Uint64("dropped_frames", s.DroppedFrames),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
