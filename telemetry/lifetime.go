package telemetry

// WishLifetime tracks one wish from launch to retirement. Times are scene
// seconds, so they stay correct under variable frame steps.
type WishLifetime struct {
	LaunchTick  int32
	ArrivalTick int32 // -1 until arrival
	LaunchTime  float64
	ArrivalTime float64
	TextLength  int
}

// Arrived reports whether the wish has reached the tree.
func (l *WishLifetime) Arrived() bool {
	return l.ArrivalTick >= 0
}

// FlightSeconds returns the time from launch to arrival, or 0 before arrival.
func (l *WishLifetime) FlightSeconds() float64 {
	if !l.Arrived() {
		return 0
	}
	return l.ArrivalTime - l.LaunchTime
}

// Age returns the seconds since launch at scene time now.
func (l *WishLifetime) Age(now float64) float64 {
	return now - l.LaunchTime
}

// LifetimeTracker manages per-wish lifetime statistics.
type LifetimeTracker struct {
	stats map[uint64]*WishLifetime
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint64]*WishLifetime),
	}
}

// Register starts tracking a launched wish.
func (lt *LifetimeTracker) Register(id uint64, tick int32, now float64, textLength int) {
	lt.stats[id] = &WishLifetime{
		LaunchTick:  tick,
		ArrivalTick: -1,
		LaunchTime:  now,
		TextLength:  textLength,
	}
}

// Get returns the lifetime stats for a wish, or nil if not found.
func (lt *LifetimeTracker) Get(id uint64) *WishLifetime {
	return lt.stats[id]
}

// RecordArrival stamps the arrival tick and time. Later calls are ignored.
func (lt *LifetimeTracker) RecordArrival(id uint64, tick int32, now float64) {
	if s := lt.stats[id]; s != nil && !s.Arrived() {
		s.ArrivalTick = tick
		s.ArrivalTime = now
	}
}

// Remove removes a wish's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint64) *WishLifetime {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// Count returns the number of tracked wishes.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
