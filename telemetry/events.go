// Package telemetry provides frame timing, wish lifecycle events and window stats.
package telemetry

import "log/slog"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventWishLaunched EventType = iota
	EventWishArrived
	EventWishRetired
	EventGestureChanged
	EventCameraError
	EventConfigReloaded
)

func (t EventType) String() string {
	switch t {
	case EventWishLaunched:
		return "wish_launched"
	case EventWishArrived:
		return "wish_arrived"
	case EventWishRetired:
		return "wish_retired"
	case EventGestureChanged:
		return "gesture_changed"
	case EventCameraError:
		return "camera_error"
	case EventConfigReloaded:
		return "config_reloaded"
	}
	return "unknown"
}

// MarshalCSV implements gocsv's TypeMarshaller.
func (t EventType) MarshalCSV() (string, error) {
	return t.String(), nil
}

// Event represents a single telemetry event.
type Event struct {
	Type    EventType `csv:"type"`
	Tick    int32     `csv:"tick"`
	SimTime float64   `csv:"sim_time"`
	WishID  uint64    `csv:"wish_id"`

	// Optional fields depending on event type
	Detail string  `csv:"detail"` // wish text, gesture label or error
	Value  float64 `csv:"value"`  // flight seconds on arrival, lifetime on retire
}

// NewWishLaunchedEvent creates a launch event.
func NewWishLaunchedEvent(tick int32, simTime float64, id uint64, text string) Event {
	return Event{Type: EventWishLaunched, Tick: tick, SimTime: simTime, WishID: id, Detail: text}
}

// NewWishArrivedEvent creates an arrival event.
func NewWishArrivedEvent(tick int32, simTime float64, id uint64, flightSec float64) Event {
	return Event{Type: EventWishArrived, Tick: tick, SimTime: simTime, WishID: id, Value: flightSec}
}

// NewWishRetiredEvent creates a retirement event.
func NewWishRetiredEvent(tick int32, simTime float64, id uint64, lifetimeSec float64) Event {
	return Event{Type: EventWishRetired, Tick: tick, SimTime: simTime, WishID: id, Value: lifetimeSec}
}

// NewGestureChangedEvent records a category change.
func NewGestureChangedEvent(tick int32, simTime float64, label string) Event {
	return Event{Type: EventGestureChanged, Tick: tick, SimTime: simTime, Detail: label}
}

// NewCameraErrorEvent records a camera failure.
func NewCameraErrorEvent(tick int32, simTime float64, err error) Event {
	return Event{Type: EventCameraError, Tick: tick, SimTime: simTime, Detail: err.Error()}
}

// NewConfigReloadedEvent records a hot reload.
func NewConfigReloadedEvent(tick int32, simTime float64, path string) Event {
	return Event{Type: EventConfigReloaded, Tick: tick, SimTime: simTime, Detail: path}
}

// LogValue implements slog.LogValuer for structured logging.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.Type.String()),
		slog.Int("tick", int(e.Tick)),
		slog.Float64("sim_time", e.SimTime),
	}
	if e.WishID != 0 {
		attrs = append(attrs, slog.Uint64("wish_id", e.WishID))
	}
	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}
	if e.Value != 0 {
		attrs = append(attrs, slog.Float64("value", e.Value))
	}
	return slog.GroupValue(attrs...)
}
