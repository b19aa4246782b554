package gesture

import (
	"context"
	"errors"
	"time"
)

// ErrPermissionDenied is returned by a Device when the user refuses camera access.
var ErrPermissionDenied = errors.New("camera permission denied")

// ErrDeviceUnavailable is returned by a Device when no camera can be opened.
var ErrDeviceUnavailable = errors.New("camera unavailable")

// Frame is one captured video frame. Pixel data is opaque to the pipeline.
type Frame struct {
	Seq    uint64
	Width  int
	Height int
	Pixels []byte
	At     time.Time
}

// Classification is one ranked label for a hand.
type Classification struct {
	CategoryName string
	Score        float32
}

// Landmark is a point in normalized image space, x right and y down in [0,1].
type Landmark struct {
	X, Y, Z float64
}

// Result is the recognizer output. Gestures and Landmarks are indexed by hand;
// either may be empty.
type Result struct {
	Gestures  [][]Classification
	Landmarks [][]Landmark
}

// Sample is the latest mapped gesture state.
type Sample struct {
	Category  Category
	Direction [2]float64 // x right, y up, each in [-1,1]
}

// Device opens a camera stream.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open camera stream.
type Stream interface {
	// WaitReady blocks until frames are available.
	WaitReady(ctx context.Context) error
	// Frame returns the current frame, or false when none is available.
	Frame() (Frame, bool)
	// Tracks returns the hardware tracks backing the stream.
	Tracks() []Track
}

// Track is a hardware capture track.
type Track interface {
	Stop()
}

// Recognizer runs gesture inference on a frame. timestampMs must increase
// between calls.
type Recognizer interface {
	Recognize(frame Frame, timestampMs int64) (Result, error)
}

// Loader prepares a Recognizer. It may be slow.
type Loader func(ctx context.Context) (Recognizer, error)

// StaticLoader returns a Loader that hands back r immediately.
func StaticLoader(r Recognizer) Loader {
	return func(context.Context) (Recognizer, error) {
		return r, nil
	}
}

// stopTracks releases every hardware track of s.
func stopTracks(s Stream) {
	if s == nil {
		return
	}
	for _, t := range s.Tracks() {
		t.Stop()
	}
}
