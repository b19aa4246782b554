package gesture

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// SyntheticDevice is a camera stand-in that produces blank frames on demand.
type SyntheticDevice struct {
	Width, Height int
	ReadyDelay    time.Duration
	Deny          bool  // Open fails with ErrPermissionDenied
	ReadyErr      error // WaitReady fails after tracks are acquired

	mu      sync.Mutex
	streams []*SyntheticStream
}

// Open returns a new stream unless permission is denied.
func (d *SyntheticDevice) Open(ctx context.Context) (Stream, error) {
	if d.Deny {
		return nil, ErrPermissionDenied
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &SyntheticStream{
		width:  d.Width,
		height: d.Height,
		delay:  d.ReadyDelay,
		err:    d.ReadyErr,
		track:  &SyntheticTrack{},
	}
	d.mu.Lock()
	d.streams = append(d.streams, s)
	d.mu.Unlock()
	return s, nil
}

// Streams returns every stream opened so far.
func (d *SyntheticDevice) Streams() []*SyntheticStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*SyntheticStream, len(d.streams))
	copy(out, d.streams)
	return out
}

// SyntheticStream numbers frames sequentially until its track is stopped.
type SyntheticStream struct {
	width, height int
	delay         time.Duration
	err           error
	track         *SyntheticTrack
	seq           atomic.Uint64
}

// WaitReady waits out the configured delay.
func (s *SyntheticStream) WaitReady(ctx context.Context) error {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return s.err
}

// Frame returns the next frame while the track is live.
func (s *SyntheticStream) Frame() (Frame, bool) {
	if s.track.Stopped() {
		return Frame{}, false
	}
	return Frame{
		Seq:    s.seq.Add(1),
		Width:  s.width,
		Height: s.height,
		At:     time.Now(),
	}, true
}

// Tracks returns the single video track.
func (s *SyntheticStream) Tracks() []Track {
	return []Track{s.track}
}

// Track returns the concrete track for inspection.
func (s *SyntheticStream) Track() *SyntheticTrack {
	return s.track
}

// SyntheticTrack records whether it has been stopped.
type SyntheticTrack struct {
	stopped atomic.Bool
}

// Stop releases the track.
func (t *SyntheticTrack) Stop() {
	t.stopped.Store(true)
}

// Stopped reports whether Stop was called.
func (t *SyntheticTrack) Stopped() bool {
	return t.stopped.Load()
}
