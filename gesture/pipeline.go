package gesture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options configures a Pipeline.
type Options struct {
	Device      Device
	Loader      Loader
	OpenTimeout time.Duration
	LoadTimeout time.Duration
	Logger      *slog.Logger
}

// Stats counts pipeline activity.
type Stats struct {
	Inferences uint64
	Dropped    uint64 // frames offered while an inference was in flight
	Errors     uint64
}

type job struct {
	frame Frame
	ts    int64
	epoch uint64
}

// Pipeline owns the camera stream and recognizer. Tick is called once per
// display frame and never blocks; inference runs on a worker goroutine and
// publishes only the latest sample.
type Pipeline struct {
	opts Options
	log  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
	jobs   chan job
	busy   atomic.Bool

	mu         sync.Mutex
	recognizer Recognizer
	stream     Stream
	enabled    bool
	ready      bool
	epoch      uint64 // bumped on every Enable/Disable; stale work is discarded
	latest     Sample
	err        error
	origin     time.Time
	lastTS     int64
	stats      Stats
}

// NewPipeline creates an idle pipeline. Call Start before Enable.
func NewPipeline(opts Options) *Pipeline {
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 10 * time.Second
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		opts: opts,
		log:  log.With("component", "gesture"),
		jobs: make(chan job, 1),
	}
}

// Start begins loading the recognizer and starts the inference worker.
func (p *Pipeline) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.g, p.ctx = errgroup.WithContext(p.ctx)

	p.g.Go(p.worker)
	if p.opts.Loader != nil {
		p.g.Go(p.load)
	}
}

func (p *Pipeline) load() error {
	ctx, cancel := context.WithTimeout(p.ctx, p.opts.LoadTimeout)
	defer cancel()

	start := time.Now()
	rec, err := p.opts.Loader(ctx)
	if err != nil {
		// Inference stays unavailable; consumers see CategoryNone
		p.log.Warn("recognizer load failed", "error", err)
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx.Err() != nil {
		closeRecognizer(rec)
		return nil
	}
	p.recognizer = rec
	p.log.Info("recognizer loaded", "elapsed", time.Since(start))
	return nil
}

// Enable asynchronously opens the camera. Failures leave the pipeline
// disabled and are reported through TakeError.
func (p *Pipeline) Enable(ctx context.Context) {
	p.mu.Lock()
	if p.enabled || p.g == nil || p.opts.Device == nil {
		p.mu.Unlock()
		return
	}
	p.enabled = true
	p.epoch++
	epoch := p.epoch
	p.mu.Unlock()

	p.g.Go(func() error {
		p.open(ctx, epoch)
		return nil
	})
}

func (p *Pipeline) open(ctx context.Context, epoch uint64) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.OpenTimeout)
	defer cancel()
	stop := context.AfterFunc(p.ctx, cancel)
	defer stop()

	stream, err := p.opts.Device.Open(ctx)
	if err != nil {
		// Some devices hand back what they acquired along with the error
		stopTracks(stream)
		p.fail(epoch, fmt.Errorf("opening camera: %w", err))
		return
	}
	if err := stream.WaitReady(ctx); err != nil {
		stopTracks(stream)
		p.fail(epoch, fmt.Errorf("waiting for camera: %w", err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch || !p.enabled {
		// Disabled while opening
		stopTracks(stream)
		return
	}
	p.stream = stream
	p.ready = true
	p.log.Info("camera ready")
}

func (p *Pipeline) fail(epoch uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch {
		return
	}
	p.enabled = false
	p.err = err
	if errors.Is(err, ErrPermissionDenied) {
		p.log.Warn("camera permission denied", "error", err)
	} else {
		p.log.Error("camera unavailable", "error", err)
	}
}

// Disable stops the camera and resets the category to None.
func (p *Pipeline) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Hardware first, then references
	stopTracks(p.stream)
	p.stream = nil
	p.ready = false
	p.enabled = false
	p.epoch++
	p.latest.Category = CategoryNone
}

// Tick offers the current frame to the worker. Frames offered while an
// inference is in flight are dropped.
func (p *Pipeline) Tick(now time.Time) {
	p.mu.Lock()
	if !p.ready || p.recognizer == nil || p.stream == nil {
		p.mu.Unlock()
		return
	}
	frame, ok := p.stream.Frame()
	if !ok {
		p.mu.Unlock()
		return
	}
	if !p.busy.CompareAndSwap(false, true) {
		p.stats.Dropped++
		p.mu.Unlock()
		return
	}

	if p.origin.IsZero() {
		p.origin = now
	}
	ts := now.Sub(p.origin).Milliseconds()
	if ts <= p.lastTS {
		ts = p.lastTS + 1
	}
	p.lastTS = ts
	j := job{frame: frame, ts: ts, epoch: p.epoch}
	p.mu.Unlock()

	select {
	case p.jobs <- j:
	default:
		p.busy.Store(false)
	}
}

func (p *Pipeline) worker() error {
	for {
		select {
		case <-p.ctx.Done():
			return nil
		case j := <-p.jobs:
			p.infer(j)
			p.busy.Store(false)
		}
	}
}

func (p *Pipeline) infer(j job) {
	p.mu.Lock()
	rec := p.recognizer
	p.mu.Unlock()
	if rec == nil {
		return
	}

	res, err := rec.Recognize(j.frame, j.ts)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != j.epoch {
		return
	}
	p.stats.Inferences++
	if err != nil {
		p.stats.Errors++
		p.log.Warn("inference failed", "error", err, "frame", j.frame.Seq)
		p.latest.Category = CategoryNone
		return
	}
	p.latest = MapResult(p.latest, res)
}

// Latest returns the most recent sample.
func (p *Pipeline) Latest() Sample {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Active reports whether the camera is enabled and delivering frames.
func (p *Pipeline) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled && p.ready
}

// Enabled reports whether the camera is on or being opened.
func (p *Pipeline) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// RecognizerReady reports whether the recognizer has finished loading.
func (p *Pipeline) RecognizerReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recognizer != nil
}

// TakeError returns and clears the last device error.
func (p *Pipeline) TakeError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.err
	p.err = nil
	return err
}

// Stats returns activity counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Close stops the camera, cancels background work and waits for it.
func (p *Pipeline) Close() error {
	p.Disable()
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	err := p.g.Wait()

	p.mu.Lock()
	rec := p.recognizer
	p.recognizer = nil
	p.mu.Unlock()
	closeRecognizer(rec)
	return err
}

func closeRecognizer(r Recognizer) {
	if c, ok := r.(io.Closer); ok {
		c.Close()
	}
}
