// Package audio plays the wish launch and arrival chimes.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/wishtree/config"
)

// chimeLength is how long a chime rings before it is cut.
const chimeLength = 1200 * time.Millisecond

// SoundManager mixes short chimes onto the speaker. Every method is safe to
// call before Initialize or after Cleanup; it just does nothing.
type SoundManager struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a sound manager. Call Initialize to open the device.
func NewSoundManager(cfg config.AudioConfig) *SoundManager {
	sr := cfg.SampleRate
	if sr <= 0 {
		sr = 48000
	}
	return &SoundManager{
		cfg:        cfg,
		sampleRate: beep.SampleRate(sr),
		mixer:      &beep.Mixer{},
	}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}

	if err := speaker.Init(sm.sampleRate, sm.sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// PlayLaunch plays the chime for a submitted wish.
func (sm *SoundManager) PlayLaunch() {
	sm.play(sm.cfg.LaunchHz)
}

// PlayArrival plays the chime for a wish reaching the tree.
func (sm *SoundManager) PlayArrival() {
	sm.play(sm.cfg.ArrivalHz)
}

func (sm *SoundManager) play(freq float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || freq <= 0 {
		return
	}
	speaker.Lock()
	sm.mixer.Add(sm.chime(freq))
	speaker.Unlock()
}

// chime builds a volume-scaled, length-limited chime stream.
func (sm *SoundManager) chime(freq float64) beep.Streamer {
	s := beep.Take(sm.sampleRate.N(chimeLength), NewChimeGenerator(sm.sampleRate, freq))
	return volume(s, sm.cfg.Volume)
}

// volume scales s linearly; 0 silences it.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// ChimeGenerator is a bell-like tone: a fundamental plus two soft partials
// under a fast attack and exponential decay.
type ChimeGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewChimeGenerator creates a chime at freq Hz.
func NewChimeGenerator(sr beep.SampleRate, freq float64) *ChimeGenerator {
	return &ChimeGenerator{sr: sr, freq: freq}
}

// Stream fills samples. The tone never ends on its own; callers bound it with beep.Take.
func (g *ChimeGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := math.Sin(2 * math.Pi * g.freq * t)
		sample += 0.4 * math.Sin(2*math.Pi*g.freq*2.76*t)
		sample += 0.2 * math.Sin(2*math.Pi*g.freq*5.4*t)

		attack := math.Min(t/0.005, 1.0)
		envelope := attack * math.Exp(-t*4)
		sample *= envelope * 0.3

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (g *ChimeGenerator) Err() error {
	return nil
}
