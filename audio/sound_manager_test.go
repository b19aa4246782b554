package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/wishtree/config"
)

func testAudioConfig() config.AudioConfig {
	return config.AudioConfig{Enabled: true, SampleRate: 48000, Volume: 0.5, LaunchHz: 660, ArrivalHz: 880}
}

// TestSoundManagerGracefulDegradation verifies chimes are no-ops without a device
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(testAudioConfig())

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("sound operations panicked without initialization: %v", r)
		}
	}()

	sm.PlayLaunch()
	sm.PlayArrival()
	sm.Cleanup()
}

func TestSoundManagerDisabled(t *testing.T) {
	cfg := testAudioConfig()
	cfg.Enabled = false
	sm := NewSoundManager(cfg)

	if err := sm.Initialize(); err != nil {
		t.Fatalf("disabled audio should not touch the device: %v", err)
	}
	if sm.initialized {
		t.Error("disabled audio must stay uninitialized")
	}
}

func TestChimeDecays(t *testing.T) {
	sr := beep.SampleRate(48000)
	g := NewChimeGenerator(sr, 880)

	peak := func(seconds float64) float64 {
		buf := make([][2]float64, sr.N(time.Duration(seconds*float64(time.Second))))
		n, ok := g.Stream(buf)
		if !ok || n != len(buf) {
			t.Fatalf("stream returned n=%d ok=%v", n, ok)
		}
		m := 0.0
		for _, s := range buf {
			if s[0] != s[1] {
				t.Fatal("chime should be mono across both channels")
			}
			m = math.Max(m, math.Abs(s[0]))
		}
		return m
	}

	first := peak(0.1)
	second := peak(0.4)
	third := peak(0.5)
	if first <= 0 || first > 1 {
		t.Fatalf("first peak %v out of range", first)
	}
	if !(second < first && third < second) {
		t.Errorf("peaks should decay: %v, %v, %v", first, second, third)
	}
}

func TestChimeLengthBounded(t *testing.T) {
	sm := NewSoundManager(testAudioConfig())
	s := sm.chime(660)

	total := 0
	buf := make([][2]float64, 4096)
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if want := sm.sampleRate.N(chimeLength); total != want {
		t.Errorf("chime streamed %d samples, want %d", total, want)
	}
}
