package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Tree.Count != 14000 {
		t.Errorf("expected tree count 14000, got %d", cfg.Tree.Count)
	}
	if cfg.Snow.Count != 2000 {
		t.Errorf("expected snow count 2000, got %d", cfg.Snow.Count)
	}
	if cfg.Wish.DissolveSeconds != 10 {
		t.Errorf("expected dissolve 10s, got %v", cfg.Wish.DissolveSeconds)
	}
	if cfg.Gesture.OpenTimeout != 10*time.Second {
		t.Errorf("expected open timeout 10s, got %v", cfg.Gesture.OpenTimeout)
	}
	if len(cfg.Tree.Palette) != 2 {
		t.Errorf("expected 2 tree palette entries, got %d", len(cfg.Tree.Palette))
	}
	if math.Abs(cfg.Camera.MaxPolar-math.Pi/1.8) > 1e-6 {
		t.Errorf("expected max polar pi/1.8, got %v", cfg.Camera.MaxPolar)
	}
}

func TestLoadDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Derived.SnowCeil != cfg.Snow.Range {
		t.Errorf("snow ceiling %v should equal range %v", cfg.Derived.SnowCeil, cfg.Snow.Range)
	}
	// 10s window at 60Hz
	if cfg.Derived.StatsTicks != 600 {
		t.Errorf("expected 600 stats ticks, got %d", cfg.Derived.StatsTicks)
	}
	if cfg.Wish.FadeSeconds > cfg.Wish.DissolveSeconds {
		t.Errorf("fade window %v exceeds dissolve ceiling %v", cfg.Wish.FadeSeconds, cfg.Wish.DissolveSeconds)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("snow:\n  count: 50\nwish:\n  dissolve_seconds: 6\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading %s: %v", path, err)
	}

	if cfg.Snow.Count != 50 {
		t.Errorf("expected overridden snow count 50, got %d", cfg.Snow.Count)
	}
	if cfg.Wish.DissolveSeconds != 6 {
		t.Errorf("expected overridden dissolve 6, got %v", cfg.Wish.DissolveSeconds)
	}
	// Untouched fields keep their defaults
	if cfg.Tree.Count != 14000 {
		t.Errorf("expected default tree count, got %d", cfg.Tree.Count)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero tree", "tree:\n  count: 0\n"},
		{"inverted fall speed", "snow:\n  fall_speed: [0.07, 0.02]\n"},
		{"zero flight rate", "wish:\n  flight_rate: 0\n"},
		{"zero dissolve", "wish:\n  dissolve_seconds: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Tree.PulsePeak = 2.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if back.Tree.PulsePeak != 2.5 {
		t.Errorf("expected pulse peak 2.5 after reload, got %v", back.Tree.PulsePeak)
	}
	if back.Gesture.LoadTimeout != cfg.Gesture.LoadTimeout {
		t.Errorf("duration did not survive roundtrip: %v vs %v", back.Gesture.LoadTimeout, cfg.Gesture.LoadTimeout)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	prev := global
	global = nil
	defer func() {
		global = prev
		if recover() == nil {
			t.Error("expected panic from Cfg() before Init()")
		}
	}()
	Cfg()
}

func TestWatchPicksUpWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("snow:\n  count: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("starting watcher: %v", err)
	}
	defer w.Close()

	if _, ok := w.Poll(); ok {
		t.Fatal("no update expected before any write")
	}

	if err := os.WriteFile(path, []byte("snow:\n  count: 20\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		// A write can surface as truncate+write; wait for the final content.
		if cfg, ok := w.Poll(); ok && cfg.Snow.Count == 20 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("timed out waiting for config reload")
}

func TestWatchSettlesBurstOfWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("snow:\n  count: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("starting watcher: %v", err)
	}
	defer w.Close()

	// Half-written file followed quickly by the finished one
	writes := []string{"snow:\n  count: [", "snow:\n  count: 30\n"}
	for _, body := range writes {
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	var got *Config
	for got == nil && time.Now().Before(deadline) {
		if cfg, ok := w.Poll(); ok {
			got = cfg
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got == nil {
		t.Fatal("timed out waiting for config reload")
	}
	if got.Snow.Count != 30 {
		t.Errorf("reloaded snow.count = %d, want 30", got.Snow.Count)
	}

	time.Sleep(3 * reloadDelay)
	if cfg, ok := w.Poll(); ok {
		t.Errorf("burst should reload once, got a second config with snow.count %d", cfg.Snow.Count)
	}
}

func TestWatchEmptyPath(t *testing.T) {
	if _, err := Watch(""); err == nil {
		t.Error("expected error for empty path")
	}
}
