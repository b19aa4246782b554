package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	// All methods are nil-safe
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteEvents([]Event{{}}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should report empty dir and close cleanly")
	}
}

func TestOutputManagerWritesHeadersOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := int32(1); i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: i * 600, Launched: int(i)}); err != nil {
			t.Fatal(err)
		}
		if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{PhaseTree: 40}}, i*600); err != nil {
			t.Fatal(err)
		}
	}
	events := []Event{
		NewWishLaunchedEvent(1, 0.01, 1, "snow, please"),
		NewWishArrivedEvent(151, 2.5, 1, 2.5),
		NewCameraErrorEvent(200, 3.3, errors.New("denied")),
	}
	if err := om.WriteEvents(events); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file   string
		header string
		rows   int
	}{
		{"telemetry.csv", "window_end,sim_time,active_wishes,launched", 3},
		{"perf.csv", "window_end,avg_tick_us", 3},
		{"events.csv", "type,tick,sim_time,wish_id,detail,value", 3},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if !strings.HasPrefix(lines[0], tt.header) {
				t.Errorf("header %q does not start with %q", lines[0], tt.header)
			}
			if got := len(lines) - 1; got != tt.rows {
				t.Errorf("expected %d data rows, got %d", tt.rows, got)
			}
			for _, l := range lines[1:] {
				if strings.HasPrefix(l, tt.header) {
					t.Error("header repeated in body")
				}
			}
		})
	}

	data, _ := os.ReadFile(filepath.Join(dir, "events.csv"))
	if !strings.Contains(string(data), "wish_launched") || !strings.Contains(string(data), "camera_error") {
		t.Errorf("event types not written by name:\n%s", data)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg := loadDefaults(t)
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
