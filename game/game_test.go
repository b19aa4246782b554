package game

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/wishtree/config"
	"github.com/pthm-cable/wishtree/gesture"
	"github.com/pthm-cable/wishtree/telemetry"
)

const frame = 1.0 / 60

func newTestGame(t *testing.T, opts Options, tweak func(*config.Config)) *Game {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if tweak != nil {
		tweak(cfg)
	}
	config.Set(cfg)

	opts.Headless = true
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(g.Close)
	return g
}

// stepUntil steps the scene in real time until cond holds. Used where the
// gesture pipeline's goroutines must catch up.
func stepUntil(t *testing.T, g *Game, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		g.Step(frame)
		time.Sleep(time.Millisecond)
	}
}

func TestSubmitWishIgnoresBlankText(t *testing.T) {
	g := newTestGame(t, Options{}, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, ok := g.SubmitWish(text); ok {
			t.Errorf("blank text %q should not launch a wish", text)
		}
	}
	if g.ActiveWishes() != 0 {
		t.Fatalf("expected no wishes, got %d", g.ActiveWishes())
	}

	id1, ok1 := g.SubmitWish("  peace on earth ")
	id2, ok2 := g.SubmitWish("snow")
	if !ok1 || !ok2 || id2 <= id1 {
		t.Errorf("ids should increase: %d, %d", id1, id2)
	}
	if text, _ := g.WishText(id1); text != "peace on earth" {
		t.Errorf("text not trimmed: %q", text)
	}
	if g.ActiveWishes() != 2 {
		t.Errorf("expected 2 wishes, got %d", g.ActiveWishes())
	}
}

func TestSubmitWishTruncatesText(t *testing.T) {
	g := newTestGame(t, Options{}, func(c *config.Config) { c.Wish.MaxTextLength = 4 })

	id, _ := g.SubmitWish("snowflake")
	if text, _ := g.WishText(id); text != "snow" {
		t.Errorf("expected truncated text, got %q", text)
	}
}

func TestWishLifecycle(t *testing.T) {
	g := newTestGame(t, Options{}, nil)
	cfg := config.Cfg()

	g.SubmitWish("a white christmas")

	arrival := -1
	for i := 1; i <= 400; i++ {
		g.Step(frame)
		if g.PulseToken() == 1 {
			arrival = i
			break
		}
	}
	// 0.4 progress per second reaches the tree after 2.5s
	if arrival < 148 || arrival > 152 {
		t.Fatalf("wish arrived after %d frames, want about 150", arrival)
	}

	// The tree picks up the pulse on the following frame
	g.Step(frame)
	if math.Abs(g.Tree().PulseEnergy()-cfg.Tree.PulsePeak) > 1e-9 {
		t.Errorf("pulse = %v, want %v", g.Tree().PulseEnergy(), cfg.Tree.PulsePeak)
	}
	if g.PulseToken() != 1 {
		t.Errorf("arrival should fire exactly once, token = %d", g.PulseToken())
	}

	removed := -1
	for i := 2; i <= 900; i++ {
		g.Step(frame)
		if g.ActiveWishes() == 0 {
			removed = i
			break
		}
	}
	// Removed dissolve_seconds after arrival
	want := int(cfg.Wish.DissolveSeconds / frame)
	if removed < want-2 || removed > want+2 {
		t.Errorf("wish removed %d frames after arrival, want about %d", removed, want)
	}
	if len(g.Wishes()) != 0 {
		t.Error("world should hold no wish entities")
	}
}

func TestReloadMidFlightKeepsWishCeiling(t *testing.T) {
	tests := []struct {
		name     string
		reloaded float64
	}{
		{"shorter", 3},
		{"longer", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, Options{}, nil)
			launched := config.Cfg().Wish.DissolveSeconds

			g.SubmitWish("a quiet night")
			for i := 0; i < 30; i++ {
				g.Step(frame)
			}

			cfg, err := config.Load("")
			if err != nil {
				t.Fatal(err)
			}
			cfg.Wish.DissolveSeconds = tt.reloaded
			cfg.Wish.FadeSeconds = math.Min(cfg.Wish.FadeSeconds, tt.reloaded)
			g.applyConfig(cfg)

			for g.PulseToken() == 0 {
				g.Step(frame)
			}

			removed := 0
			var lastOpacity float64
			for g.ActiveWishes() > 0 && removed < 3000 {
				if ws := g.Wishes(); len(ws) == 1 {
					lastOpacity = ws[0].Opacity()
				}
				g.Step(frame)
				removed++
			}

			want := int(launched / frame)
			if removed < want-2 || removed > want+2 {
				t.Errorf("removed %d frames after arrival, want about %d", removed, want)
			}
			if lastOpacity > 0.05 {
				t.Errorf("wish removed while still visible, opacity %v", lastOpacity)
			}
		})
	}
}

func TestFlightTelemetryUsesSceneTime(t *testing.T) {
	g := newTestGame(t, Options{}, nil)
	id, _ := g.SubmitWish("uneven frames")

	// Alternate slow and fast frames so ticks and seconds disagree
	steps := []float64{1.0 / 30, 1.0 / 120}
	for i := 0; g.PulseToken() == 0; i++ {
		if i > 1000 {
			t.Fatal("wish never arrived")
		}
		g.Step(steps[i%2])
	}

	lt := g.lifetimeTracker.Get(id)
	if lt == nil {
		t.Fatal("wish not tracked")
	}
	// 0.4 progress per second lands after 2.5s, within one slow frame
	if got := lt.FlightSeconds(); got < 2.5-1e-6 || got > 2.5+1.0/30 {
		t.Errorf("flight seconds %v, want about 2.5", got)
	}
}

func TestMouseFollow(t *testing.T) {
	g := newTestGame(t, Options{}, nil)
	cfg := config.Cfg()

	// Top-right corner
	g.SetPointer(1280, 0, 1280, 800)
	for i := 0; i < 600; i++ {
		g.Step(frame)
	}

	if g.Source() != SourceMouse {
		t.Errorf("source = %v, want mouse", g.Source())
	}
	if !g.AutoRotate() {
		t.Error("camera should auto-rotate without a gesture")
	}
	want := [2]float64{math.Pi * cfg.Follow.Mouse[0], math.Pi * cfg.Follow.Mouse[1]}
	got := g.Follow()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("follow[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	yaw, pitch := g.Tree().Orientation()
	if yaw != got[0] || pitch != got[1] {
		t.Error("tree orientation should equal the damped follow target")
	}
}

func TestFollowIsDampedOnce(t *testing.T) {
	g := newTestGame(t, Options{}, nil)
	cfg := config.Cfg()

	g.SetPointer(1280, 400, 1280, 800)
	g.Step(frame)

	want := cfg.Follow.Smoothing * math.Pi * cfg.Follow.Mouse[0]
	if math.Abs(g.Follow()[0]-want) > 1e-12 {
		t.Errorf("first frame follow = %v, want %v", g.Follow()[0], want)
	}
}

func TestParallax(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		want   [2]float64
	}{
		{"center", 640, 400, [2]float64{0, 0}},
		{"top left", 0, 0, [2]float64{-1, 1}},
		{"bottom right", 1280, 800, [2]float64{1, -1}},
		{"outside clamps", 2000, -100, [2]float64{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parallax(tt.px, tt.py, 1280, 800)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("Parallax = %v, want %v", got, tt.want)
				}
			}
		})
	}

	if got := Parallax(10, 10, 0, 0); got != [2]float64{} {
		t.Errorf("zero-size view should give no parallax, got %v", got)
	}
}

func TestGestureScriptDrivesScene(t *testing.T) {
	script := filepath.Join(t.TempDir(), "script.csv")
	data := "time_ms,category,x,y\n0,Open_Palm,0.75,0.25\n"
	if err := os.WriteFile(script, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	g := newTestGame(t, Options{GestureScript: script}, nil)
	cfg := config.Cfg()

	stepUntil(t, g, "gesture source", func() bool { return g.Source() == SourceGesture })
	if g.AutoRotate() {
		t.Error("auto-rotate should stop while a gesture is held")
	}

	for i := 0; i < 600; i++ {
		g.Step(frame)
	}
	// Hand at (0.75, 0.25) maps to direction (0.5, 0.5)
	want := [2]float64{0.5 * math.Pi * cfg.Follow.Gesture[0], 0.5 * math.Pi * cfg.Follow.Gesture[1]}
	got := g.Follow()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("follow[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if g.Tree().Expansion() < 0.99 {
		t.Errorf("open palm should bloom the tree, expansion = %v", g.Tree().Expansion())
	}

	g.ToggleGesture()
	g.Step(frame)
	if g.Source() != SourceMouse || g.sample.Category != gesture.CategoryNone {
		t.Error("disabling the camera should fall back to the mouse")
	}
}

func TestCameraDeniedFallsBackToMouse(t *testing.T) {
	g := newTestGame(t, Options{}, func(c *config.Config) { c.Gesture.Deny = true })

	g.ToggleGesture()
	stepUntil(t, g, "camera notice", func() bool { return g.Notice() != "" })

	if !strings.Contains(g.Notice(), "denied") {
		t.Errorf("unexpected notice %q", g.Notice())
	}
	if g.Source() != SourceMouse {
		t.Error("scene should keep following the mouse")
	}
	g.DismissNotice()
	if g.Notice() != "" {
		t.Error("notice should clear")
	}
}

func TestApplyConfigKeepsBuffers(t *testing.T) {
	g := newTestGame(t, Options{}, nil)
	before := g.Tree().Buffer()

	cfg, _ := config.Load("")
	cfg.Tree.Count = 10
	cfg.Camera.MaxDistance = 10
	g.applyConfig(cfg)

	if g.Tree().Buffer() != before || g.Tree().Buffer().Len() != before.Len() {
		t.Error("reload must not reallocate the tree buffer")
	}
	if g.Camera().Distance != 10 {
		t.Errorf("camera distance = %v, want reclamped to 10", g.Camera().Distance)
	}
	if config.Cfg() != cfg {
		t.Error("reloaded config should become the global config")
	}
}

func TestTelemetryOutput(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, Options{OutputDir: dir, WishEvery: 1, StatsWindowSec: 5}, nil)

	flushed := 0
	g.SetStatsCallback(func(telemetry.WindowStats) { flushed++ })

	// First wish launches at 1s, lands at 3.5s and retires at 13.5s
	for i := 0; i < 60*15; i++ {
		g.UpdateHeadless()
	}
	g.Close()

	if flushed != 3 {
		t.Errorf("expected 3 stats windows, got %d", flushed)
	}
	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"wish_launched", "wish_arrived", "wish_retired"} {
		if !strings.Contains(string(events), name) {
			t.Errorf("events.csv missing %s", name)
		}
	}
	for _, f := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("%s not written: %v", f, err)
		}
	}
}
