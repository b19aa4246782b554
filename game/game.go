// Package game coordinates the scene: input, particle systems, wishes and telemetry.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wishtree/audio"
	"github.com/pthm-cable/wishtree/camera"
	"github.com/pthm-cable/wishtree/components"
	"github.com/pthm-cable/wishtree/config"
	"github.com/pthm-cable/wishtree/gesture"
	"github.com/pthm-cable/wishtree/renderer"
	"github.com/pthm-cable/wishtree/systems"
	"github.com/pthm-cable/wishtree/telemetry"
	"github.com/pthm-cable/wishtree/ui"
)

// InputSource names where the follow target comes from this frame.
type InputSource uint8

const (
	SourceMouse InputSource = iota
	SourceGesture
)

func (s InputSource) String() string {
	if s == SourceGesture {
		return "gesture"
	}
	return "mouse"
}

// Options configures a new Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool

	// ConfigPath is watched for changes when Watch is set.
	ConfigPath string
	Watch      bool

	// GestureScript replays a CSV gesture timeline instead of the virtual hand.
	// The camera is enabled at startup when a script is given.
	GestureScript string

	// WishEvery submits a wish automatically every N seconds (0 = off).
	WishEvery float64

	Mute bool
}

// Game holds the complete scene state.
type Game struct {
	cfg  *config.Config
	opts Options
	rng  *rand.Rand

	world       *ecs.World
	wishMapper  *ecs.Map3[components.Wish, components.Projectile, components.Retirement]
	wishFilter  *ecs.Filter3[components.Wish, components.Projectile, components.Retirement]
	wishPalette systems.Palette

	tree   *systems.Tree
	snow   *systems.Snow
	camera *camera.Camera

	// Input
	gesture     *gesture.Pipeline
	device      *gesture.SyntheticDevice
	hand        *gesture.VirtualHand
	sample      gesture.Sample
	source      InputSource
	pointer     [2]float64 // parallax in [-1,1]
	follow      [2]float64 // damped yaw, pitch
	autoRotate  bool
	pulseToken  uint64
	lastGesture gesture.Category
	notice      string

	ctx    context.Context
	cancel context.CancelFunc

	// Telemetry
	collector       *telemetry.Collector
	perfCollector   *telemetry.PerfCollector
	lifetimeTracker *telemetry.LifetimeTracker
	outputManager   *telemetry.OutputManager
	events          []telemetry.Event
	snowRecycles    int // running total at the last flush
	logStats        bool
	statsCallback   func(telemetry.WindowStats)

	watcher *config.Watcher
	sound   *audio.SoundManager

	// Rendering (nil when headless)
	scene   *renderer.SceneRenderer
	overlay *ui.Overlay

	// State
	tick       int32
	simTime    float64
	clockBase  time.Time
	paused     bool
	nextWishID uint64
	activeWish int
	nextAuto   float64
	autoCount  int

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a scene. config.Init must have been called.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	treePalette, err := systems.NewPalette(cfg.Tree.Palette)
	if err != nil {
		return nil, fmt.Errorf("tree palette: %w", err)
	}
	wishPalette, err := systems.NewPalette(cfg.Wish.Palette)
	if err != nil {
		return nil, fmt.Errorf("wish palette: %w", err)
	}

	world := ecs.NewWorld()

	g := &Game{
		cfg:         cfg,
		opts:        opts,
		rng:         rng,
		world:       world,
		wishMapper:  ecs.NewMap3[components.Wish, components.Projectile, components.Retirement](world),
		wishFilter:  ecs.NewFilter3[components.Wish, components.Projectile, components.Retirement](world),
		wishPalette: wishPalette,

		tree:   systems.NewTree(cfg.Tree, treePalette, rng),
		snow:   systems.NewSnow(cfg.Snow, cfg.Physics.ReferenceHz, rng),
		camera: camera.New(cfg.Camera),

		hand:       &gesture.VirtualHand{},
		autoRotate: true,
		logStats:   opts.LogStats,
		clockBase:  time.Now(),
		nextWishID: 1,
		nextAuto:   opts.WishEvery,

		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.lifetimeTracker = telemetry.NewLifetimeTracker()

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if opts.Watch && opts.ConfigPath != "" {
		g.watcher, err = config.Watch(opts.ConfigPath)
		if err != nil {
			// Hot reload is optional
			slog.Warn("config watch unavailable", "path", opts.ConfigPath, "error", err)
		}
	}

	g.sound = audio.NewSoundManager(cfg.Audio)
	if !opts.Headless && !opts.Mute {
		if err := g.sound.Initialize(); err != nil {
			slog.Warn("audio unavailable", "error", err)
		}
	}

	g.startGesture()

	if !opts.Headless {
		g.scene = renderer.NewSceneRenderer(cfg)
		g.overlay = ui.NewOverlay(cfg.Wish.MaxTextLength)
	}

	slog.Info("scene created",
		"seed", seed,
		"tree_particles", cfg.Tree.Count,
		"snow_particles", cfg.Snow.Count,
		"gesture_script", opts.GestureScript,
		"headless", opts.Headless,
	)

	return g, nil
}

// startGesture builds the gesture pipeline. A script replaces the virtual hand.
func (g *Game) startGesture() {
	cfg := g.cfg

	loader := gesture.StaticLoader(g.hand)
	if g.opts.GestureScript != "" {
		loader = gesture.ScriptLoader(g.opts.GestureScript)
	}
	g.device = &gesture.SyntheticDevice{Width: 640, Height: 480, Deny: cfg.Gesture.Deny}
	g.gesture = gesture.NewPipeline(gesture.Options{
		Device:      g.device,
		Loader:      loader,
		OpenTimeout: cfg.Gesture.OpenTimeout,
		LoadTimeout: cfg.Gesture.LoadTimeout,
	})

	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.gesture.Start(g.ctx)
	if g.opts.GestureScript != "" {
		g.gesture.Enable(g.ctx)
	}
}

// ToggleGesture turns the camera on or off.
func (g *Game) ToggleGesture() {
	if g.gesture.Enabled() {
		g.gesture.Disable()
		return
	}
	g.notice = ""
	g.gesture.Enable(g.ctx)
}

// SetStatsCallback registers a function called with each flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// UpdateHeadless runs one fixed step without any graphics.
func (g *Game) UpdateHeadless() {
	g.Step(g.cfg.Physics.DT)
}

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns elapsed scene time in seconds.
func (g *Game) SimTime() float64 {
	return g.simTime
}

// ActiveWishes returns the number of wish entities alive.
func (g *Game) ActiveWishes() int {
	return g.activeWish
}

// Tree returns the canopy system.
func (g *Game) Tree() *systems.Tree {
	return g.tree
}

// Snow returns the snowfall system.
func (g *Game) Snow() *systems.Snow {
	return g.snow
}

// Camera returns the orbit camera.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}

// Source returns the current input source.
func (g *Game) Source() InputSource {
	return g.source
}

// Follow returns the damped yaw and pitch applied to the tree.
func (g *Game) Follow() [2]float64 {
	return g.follow
}

// AutoRotate reports whether the camera is orbiting on its own.
func (g *Game) AutoRotate() bool {
	return g.autoRotate
}

// PulseToken returns the number of wish arrivals so far.
func (g *Game) PulseToken() uint64 {
	return g.pulseToken
}

// Notice returns the camera error notice to show, or "".
func (g *Game) Notice() string {
	return g.notice
}

// DismissNotice clears the camera error notice.
func (g *Game) DismissNotice() {
	g.notice = ""
}

// Close stops the gesture pipeline, flushes telemetry and stops audio.
func (g *Game) Close() {
	if g.gesture != nil {
		if err := g.gesture.Close(); err != nil {
			slog.Warn("gesture pipeline shutdown", "error", err)
		}
		g.gesture = nil
	}
	if g.cancel != nil {
		g.cancel()
	}

	g.writeEvents()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
	g.outputManager = nil
	if err := g.watcher.Close(); err != nil {
		slog.Warn("config watcher shutdown", "error", err)
	}
	g.watcher = nil
	g.sound.Cleanup()
}

// Unload releases all resources including GPU state.
func (g *Game) Unload() {
	g.Close()
	if g.scene != nil {
		g.scene.Unload()
	}
}
