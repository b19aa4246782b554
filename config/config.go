// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Camera    CameraConfig    `yaml:"camera"`
	Follow    FollowConfig    `yaml:"follow"`
	Tree      TreeConfig      `yaml:"tree"`
	Snow      SnowConfig      `yaml:"snow"`
	Wish      WishConfig      `yaml:"wish"`
	Gesture   GestureConfig   `yaml:"gesture"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Background string `yaml:"background"` // hex color
}

// PhysicsConfig holds frame stepping parameters.
type PhysicsConfig struct {
	DT          float64 `yaml:"dt"`           // fixed step for headless runs
	MaxDT       float64 `yaml:"max_dt"`       // frame delta ceiling in graphical mode
	ReferenceHz float64 `yaml:"reference_hz"` // rate that per-frame constants were tuned at
}

// CameraConfig holds orbit camera parameters.
type CameraConfig struct {
	Position        [3]float64 `yaml:"position"`
	Target          [3]float64 `yaml:"target"`
	Fovy            float64    `yaml:"fovy"`
	MinDistance     float64    `yaml:"min_distance"`
	MaxDistance     float64    `yaml:"max_distance"`
	MinPolar        float64    `yaml:"min_polar"` // radians
	MaxPolar        float64    `yaml:"max_polar"` // radians
	Damping         float64    `yaml:"damping"`
	AutoRotateSpeed float64    `yaml:"auto_rotate_speed"` // 1.0 = one orbit per 60s
}

// FollowConfig holds the gesture/mouse follow mapping.
type FollowConfig struct {
	Smoothing float64    `yaml:"smoothing"`
	Gesture   [2]float64 `yaml:"gesture"` // yaw, pitch gain in units of pi
	Mouse     [2]float64 `yaml:"mouse"`   // yaw, pitch gain in units of pi
}

// PaletteEntry is one weighted color choice. Blend and Boost are optional.
type PaletteEntry struct {
	Color  string     `yaml:"color"`
	Blend  string     `yaml:"blend"`  // random blend target
	Boost  [2]float64 `yaml:"boost"`  // random brightness multiplier range
	Weight float64    `yaml:"weight"`
}

// TreeConfig holds tree canopy parameters.
type TreeConfig struct {
	Count              int            `yaml:"count"`
	Height             float64        `yaml:"height"`
	MaxRadius          float64        `yaml:"max_radius"`
	Offset             [3]float64     `yaml:"offset"` // group origin
	CanopyLift         float64        `yaml:"canopy_lift"`
	Size               [2]float64     `yaml:"size"`
	Palette            []PaletteEntry `yaml:"palette"`
	ExpansionSmoothing float64        `yaml:"expansion_smoothing"`
	ExpansionRadial    float64        `yaml:"expansion_radial"`
	ExpansionVertical  float64        `yaml:"expansion_vertical"`
	VerticalBias       float64        `yaml:"vertical_bias"`
	PulsePeak          float64        `yaml:"pulse_peak"`
	PulseDecay         float64        `yaml:"pulse_decay"` // per second
	TwinkleThreshold   float64        `yaml:"twinkle_threshold"`
	TwinkleGain        float64        `yaml:"twinkle_gain"`
	ExpansionSizeGain  float64        `yaml:"expansion_size_gain"`
	PulseSizeGain      float64        `yaml:"pulse_size_gain"`
	FloatSpeed         float64        `yaml:"float_speed"`
	FloatAmplitude     float64        `yaml:"float_amplitude"`
	TopperHeight       float64        `yaml:"topper_height"`
}

// SnowConfig holds snowfall parameters.
type SnowConfig struct {
	Count     int        `yaml:"count"`
	Range     float64    `yaml:"range"`
	Floor     float64    `yaml:"floor"`
	FallSpeed [2]float64 `yaml:"fall_speed"` // per reference frame
	Wind      float64    `yaml:"wind"`
	Size      float64    `yaml:"size"`
	Opacity   float64    `yaml:"opacity"`
}

// WishConfig holds wish projectile parameters.
type WishConfig struct {
	Count           int            `yaml:"count"`
	Size            [2]float64     `yaml:"size"`
	Palette         []PaletteEntry `yaml:"palette"`
	Arms            int            `yaml:"arms"`
	CoreRatio       float64        `yaml:"core_ratio"`
	CoreRadius      float64        `yaml:"core_radius"`
	OuterRadius     float64        `yaml:"outer_radius"`
	Depth           float64        `yaml:"depth"`
	Start           [3]float64     `yaml:"start"`
	Control         [3]float64     `yaml:"control"`
	Target          [3]float64     `yaml:"target"`
	FlightRate      float64        `yaml:"flight_rate"` // progress per second
	SpinX           float64        `yaml:"spin_x"`
	SpinZ           float64        `yaml:"spin_z"`
	Trail           float64        `yaml:"trail"`
	Jitter          float64        `yaml:"jitter"`
	JitterFreq      float64        `yaml:"jitter_freq"`
	Explosion       [2]float64     `yaml:"explosion"`
	SlowdownSeconds float64        `yaml:"slowdown_seconds"`
	Gravity         float64        `yaml:"gravity"`
	Drift           float64        `yaml:"drift"`
	DriftFreq       float64        `yaml:"drift_freq"`
	WhitenRate      float64        `yaml:"whiten_rate"`
	Shrink          float64        `yaml:"shrink"`
	// DissolveSeconds is both the visual dissolve ceiling and the delay after
	// arrival before the coordinator removes the wish.
	DissolveSeconds float64 `yaml:"dissolve_seconds"`
	FadeSeconds     float64 `yaml:"fade_seconds"`
	MaxTextLength   int     `yaml:"max_text_length"`
}

// GestureConfig holds gesture pipeline parameters.
type GestureConfig struct {
	OpenTimeout time.Duration `yaml:"open_timeout"`
	LoadTimeout time.Duration `yaml:"load_timeout"`
	Deny        bool          `yaml:"deny"` // synthetic device refuses permission
}

// AudioConfig holds chime parameters.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
	LaunchHz   float64 `yaml:"launch_hz"`
	ArrivalHz  float64 `yaml:"arrival_hz"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32       float32 // Physics.DT as float32
	ScreenW32  float32
	ScreenH32  float32
	SnowCeil   float64 // top of the snow domain
	StatsTicks int     // Telemetry.StatsWindow in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Set replaces the global configuration (used by the hot-reload path).
func Set(cfg *Config) {
	global = cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values that would break buffer or timing invariants.
func (c *Config) validate() error {
	if c.Tree.Count <= 0 || c.Snow.Count <= 0 || c.Wish.Count <= 0 {
		return fmt.Errorf("particle counts must be positive (tree=%d snow=%d wish=%d)",
			c.Tree.Count, c.Snow.Count, c.Wish.Count)
	}
	if c.Tree.Height <= 0 {
		return fmt.Errorf("tree.height must be positive, got %v", c.Tree.Height)
	}
	if c.Snow.FallSpeed[0] <= 0 || c.Snow.FallSpeed[1] < c.Snow.FallSpeed[0] {
		return fmt.Errorf("snow.fall_speed must be an increasing positive range, got %v", c.Snow.FallSpeed)
	}
	if c.Wish.FlightRate <= 0 {
		return fmt.Errorf("wish.flight_rate must be positive, got %v", c.Wish.FlightRate)
	}
	if c.Wish.DissolveSeconds <= 0 {
		return fmt.Errorf("wish.dissolve_seconds must be positive, got %v", c.Wish.DissolveSeconds)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.SnowCeil = c.Snow.Range

	if c.Physics.ReferenceHz <= 0 {
		c.Physics.ReferenceHz = 60
	}
	if c.Physics.MaxDT <= 0 {
		c.Physics.MaxDT = 0.1
	}
	if c.Wish.FadeSeconds <= 0 || c.Wish.FadeSeconds > c.Wish.DissolveSeconds {
		c.Wish.FadeSeconds = c.Wish.DissolveSeconds
	}

	c.Derived.StatsTicks = int(math.Round(c.Telemetry.StatsWindow / c.Physics.DT))
	if c.Derived.StatsTicks < 1 {
		c.Derived.StatsTicks = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
