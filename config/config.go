// Package config provides configuration loading and access for the sandbox simulations.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// maxCourant bounds (wave_speed*dt/dx)^2; the wave scheme goes unstable above it.
const maxCourant = 0.5

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Clock     ClockConfig     `yaml:"clock"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Fire      FireConfig      `yaml:"fire"`
	Water     WaterConfig     `yaml:"water"`
	Droplets  DropletsConfig  `yaml:"droplets"`
	Wind      WindConfig      `yaml:"wind"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the host window.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ClockConfig holds the fixed-timestep driver settings.
type ClockConfig struct {
	TickRate int `yaml:"tick_rate"` // Ticks per second shared by all simulations
}

// TerrainConfig describes the synthetic terrain source used when no depth
// sensor is attached (headless runs, tests).
type TerrainConfig struct {
	MeshStart  [3]float32 `yaml:"mesh_start"`
	MeshEnd    [3]float32 `yaml:"mesh_end"`
	GridWidth  int        `yaml:"grid_width"`
	GridHeight int        `yaml:"grid_height"`
	BaseDepth  float64    `yaml:"base_depth"`  // Depth of the flat sand plane
	Relief     float64    `yaml:"relief"`      // Peak-to-trough depth variation
	NoiseScale float64    `yaml:"noise_scale"` // World units -> noise frequency
	Seed       int64      `yaml:"seed"`
}

// MaterialConfig is one entry of the fire material palette.
type MaterialConfig struct {
	Name         string  `yaml:"name"`
	BurnRate     float64 `yaml:"burn_rate"`     // Burn progress per second
	BurnoutTime  float64 `yaml:"burnout_time"`  // Progress at which a cell is burnt out
	Threshold    float64 `yaml:"threshold"`     // Weighted neighbour signal required to ignite
	UnburntColor string  `yaml:"unburnt_color"` // Hex colour
	BurntColor   string  `yaml:"burnt_color"`   // Hex colour
}

// FireConfig holds fire automaton parameters.
type FireConfig struct {
	Width          int              `yaml:"width"`
	Height         int              `yaml:"height"`
	Seed           int64            `yaml:"seed"`
	Zoom           float64          `yaml:"zoom"`
	WindAngle      float64          `yaml:"wind_angle"` // Degrees
	WindSpeed      float64          `yaml:"wind_speed"` // Amplitude of the directional bias
	WaterLevel     float64          `yaml:"water_level"`
	SlopeGain      float64          `yaml:"slope_gain"` // Uphill spread boost
	MinFuel        float64          `yaml:"min_fuel"`   // Cells below this fuel height never ignite
	IgnitionRadius int              `yaml:"ignition_radius"`
	NoiseScale     float64          `yaml:"noise_scale"`
	Materials      []MaterialConfig `yaml:"materials"`
}

// WaterConfig holds wave solver parameters.
type WaterConfig struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	DX                float64 `yaml:"dx"`
	WaveSpeed         float64 `yaml:"wave_speed"`
	Damping           float64 `yaml:"damping"`
	RestLevel         float64 `yaml:"rest_level"`
	Wrap              bool    `yaml:"wrap"`
	AmbientChance     float64 `yaml:"ambient_chance"` // Per-tick probability of a random disturbance
	AmbientMaxCenters int     `yaml:"ambient_max_centers"`
	AmbientRadius     float64 `yaml:"ambient_radius"`
	AmbientPower      float64 `yaml:"ambient_power"`
}

// DropletsConfig holds floating droplet parameters.
type DropletsConfig struct {
	Radius             float64 `yaml:"radius"`
	MinSpacing         float64 `yaml:"min_spacing"`
	MaxCount           int     `yaml:"max_count"`
	CollisionThreshold int     `yaml:"collision_threshold"` // Population at which correction is amortized
	DelayFrames        int     `yaml:"delay_frames"`        // Number of subsections (K)
	Tolerance          float64 `yaml:"tolerance"`           // Upward slack before amortized correction
	BoundsMargin       float64 `yaml:"bounds_margin"`
	Gravity            float64 `yaml:"gravity"`
	MaxFallSpeed       float64 `yaml:"max_fall_speed"`
}

// WindConfig holds wind particle parameters.
type WindConfig struct {
	Count            int     `yaml:"count"`
	Seed             int64   `yaml:"seed"`
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`
	Hemisphere       string  `yaml:"hemisphere"` // "north" or "south"
	Coriolis         bool    `yaml:"coriolis"`
	CoriolisStrength float64 `yaml:"coriolis_strength"`
	SlopeGain        float64 `yaml:"slope_gain"`
	Drag             float64 `yaml:"drag"`
	MaxSpeed         float64 `yaml:"max_speed"`
	MaxAge           int     `yaml:"max_age"` // Ticks before a particle is recycled
	PollutantRadius  float64 `yaml:"pollutant_radius"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow    int    `yaml:"perf_window"`
	StatsInterval int    `yaml:"stats_interval"` // Ticks between field statistic records
	EventHistory  int    `yaml:"event_history"`  // Stats windows kept for event detection
	SnapshotDir   string `yaml:"snapshot_dir"`   // Empty disables snapshots on events
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT           float64 // Seconds per tick
	DT32         float32 // DT as float32
	SouthernHemi bool    // Wind.Hemisphere == "south"
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the structural preconditions every simulation relies on.
func (c *Config) Validate() error {
	if c.Clock.TickRate <= 0 {
		return fmt.Errorf("%w: clock.tick_rate must be positive, got %d", ErrInvalid, c.Clock.TickRate)
	}
	if c.Fire.Width <= 0 || c.Fire.Height <= 0 {
		return fmt.Errorf("%w: fire grid %dx%d", ErrInvalid, c.Fire.Width, c.Fire.Height)
	}
	if len(c.Fire.Materials) == 0 {
		return fmt.Errorf("%w: fire.materials is empty", ErrInvalid)
	}
	if len(c.Fire.Materials) > 4 {
		return fmt.Errorf("%w: fire.materials has %d entries, at most 4 supported", ErrInvalid, len(c.Fire.Materials))
	}
	for i, m := range c.Fire.Materials {
		if _, err := colorful.Hex(m.UnburntColor); err != nil {
			return fmt.Errorf("%w: fire.materials[%d].unburnt_color: %v", ErrInvalid, i, err)
		}
		if _, err := colorful.Hex(m.BurntColor); err != nil {
			return fmt.Errorf("%w: fire.materials[%d].burnt_color: %v", ErrInvalid, i, err)
		}
	}
	if c.Fire.Zoom <= 0 {
		return fmt.Errorf("%w: fire.zoom must be positive", ErrInvalid)
	}
	if c.Water.Width <= 0 || c.Water.Height <= 0 {
		return fmt.Errorf("%w: water grid %dx%d", ErrInvalid, c.Water.Width, c.Water.Height)
	}
	if c.Water.Damping <= 0 || c.Water.Damping > 1 {
		return fmt.Errorf("%w: water.damping %.4f outside (0,1]", ErrInvalid, c.Water.Damping)
	}
	if c.Water.DX <= 0 {
		return fmt.Errorf("%w: water.dx must be positive", ErrInvalid)
	}
	if c.Clock.TickRate > 0 {
		a := c.Water.WaveSpeed / float64(c.Clock.TickRate) / c.Water.DX
		if a*a > maxCourant {
			return fmt.Errorf("%w: water courant term %.3f exceeds %.1f (lower wave_speed or raise dx)", ErrInvalid, a*a, maxCourant)
		}
	}
	if c.Droplets.DelayFrames < 1 {
		return fmt.Errorf("%w: droplets.delay_frames must be >= 1", ErrInvalid)
	}
	if c.Droplets.MaxCount < 1 {
		return fmt.Errorf("%w: droplets.max_count must be >= 1", ErrInvalid)
	}
	if c.Wind.Count < 1 {
		return fmt.Errorf("%w: wind.count must be >= 1", ErrInvalid)
	}
	if c.Wind.Hemisphere != "north" && c.Wind.Hemisphere != "south" {
		return fmt.Errorf("%w: wind.hemisphere %q (want north or south)", ErrInvalid, c.Wind.Hemisphere)
	}
	for i := 0; i < 3; i++ {
		if c.Terrain.MeshEnd[i] < c.Terrain.MeshStart[i] {
			return fmt.Errorf("%w: terrain mesh_end precedes mesh_start on axis %d", ErrInvalid, i)
		}
	}
	if c.Terrain.GridWidth < 2 || c.Terrain.GridHeight < 2 {
		return fmt.Errorf("%w: terrain grid must be at least 2x2", ErrInvalid)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = 1.0 / float64(c.Clock.TickRate)
	c.Derived.DT32 = float32(c.Derived.DT)
	c.Derived.SouthernHemi = c.Wind.Hemisphere == "south"
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
