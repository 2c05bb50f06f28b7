package game

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/systems"
	"github.com/pthm-cable/sandbox/terrain"
)

// FireSim is the wildfire surface exposed to the render and UI layers.
type FireSim struct {
	lc   Lifecycle
	cfg  config.FireConfig
	dt   float32
	pool *systems.WorkerPool
	rng  *rand.Rand

	grid   *systems.FireGrid
	colors []color.RGBA

	windAngle float64
	windSpeed float64
	seed      int64
	zoom      float32
}

// NewFireSim creates an uninitialized fire simulation. seed drives landscape
// generation and RandomizeFlora.
func NewFireSim(cfg config.FireConfig, dt float32, pool *systems.WorkerPool, seed int64) *FireSim {
	return &FireSim{
		lc:        Lifecycle{name: "fire"},
		cfg:       cfg,
		dt:        dt,
		pool:      pool,
		rng:       rand.New(rand.NewSource(seed)),
		windAngle: cfg.WindAngle,
		windSpeed: cfg.WindSpeed,
		seed:      cfg.Seed,
		zoom:      float32(cfg.Zoom),
	}
}

// Start generates a fresh landscape and enters Running.
func (f *FireSim) Start() error {
	cfg := f.cfg
	cfg.Seed = f.seed
	cfg.Zoom = float64(f.zoom)
	grid, err := systems.NewFireGridFromConfig(cfg, f.dt, f.pool)
	if err != nil {
		return fmt.Errorf("starting fire: %w", err)
	}
	f.grid = grid
	f.lc.Start()
	f.colors = f.grid.Rasterize()
	return nil
}

// Stop releases the grid.
func (f *FireSim) Stop() {
	f.lc.Stop()
	f.grid = nil
	f.colors = nil
}

// State returns the lifecycle state.
func (f *FireSim) State() State { return f.lc.State() }

// Step advances one tick against the terrain snapshot. A paused fire keeps
// its last colours.
func (f *FireSim) Step(terr *terrain.Grid) {
	f.lc.mustBeLive("step")
	if f.lc.State() == Paused {
		return
	}
	coeff := systems.ComputeWindCoefficients(f.windAngle, f.windSpeed)
	f.grid.Step(terr, coeff, f.zoom)
	f.colors = f.grid.Rasterize()
}

// Ignite starts fires at normalized positions. Colours refresh immediately,
// even while paused.
func (f *FireSim) Ignite(points []mgl32.Vec2) {
	f.lc.mustBeLive("ignite")
	if len(points) == 0 {
		return
	}
	fp := make([]systems.FirePoint, 0, len(points))
	for _, p := range points {
		fp = append(fp, systems.FirePoint{
			X:      int(p.X() * float32(f.grid.W)),
			Y:      int(p.Y() * float32(f.grid.H)),
			Radius: f.cfg.IgnitionRadius,
		})
	}
	f.grid.StartFires(fp)
	f.colors = f.grid.Rasterize()
}

// ColorGrid returns the last rasterized colours, row-major W*H.
func (f *FireSim) ColorGrid() []color.RGBA { return f.colors }

// Grid returns the automaton, or nil when not live.
func (f *FireSim) Grid() *systems.FireGrid { return f.grid }

// Wind returns the current wind angle in degrees and speed.
func (f *FireSim) Wind() (angle, speed float64) { return f.windAngle, f.windSpeed }

// SetWindDirection sets the wind angle in degrees.
func (f *FireSim) SetWindDirection(deg float64) { f.windAngle = deg }

// SetWindSpeed sets the directional bias amplitude.
func (f *FireSim) SetWindSpeed(speed float64) { f.windSpeed = speed }

// TogglePause flips between Running and Paused and reports whether the
// fire is now paused.
func (f *FireSim) TogglePause() bool {
	f.lc.mustBeLive("toggle pause")
	if f.lc.State() == Paused {
		f.lc.Resume()
		return false
	}
	f.lc.Pause()
	return true
}

// ResetLandscape clears burn state but keeps the flora layout.
func (f *FireSim) ResetLandscape() {
	f.lc.mustBeLive("reset landscape")
	f.grid.ResetLandscape()
	f.colors = f.grid.Rasterize()
}

// RandomizeFlora regenerates the landscape from a new seed.
func (f *FireSim) RandomizeFlora() {
	f.lc.mustBeLive("randomize flora")
	f.seed = f.rng.Int63()
	f.grid.RegenerateLandscape(f.seed, f.zoom)
	f.colors = f.grid.Rasterize()
}

// SetZoom regenerates the landscape at a new zoom level with the same seed.
func (f *FireSim) SetZoom(level float32) {
	if level <= 0 {
		return
	}
	f.zoom = level
	if !f.lc.Live() {
		return
	}
	f.grid.RegenerateLandscape(f.seed, f.zoom)
	f.colors = f.grid.Rasterize()
}

// Zoom returns the landscape zoom level.
func (f *FireSim) Zoom() float32 { return f.zoom }
