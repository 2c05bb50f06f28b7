package game

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/systems"
	"github.com/pthm-cable/sandbox/terrain"
)

// WaterSim is the water surface plus its floating droplets.
type WaterSim struct {
	lc     Lifecycle
	cfg    config.WaterConfig
	dcfg   config.DropletsConfig
	dt     float32
	pool   *systems.WorkerPool
	seed   int64
	rng    *rand.Rand
	ripple bool

	wave     *systems.WaveField
	droplets *systems.DropletSystem
	showMesh bool

	culled int // Droplets culled since the last TakeCulled
}

// NewWaterSim creates an uninitialized water simulation.
func NewWaterSim(cfg config.WaterConfig, dcfg config.DropletsConfig, dt float32, pool *systems.WorkerPool, seed int64) *WaterSim {
	return &WaterSim{
		lc:     Lifecycle{name: "water"},
		cfg:    cfg,
		dcfg:   dcfg,
		dt:     dt,
		pool:   pool,
		seed:   seed,
		ripple: cfg.AmbientChance > 0,
	}
}

// Start allocates the height buffers at the rest level and an empty droplet
// population.
func (w *WaterSim) Start() error {
	wave, err := systems.NewWaveFieldFromConfig(w.cfg, w.dt, w.pool)
	if err != nil {
		return fmt.Errorf("starting water: %w", err)
	}
	w.wave = wave
	w.droplets = systems.NewDropletSystem(systems.DropletParamsFromConfig(w.dcfg), systems.GravityPhysics{
		Gravity:      float32(w.dcfg.Gravity),
		MaxFallSpeed: float32(w.dcfg.MaxFallSpeed),
	})
	w.droplets.SetShowMesh(w.showMesh)
	// Same ripple sequence every session
	w.rng = rand.New(rand.NewSource(w.seed))
	w.culled = 0
	w.lc.Start()
	return nil
}

// Stop destroys all droplets and releases the height buffers.
func (w *WaterSim) Stop() {
	w.lc.Stop()
	if w.droplets != nil {
		w.droplets.DestroyAll()
	}
	w.wave = nil
	w.droplets = nil
}

// State returns the lifecycle state.
func (w *WaterSim) State() State { return w.lc.State() }

// SetAmbient enables or disables random ripples.
func (w *WaterSim) SetAmbient(on bool) { w.ripple = on }

// Step advances the wave field one generation, then moves, culls and
// corrects droplets against the terrain snapshot.
func (w *WaterSim) Step(field terrain.Field) {
	w.stepSurface()
	w.stepDroplets(field)
}

func (w *WaterSim) stepSurface() {
	w.lc.mustBeLive("step")
	if w.ripple {
		if d := systems.AmbientDisturbances(w.rng, w.wave.W, w.wave.H, w.cfg.AmbientChance,
			w.cfg.AmbientMaxCenters, float32(w.cfg.AmbientRadius), float32(w.cfg.AmbientPower)); d != nil {
			w.wave.Disturb(d)
		}
	}
	w.wave.Step()
}

func (w *WaterSim) stepDroplets(field terrain.Field) {
	w.lc.mustBeLive("step droplets")
	w.culled += w.droplets.Update(w.dt, field)
}

// Disturb applies impulses to the surface.
func (w *WaterSim) Disturb(points []systems.Disturbance) {
	w.lc.mustBeLive("disturb")
	w.wave.Disturb(points)
}

// Heights returns the current height buffer.
func (w *WaterSim) Heights() []float32 {
	if w.wave == nil {
		return nil
	}
	return w.wave.Heights()
}

// Wave returns the wave solver, or nil when not live.
func (w *WaterSim) Wave() *systems.WaveField { return w.wave }

// Droplets returns the droplet system, or nil when not live.
func (w *WaterSim) Droplets() *systems.DropletSystem { return w.droplets }

// SpawnDroplet creates a droplet at a world position unless one already
// sits within the minimum spacing.
func (w *WaterSim) SpawnDroplet(pos mgl32.Vec3) bool {
	w.lc.mustBeLive("spawn droplet")
	return w.droplets.Spawn(pos)
}

// DestroyAllDroplets removes every droplet.
func (w *WaterSim) DestroyAllDroplets() {
	w.lc.mustBeLive("destroy droplets")
	w.droplets.DestroyAll()
}

// ToggleShowDropletMesh sets droplet mesh visibility.
func (w *WaterSim) ToggleShowDropletMesh(show bool) {
	w.showMesh = show
	if w.droplets != nil {
		w.droplets.SetShowMesh(show)
	}
}

// TakeCulled returns droplets culled since the previous call and resets the count.
func (w *WaterSim) TakeCulled() int {
	n := w.culled
	w.culled = 0
	return n
}
