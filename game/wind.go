package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/systems"
	"github.com/pthm-cable/sandbox/terrain"
)

// WindSim is the wind particle surface.
type WindSim struct {
	lc    Lifecycle
	cfg   config.WindConfig
	field *systems.WindField

	enabled         bool
	speedMultiplier float32
	hemisphere      systems.Hemisphere
	coriolis        bool

	seed   uint32
	steps  uint32
	bounds terrain.Bounds
}

// NewWindSim creates an uninitialized wind simulation.
func NewWindSim(cfg config.WindConfig, pool *systems.WorkerPool) (*WindSim, error) {
	hemi, err := systems.ParseHemisphere(cfg.Hemisphere)
	if err != nil {
		return nil, fmt.Errorf("wind: %w", err)
	}
	return &WindSim{
		lc:              Lifecycle{name: "wind"},
		cfg:             cfg,
		field:           systems.NewWindField(systems.WindParamsFromConfig(cfg), pool),
		enabled:         true,
		speedMultiplier: float32(cfg.SpeedMultiplier),
		hemisphere:      hemi,
		coriolis:        cfg.Coriolis,
		seed:            uint32(cfg.Seed),
	}, nil
}

// Start seeds the particle population inside bounds.
func (w *WindSim) Start(bounds terrain.Bounds) error {
	if err := w.field.Initialize(w.seed, bounds, w.cfg.Count); err != nil {
		return fmt.Errorf("starting wind: %w", err)
	}
	w.bounds = bounds
	w.steps = 0
	w.lc.Start()
	return nil
}

// Stop releases particle storage.
func (w *WindSim) Stop() {
	w.lc.Stop()
	w.field.Release()
}

// State returns the lifecycle state.
func (w *WindSim) State() State { return w.lc.State() }

// Step advances every particle against the terrain snapshot. Disabled wind
// keeps its particles frozen.
func (w *WindSim) Step(grid *terrain.Grid) {
	w.lc.mustBeLive("step")
	if !w.enabled {
		return
	}
	w.steps++
	w.field.Step(grid, w.hemisphere, w.speedMultiplier, w.coriolis, w.seed+w.steps, w.bounds)
}

// Particles returns the particle buffer for external drawing.
func (w *WindSim) Particles() *systems.WindField { return w.field }

// ToggleEnabled flips stepping on or off and reports the new setting.
func (w *WindSim) ToggleEnabled() bool {
	w.enabled = !w.enabled
	return w.enabled
}

// Enabled reports whether particles are advancing.
func (w *WindSim) Enabled() bool { return w.enabled }

// SetSpeedMultiplier scales forcing and displacement.
func (w *WindSim) SetSpeedMultiplier(m float32) {
	if m < 0 {
		m = 0
	}
	w.speedMultiplier = m
}

// SpeedMultiplier returns the current speed multiplier.
func (w *WindSim) SpeedMultiplier() float32 { return w.speedMultiplier }

// SetHemisphere selects the Coriolis sign.
func (w *WindSim) SetHemisphere(h systems.Hemisphere) { w.hemisphere = h }

// Hemisphere returns the selected hemisphere.
func (w *WindSim) Hemisphere() systems.Hemisphere { return w.hemisphere }

// ToggleCoriolis flips Coriolis deflection and reports the new setting.
func (w *WindSim) ToggleCoriolis() bool {
	w.coriolis = !w.coriolis
	return w.coriolis
}

// Coriolis reports whether Coriolis deflection is applied.
func (w *WindSim) Coriolis() bool { return w.coriolis }

// InjectPollutant tags particles around a world position and returns how
// many were tagged.
func (w *WindSim) InjectPollutant(pos mgl32.Vec3) int {
	w.lc.mustBeLive("inject pollutant")
	return w.field.InjectPollutant(pos, float32(w.cfg.PollutantRadius), w.seed^w.steps)
}
