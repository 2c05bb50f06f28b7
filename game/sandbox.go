package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/systems"
	"github.com/pthm-cable/sandbox/telemetry"
	"github.com/pthm-cable/sandbox/terrain"
)

// SimSet selects which simulations a sandbox drives.
type SimSet uint8

const (
	SimFire SimSet = 1 << iota
	SimWater
	SimWind

	SimAll = SimFire | SimWater | SimWind
)

// Has reports whether s includes every simulation in o.
func (s SimSet) Has(o SimSet) bool { return s&o == o }

// ParseSimSet parses "all" or a comma-separated list of fire, water, wind.
func ParseSimSet(v string) (SimSet, error) {
	var s SimSet
	for _, part := range strings.Split(v, ",") {
		switch strings.TrimSpace(part) {
		case "all":
			s |= SimAll
		case "fire":
			s |= SimFire
		case "water":
			s |= SimWater
		case "wind":
			s |= SimWind
		case "":
		default:
			return 0, fmt.Errorf("unknown simulation %q", part)
		}
	}
	if s == 0 {
		return 0, fmt.Errorf("no simulation selected in %q", v)
	}
	return s, nil
}

// Options configures a sandbox run.
type Options struct {
	Seed      int64
	Sims      SimSet
	OutputDir string
	LogStats  bool
}

// advancer is implemented by synthetic terrain that evolves over time.
type advancer interface {
	Advance(dt float64)
}

// Sandbox owns the simulations and drives them from one fixed tick. Every
// tick takes a single terrain snapshot that all simulations share.
type Sandbox struct {
	cfg   *config.Config
	field terrain.Field
	pool  *systems.WorkerPool
	sims  SimSet

	Fire  *FireSim
	Water *WaterSim
	Wind  *WindSim

	clock    *Clock
	perf     *telemetry.PerfCollector
	output   *telemetry.OutputManager
	events   *telemetry.EventDetector
	logStats bool
	seed     int64

	tick        int64
	calibrating bool
	pending     []Gesture
	snapshot    *terrain.Grid

	heightScratch []float64
	speedScratch  []float64
	positions     []mgl32.Vec3
}

// NewSandbox wires the selected simulations to a terrain source. Nothing
// runs until Start or OnCalibrationComplete.
func NewSandbox(cfg *config.Config, field terrain.Field, opts Options) (*Sandbox, error) {
	if opts.Sims == 0 {
		opts.Sims = SimAll
	}
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	pool := systems.NewWorkerPool()
	s := &Sandbox{
		cfg:      cfg,
		field:    field,
		pool:     pool,
		sims:     opts.Sims,
		clock:    NewClock(cfg.Clock.TickRate),
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:   om,
		events:   telemetry.NewEventDetector(cfg.Telemetry.EventHistory),
		logStats: opts.LogStats,
		seed:     opts.Seed,
	}

	dt := cfg.Derived.DT32
	if s.sims.Has(SimFire) {
		s.Fire = NewFireSim(cfg.Fire, dt, pool, opts.Seed)
	}
	if s.sims.Has(SimWater) {
		s.Water = NewWaterSim(cfg.Water, cfg.Droplets, dt, pool, opts.Seed)
	}
	if s.sims.Has(SimWind) {
		wind, err := NewWindSim(cfg.Wind, pool)
		if err != nil {
			pool.Stop()
			om.Close()
			return nil, err
		}
		s.Wind = wind
	}
	return s, nil
}

// Start initializes every selected simulation that is not already live.
func (s *Sandbox) Start() error {
	if s.Fire != nil && !s.Fire.lc.Live() {
		if err := s.Fire.Start(); err != nil {
			return err
		}
	}
	if s.Water != nil && !s.Water.lc.Live() {
		if err := s.Water.Start(); err != nil {
			return err
		}
	}
	if s.Wind != nil && !s.Wind.lc.Live() {
		if err := s.Wind.Start(s.field.Bounds()); err != nil {
			return err
		}
	}
	slog.Info("sandbox started", "tick", s.tick, "sims", s.simNames())
	return nil
}

// Stop tears down every simulation and drops pending gestures.
func (s *Sandbox) Stop() {
	if s.Fire != nil {
		s.Fire.Stop()
	}
	if s.Water != nil {
		s.Water.Stop()
	}
	if s.Wind != nil {
		s.Wind.Stop()
	}
	s.pending = s.pending[:0]
	s.snapshot = nil
}

// OnCalibrationStart tears everything down while the terrain is recalibrated.
func (s *Sandbox) OnCalibrationStart() {
	slog.Info("calibration started", "tick", s.tick)
	s.calibrating = true
	s.Stop()
}

// OnCalibrationComplete regenerates fire and water and reseeds wind. There is
// no resume of the previous session.
func (s *Sandbox) OnCalibrationComplete() error {
	slog.Info("calibration complete", "tick", s.tick)
	s.calibrating = false
	s.events.Reset()
	return s.Start()
}

// Calibrating reports whether the sandbox is between calibration signals.
func (s *Sandbox) Calibrating() bool { return s.calibrating }

// SubmitGestures queues gestures for the next tick. Gestures are dropped
// while calibrating or when no simulation is live.
func (s *Sandbox) SubmitGestures(gs []Gesture) {
	if s.calibrating || !s.anyLive() {
		return
	}
	s.pending = append(s.pending, gs...)
}

// Step runs one fixed tick. It is a no-op while calibrating or before Start.
func (s *Sandbox) Step() {
	if s.calibrating || !s.anyLive() {
		return
	}
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseTerrain)
	if a, ok := s.field.(advancer); ok {
		a.Advance(s.cfg.Derived.DT)
	}
	grid, err := s.field.Sample(s.cfg.Terrain.GridWidth, s.cfg.Terrain.GridHeight)
	if err != nil {
		slog.Error("terrain snapshot failed", "tick", s.tick, "error", err)
		s.perf.EndTick()
		return
	}
	s.snapshot = grid

	s.perf.StartPhase(telemetry.PhaseGestures)
	s.applyGestures()

	if s.Fire != nil {
		s.perf.StartPhase(telemetry.PhaseFire)
		s.Fire.Step(grid)
	}
	if s.Water != nil {
		s.perf.StartPhase(telemetry.PhaseWater)
		s.Water.stepSurface()
		s.perf.StartPhase(telemetry.PhaseDroplets)
		s.Water.stepDroplets(grid.AsField())
	}
	if s.Wind != nil {
		s.perf.StartPhase(telemetry.PhaseWind)
		s.Wind.Step(grid)
	}

	s.tick++
	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	s.perf.EndTick()
}

// applyGestures routes in-bounds gestures to every live simulation.
func (s *Sandbox) applyGestures() {
	if len(s.pending) == 0 {
		return
	}
	var ignite []mgl32.Vec2
	for _, g := range s.pending {
		if !g.inBounds() {
			continue
		}
		if s.Fire != nil {
			ignite = append(ignite, g.Normalized)
		}
		if s.Water != nil {
			s.Water.SpawnDroplet(g.World)
		}
		if s.Wind != nil {
			s.Wind.InjectPollutant(g.World)
		}
	}
	if s.Fire != nil {
		s.Fire.Ignite(ignite)
	}
	s.pending = s.pending[:0]
}

// Run steps the sandbox at the clock rate until ctx is cancelled or
// maxTicks ticks have run (0 = unlimited).
func (s *Sandbox) Run(ctx context.Context, maxTicks int64) error {
	return s.clock.Run(ctx, func(int64) bool {
		s.Step()
		return maxTicks <= 0 || s.tick < maxTicks
	})
}

// Advance steps as many ticks as elapsed frame time allows. Render loops
// call it once per frame.
func (s *Sandbox) Advance(elapsedSec float32) int {
	n := s.clock.Advance(secondsToDuration(elapsedSec))
	for i := 0; i < n; i++ {
		s.Step()
	}
	s.perf.RecordFrame()
	return n
}

// Tick returns the number of completed ticks.
func (s *Sandbox) Tick() int64 { return s.tick }

// Snapshot returns the terrain grid used by the last tick.
func (s *Sandbox) Snapshot() *terrain.Grid { return s.snapshot }

// Field returns the live terrain source.
func (s *Sandbox) Field() terrain.Field { return s.field }

// Perf returns the tick timing collector.
func (s *Sandbox) Perf() *telemetry.PerfCollector { return s.perf }

// Close tears down simulations, stops workers and flushes output.
func (s *Sandbox) Close() error {
	s.Stop()
	s.pool.Stop()
	return s.output.Close()
}

func (s *Sandbox) anyLive() bool {
	return (s.Fire != nil && s.Fire.lc.Live()) ||
		(s.Water != nil && s.Water.lc.Live()) ||
		(s.Wind != nil && s.Wind.lc.Live())
}

func (s *Sandbox) simNames() []string {
	var names []string
	if s.Fire != nil {
		names = append(names, "fire")
	}
	if s.Water != nil {
		names = append(names, "water")
	}
	if s.Wind != nil {
		names = append(names, "wind")
	}
	return names
}
