package game

import (
	"log/slog"

	"github.com/pthm-cable/sandbox/telemetry"
)

// flushTelemetry records field statistics every stats interval and perf
// windows every perf window.
func (s *Sandbox) flushTelemetry() {
	tc := s.cfg.Telemetry

	if tc.StatsInterval > 0 && s.tick%int64(tc.StatsInterval) == 0 {
		stats := s.sampleStats()
		if s.logStats {
			stats.LogStats()
		}
		if err := s.output.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		for _, e := range s.events.Check(stats) {
			e.LogEvent()
			s.saveSnapshot(&e)
		}
	}

	if tc.PerfWindow > 0 && s.tick%int64(tc.PerfWindow) == 0 {
		perf := s.perf.Stats()
		if s.logStats {
			perf.LogStats()
		}
		if err := s.output.WritePerf(perf, s.tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleStats summarizes every live simulation.
func (s *Sandbox) sampleStats() telemetry.WindowStats {
	stats := telemetry.WindowStats{
		Tick:       s.tick,
		SimTimeSec: float64(s.tick) * s.cfg.Derived.DT,
		State:      s.State().String(),
	}

	if s.Fire != nil && s.Fire.Grid() != nil {
		grid := s.Fire.Grid()
		stats.FireBurning, stats.FireBurnt = grid.Counts()
		stats.FireBurntFrac = telemetry.BurntFraction(stats.FireBurnt, grid.W*grid.H)
		stats.FirePaused = s.Fire.State() == Paused
	}

	if s.Water != nil && s.Water.Wave() != nil {
		rest := float64(s.Water.Wave().Params().RestLevel)
		stats.WaterMean, stats.WaterStd, stats.WaterPeak, s.heightScratch =
			telemetry.HeightStats(s.Water.Heights(), rest, s.heightScratch)
		stats.Droplets = s.Water.Droplets().Count()
		stats.DropletsCulled = s.Water.TakeCulled()
		if stats.DropletsCulled > 0 {
			slog.Debug("droplets culled", "tick", s.tick, "count", stats.DropletsCulled, "remaining", stats.Droplets)
		}
	}

	if s.Wind != nil && s.Wind.lc.Live() {
		field := s.Wind.Particles()
		s.speedScratch = field.Speeds(s.speedScratch[:0])
		stats.WindMeanSpeed, stats.WindP90Speed = telemetry.SpeedStats(s.speedScratch)
		stats.WindPolluted = field.Polluted()
	}

	return stats
}

// saveSnapshot writes the current state to the configured snapshot
// directory. It does nothing when snapshots are disabled.
func (s *Sandbox) saveSnapshot(e *telemetry.Event) {
	dir := s.cfg.Telemetry.SnapshotDir
	if dir == "" {
		return
	}
	snap := s.CaptureSnapshot()
	snap.Event = e
	path, err := telemetry.SaveSnapshot(snap, dir)
	if err != nil {
		slog.Error("failed to save snapshot", "tick", s.tick, "error", err)
		return
	}
	slog.Debug("snapshot saved", "path", path)
}

// CaptureSnapshot records the state of every live simulation.
func (s *Sandbox) CaptureSnapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: s.seed,
		Tick:    s.tick,
		State:   s.State().String(),
	}

	if f := s.Fire; f != nil && f.Grid() != nil {
		grid := f.Grid()
		angle, speed := f.Wind()
		fs := &telemetry.FireState{
			W:         grid.W,
			H:         grid.H,
			Seed:      grid.Seed(),
			Zoom:      f.Zoom(),
			WindAngle: angle,
			WindSpeed: speed,
			Paused:    f.State() == Paused,
			Cells:     make([]uint8, len(grid.Current())),
		}
		for i, c := range grid.Current() {
			switch {
			case c.Burnt:
				fs.Cells[i] = telemetry.CellBurnt
			case c.Ignited:
				fs.Cells[i] = telemetry.CellBurning
			}
		}
		snap.Fire = fs
	}

	if w := s.Water; w != nil && w.Droplets() != nil {
		s.positions = w.Droplets().Positions(s.positions[:0])
		snap.Droplets = make([]telemetry.DropletState, len(s.positions))
		for i, p := range s.positions {
			snap.Droplets[i] = telemetry.DropletState{X: p.X(), Y: p.Y(), Z: p.Z()}
		}
	}

	if w := s.Wind; w != nil {
		snap.Wind = &telemetry.WindState{
			Enabled:         w.Enabled(),
			Coriolis:        w.Coriolis(),
			Hemisphere:      w.Hemisphere().String(),
			SpeedMultiplier: w.SpeedMultiplier(),
		}
		if w.Particles() != nil {
			snap.Wind.Particles = w.Particles().Count()
			snap.Wind.Polluted = w.Particles().Polluted()
		}
	}

	return snap
}

// State summarizes the sandbox lifecycle: TornDown while calibrating,
// Uninitialized before the first start, otherwise Running. A paused fire
// does not pause the sandbox.
func (s *Sandbox) State() State {
	switch {
	case s.calibrating:
		return TornDown
	case s.anyLive():
		return Running
	}
	for _, st := range []State{s.stateOf(SimFire), s.stateOf(SimWater), s.stateOf(SimWind)} {
		if st == TornDown {
			return TornDown
		}
	}
	return Uninitialized
}

func (s *Sandbox) stateOf(sim SimSet) State {
	switch {
	case sim == SimFire && s.Fire != nil:
		return s.Fire.State()
	case sim == SimWater && s.Water != nil:
		return s.Water.State()
	case sim == SimWind && s.Wind != nil:
		return s.Wind.State()
	}
	return Uninitialized
}
