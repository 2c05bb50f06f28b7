package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the sandbox tick.
const (
	PhaseTerrain   = "terrain"
	PhaseGestures  = "gestures"
	PhaseFire      = "fire"
	PhaseWater     = "water"
	PhaseDroplets  = "droplets"
	PhaseWind      = "wind"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in tick order.
var Phases = []string{
	PhaseTerrain, PhaseGestures, PhaseFire, PhaseWater,
	PhaseDroplets, PhaseWind, PhaseTelemetry,
}

// PerfCollector keeps a ring of recent tick timings. Phase durations live in
// per-slot slices indexed by phase registration order, so a tick allocates
// nothing once every phase has been seen.
type PerfCollector struct {
	window int
	ticks  []time.Duration   // ring of whole-tick durations
	phases [][]time.Duration // ring of per-phase durations, [slot][phase]
	next   int
	filled int

	names []string       // phase names in registration order
	index map[string]int // name -> position in names

	tickStart  time.Time
	phaseStart time.Time
	active     int // index of the running phase, -1 when none
	scratch    []float64

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	p := &PerfCollector{
		window: window,
		ticks:  make([]time.Duration, window),
		phases: make([][]time.Duration, window),
		index:  make(map[string]int, len(Phases)),
		active: -1,
	}
	for _, name := range Phases {
		p.phaseIndex(name)
	}
	return p
}

func (p *PerfCollector) phaseIndex(name string) int {
	if i, ok := p.index[name]; ok {
		return i
	}
	i := len(p.names)
	p.names = append(p.names, name)
	p.index[name] = i
	return i
}

// slot returns the phase row being written, sized for every known phase.
func (p *PerfCollector) slot() []time.Duration {
	row := p.phases[p.next]
	if len(row) < len(p.names) {
		row = append(row, make([]time.Duration, len(p.names)-len(row))...)
		p.phases[p.next] = row
	}
	return row
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.slot())
	p.active = -1
}

// StartPhase closes the running phase and starts timing the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.active = p.phaseIndex(phase)
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active < 0 {
		return
	}
	p.slot()[p.active] += now.Sub(p.phaseStart)
}

// EndTick closes the running phase and commits the tick to the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.active = -1
	p.ticks[p.next] = now.Sub(p.tickStart)
	p.next = (p.next + 1) % p.window
	if p.filled < p.window {
		p.filled++
	}
}

// RecordFrame measures the interval since the previous call.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Average duration and share of the average tick per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return out
	}

	// Until the ring wraps the valid samples are the first filled slots.
	if cap(p.scratch) < p.filled {
		p.scratch = make([]float64, p.filled)
	}
	durs := p.scratch[:p.filled]
	for i := range durs {
		durs[i] = float64(p.ticks[i])
	}
	sort.Float64s(durs)
	out.AvgTickDuration = time.Duration(stat.Mean(durs, nil))
	out.MinTickDuration = time.Duration(durs[0])
	out.MaxTickDuration = time.Duration(durs[len(durs)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, durs, nil))
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}

	for i, name := range p.names {
		var sum time.Duration
		for s := 0; s < p.filled; s++ {
			if row := p.phases[s]; i < len(row) {
				sum += row[i]
			}
		}
		if sum == 0 {
			continue
		}
		avg := sum / time.Duration(p.filled)
		out.PhaseAvg[name] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[name] = float64(avg) / float64(out.AvgTickDuration) * 100
		}
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	TerrainPct   float64 `csv:"terrain_pct"`
	GesturesPct  float64 `csv:"gestures_pct"`
	FirePct      float64 `csv:"fire_pct"`
	WaterPct     float64 `csv:"water_pct"`
	DropletsPct  float64 `csv:"droplets_pct"`
	WindPct      float64 `csv:"wind_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		TerrainPct:   s.PhasePct[PhaseTerrain],
		GesturesPct:  s.PhasePct[PhaseGestures],
		FirePct:      s.PhasePct[PhaseFire],
		WaterPct:     s.PhasePct[PhaseWater],
		DropletsPct:  s.PhasePct[PhaseDroplets],
		WindPct:      s.PhasePct[PhaseWind],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
