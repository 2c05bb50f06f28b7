package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseFire)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseWater)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseFire]; !ok {
		t.Error("expected fire phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseWater]; !ok {
		t.Error("expected water phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseFire)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct: map[string]float64{
			PhaseFire:  40,
			PhaseWind:  35,
			PhaseWater: 25,
		},
	}

	row := stats.ToCSV(600)
	if row.WindowEnd != 600 {
		t.Errorf("expected window end 600, got %d", row.WindowEnd)
	}
	if row.AvgTickUS != 2000 {
		t.Errorf("expected 2000us average tick, got %d", row.AvgTickUS)
	}
	if row.FirePct != 40 || row.WindPct != 35 || row.WaterPct != 25 {
		t.Errorf("phase percentages not carried over: %+v", row)
	}
	if row.DropletsPct != 0 {
		t.Errorf("expected untimed phase at 0%%, got %f", row.DropletsPct)
	}
}

func TestPerfCollector_TickDistribution(t *testing.T) {
	pc := NewPerfCollector(20)
	for i := 0; i < 20; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseWind)
		if i == 19 {
			time.Sleep(5 * time.Millisecond)
		}
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("expected min <= avg <= max, got %v %v %v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
	if stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("p95 %v exceeds max %v", stats.P95TickDuration, stats.MaxTickDuration)
	}
	if stats.MaxTickDuration < 5*time.Millisecond {
		t.Errorf("expected the slow tick as max, got %v", stats.MaxTickDuration)
	}
	if _, ok := stats.PhaseAvg[PhaseFire]; ok {
		t.Error("untimed phase should not appear in averages")
	}
}
