package telemetry

import (
	"testing"

	"github.com/pthm-cable/sandbox/config"
)

func init() {
	config.MustInit("")
}

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func TestEventDetector_FireOutbreakAndExtinguished(t *testing.T) {
	ed := NewEventDetector(10)

	if events := ed.Check(WindowStats{Tick: 60}); len(events) != 0 {
		t.Fatalf("expected no events for a quiet first window, got %v", events)
	}

	events := ed.Check(WindowStats{Tick: 120, FireBurning: 40})
	if !hasEvent(events, EventFireOutbreak) {
		t.Error("expected fire_outbreak when burning rises from zero")
	}

	events = ed.Check(WindowStats{Tick: 180, FireBurning: 90, FireBurnt: 30})
	if hasEvent(events, EventFireOutbreak) {
		t.Error("outbreak should not repeat while the fire keeps burning")
	}

	events = ed.Check(WindowStats{Tick: 240, FireBurnt: 200, FireBurntFrac: 0.2})
	if !hasEvent(events, EventFireExtinguished) {
		t.Error("expected fire_extinguished when burning drops to zero")
	}
	for _, e := range events {
		if e.Type == EventFireExtinguished && e.Tick != 240 {
			t.Errorf("event tick = %d, want 240", e.Tick)
		}
	}
}

func TestEventDetector_SmallIgnitionIsNotOutbreak(t *testing.T) {
	ed := NewEventDetector(10)
	ed.Check(WindowStats{Tick: 60})
	if events := ed.Check(WindowStats{Tick: 120, FireBurning: outbreakMinBurning - 1}); hasEvent(events, EventFireOutbreak) {
		t.Error("ignition below the outbreak threshold should not trigger")
	}
}

func TestEventDetector_DropletCap(t *testing.T) {
	ed := NewEventDetector(10)
	ed.Check(WindowStats{Tick: 60, Droplets: 100})

	events := ed.Check(WindowStats{Tick: 120, Droplets: 100, DropletsCulled: 5})
	if !hasEvent(events, EventDropletCap) {
		t.Error("expected droplet_cap when culling starts")
	}

	events = ed.Check(WindowStats{Tick: 180, Droplets: 100, DropletsCulled: 7})
	if hasEvent(events, EventDropletCap) {
		t.Error("droplet_cap should only trigger on the first culling window")
	}
}

func TestEventDetector_PollutionSpike(t *testing.T) {
	ed := NewEventDetector(10)
	for i := 0; i < 5; i++ {
		ed.Check(WindowStats{Tick: int64(i+1) * 60, WindPolluted: 40})
	}

	events := ed.Check(WindowStats{Tick: 360, WindPolluted: 200})
	if !hasEvent(events, EventPollutionSpike) {
		t.Error("expected pollution_spike at 5x the rolling average")
	}

	events = ed.Check(WindowStats{Tick: 420, WindPolluted: 45})
	if hasEvent(events, EventPollutionSpike) {
		t.Error("unexpected pollution_spike near the average")
	}
}

func TestEventDetector_WaterSettled(t *testing.T) {
	ed := NewEventDetector(10)

	// A surface that was never disturbed does not settle.
	for i := 0; i < settledWindows+2; i++ {
		if events := ed.Check(WindowStats{Tick: int64(i) * 60}); hasEvent(events, EventWaterSettled) {
			t.Fatal("undisturbed surface should not report settling")
		}
	}

	ed.Check(WindowStats{Tick: 1000, WaterPeak: 3})
	triggered := 0
	for i := 0; i < settledWindows*2; i++ {
		if hasEvent(ed.Check(WindowStats{Tick: 1060 + int64(i)*60, WaterPeak: 0.1}), EventWaterSettled) {
			triggered++
		}
	}
	if triggered != 1 {
		t.Errorf("water_settled triggered %d times, want 1", triggered)
	}
}

func TestEventDetector_Reset(t *testing.T) {
	ed := NewEventDetector(10)
	ed.Check(WindowStats{Tick: 60, FireBurning: 50})
	ed.Reset()

	// Without a previous window nothing transitions.
	events := ed.Check(WindowStats{Tick: 120})
	if hasEvent(events, EventFireExtinguished) {
		t.Error("reset detector should not compare against stale history")
	}
}
