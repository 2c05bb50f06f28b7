// Package telemetry records sandbox field statistics, tick timings,
// notable events and state snapshots.
package telemetry

import (
	"fmt"
	"log/slog"
)

// EventType identifies a notable sandbox moment.
type EventType string

const (
	EventFireOutbreak     EventType = "fire_outbreak"
	EventFireExtinguished EventType = "fire_extinguished"
	EventDropletCap       EventType = "droplet_cap"
	EventPollutionSpike   EventType = "pollution_spike"
	EventWaterSettled     EventType = "water_settled"
)

// Event is an automatically detected moment in a run.
type Event struct {
	Type        EventType `json:"type"`
	Tick        int64     `json:"tick"`
	Description string    `json:"description"`
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info("event",
		"type", string(e.Type),
		"tick", e.Tick,
		"description", e.Description,
	)
}

// Detection thresholds.
const (
	outbreakMinBurning = 8
	spikeFactor        = 2.0
	spikeMinPolluted   = 50
	settledPeak        = 0.5
	settledWindows     = 5
)

// EventDetector watches successive stats windows for notable moments.
type EventDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	prev        WindowStats
	havePrev    bool
	calmWindows int  // consecutive windows with the surface near rest
	disturbed   bool // surface moved since the last settle
}

// NewEventDetector creates a detector with the given history size.
func NewEventDetector(historySize int) *EventDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &EventDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered events.
func (ed *EventDetector) Check(stats WindowStats) []Event {
	var events []Event

	if ed.havePrev {
		if e := ed.checkFireOutbreak(stats); e != nil {
			events = append(events, *e)
		}
		if e := ed.checkFireExtinguished(stats); e != nil {
			events = append(events, *e)
		}
		if e := ed.checkDropletCap(stats); e != nil {
			events = append(events, *e)
		}
		if e := ed.checkPollutionSpike(stats); e != nil {
			events = append(events, *e)
		}
	}
	if e := ed.checkWaterSettled(stats); e != nil {
		events = append(events, *e)
	}

	ed.addToHistory(stats)
	ed.prev = stats
	ed.havePrev = true
	return events
}

// Reset forgets all history, e.g. after a recalibration restart.
func (ed *EventDetector) Reset() {
	ed.historyIdx = 0
	ed.historyFull = false
	ed.havePrev = false
	ed.calmWindows = 0
	ed.disturbed = false
}

func (ed *EventDetector) addToHistory(stats WindowStats) {
	ed.history[ed.historyIdx] = stats
	ed.historyIdx = (ed.historyIdx + 1) % ed.historySize
	if ed.historyIdx == 0 {
		ed.historyFull = true
	}
}

func (ed *EventDetector) getHistory() []WindowStats {
	if ed.historyFull {
		return ed.history
	}
	return ed.history[:ed.historyIdx]
}

func (ed *EventDetector) checkFireOutbreak(stats WindowStats) *Event {
	if ed.prev.FireBurning > 0 || stats.FireBurning < outbreakMinBurning {
		return nil
	}
	return &Event{
		Type:        EventFireOutbreak,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("Fire broke out: %d cells burning", stats.FireBurning),
	}
}

func (ed *EventDetector) checkFireExtinguished(stats WindowStats) *Event {
	if ed.prev.FireBurning == 0 || stats.FireBurning > 0 || stats.FireBurnt == 0 {
		return nil
	}
	return &Event{
		Type:        EventFireExtinguished,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("Fire burnt out after consuming %.1f%% of the landscape", stats.FireBurntFrac*100),
	}
}

func (ed *EventDetector) checkDropletCap(stats WindowStats) *Event {
	if ed.prev.DropletsCulled > 0 || stats.DropletsCulled == 0 {
		return nil
	}
	return &Event{
		Type:        EventDropletCap,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("Droplet culling began: %d removed, %d remaining", stats.DropletsCulled, stats.Droplets),
	}
}

func (ed *EventDetector) checkPollutionSpike(stats WindowStats) *Event {
	history := ed.getHistory()
	if len(history) < 3 || stats.WindPolluted < spikeMinPolluted {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.WindPolluted
	}
	avg := float64(total) / float64(len(history))
	if float64(stats.WindPolluted) <= avg*spikeFactor {
		return nil
	}
	desc := fmt.Sprintf("Polluted particles %d vs average %.0f", stats.WindPolluted, avg)
	if avg > 0 {
		desc = fmt.Sprintf("Polluted particles %d is %.1fx average (%.0f)", stats.WindPolluted, float64(stats.WindPolluted)/avg, avg)
	}
	return &Event{
		Type:        EventPollutionSpike,
		Tick:        stats.Tick,
		Description: desc,
	}
}

// checkWaterSettled fires once when a disturbed surface stays near rest for
// settledWindows consecutive windows.
func (ed *EventDetector) checkWaterSettled(stats WindowStats) *Event {
	if stats.WaterPeak >= settledPeak {
		ed.disturbed = true
		ed.calmWindows = 0
		return nil
	}
	if !ed.disturbed {
		return nil
	}
	ed.calmWindows++
	if ed.calmWindows < settledWindows {
		return nil
	}
	ed.disturbed = false
	ed.calmWindows = 0
	return &Event{
		Type:        EventWaterSettled,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("Water surface settled (peak %.2f) over %d windows", stats.WaterPeak, settledWindows),
	}
}
