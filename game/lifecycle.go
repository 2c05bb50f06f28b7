package game

import (
	"fmt"
	"log/slog"
)

// State is a simulation lifecycle state.
type State uint8

const (
	Uninitialized State = iota
	Running
	Paused
	TornDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case TornDown:
		return "torn_down"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Lifecycle tracks one simulation's state. Illegal transitions are
// programmer errors and panic.
type Lifecycle struct {
	name  string
	state State
}

// State returns the current state.
func (l *Lifecycle) State() State { return l.state }

// Live reports whether the simulation owns buffers (running or paused).
func (l *Lifecycle) Live() bool { return l.state == Running || l.state == Paused }

// Start enters Running from Uninitialized or TornDown.
func (l *Lifecycle) Start() {
	if l.Live() {
		panic(fmt.Sprintf("%s: start while %s", l.name, l.state))
	}
	l.set(Running)
}

// Stop tears the simulation down. Stopping a simulation that never started
// is allowed so calibration can begin at any time.
func (l *Lifecycle) Stop() {
	if l.state == TornDown {
		return
	}
	l.set(TornDown)
}

// Pause freezes a running simulation.
func (l *Lifecycle) Pause() {
	if l.state != Running {
		panic(fmt.Sprintf("%s: pause while %s", l.name, l.state))
	}
	l.set(Paused)
}

// Resume restarts a paused simulation.
func (l *Lifecycle) Resume() {
	if l.state != Paused {
		panic(fmt.Sprintf("%s: resume while %s", l.name, l.state))
	}
	l.set(Running)
}

// mustBeLive panics when op is called without owned state.
func (l *Lifecycle) mustBeLive(op string) {
	if !l.Live() {
		panic(fmt.Sprintf("%s: %s called while %s", l.name, op, l.state))
	}
}

func (l *Lifecycle) set(s State) {
	slog.Debug("lifecycle", "sim", l.name, "from", l.state.String(), "to", s.String())
	l.state = s
}
