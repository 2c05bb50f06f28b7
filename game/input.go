package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandbox/systems"
	"github.com/pthm-cable/sandbox/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	g.overlays.HandleKeys()

	if rl.IsKeyPressed(rl.KeySpace) && g.sb.Fire != nil && g.sb.Fire.lc.Live() {
		g.state.FirePaused = g.sb.Fire.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyK) {
		g.toggleCalibration()
	}

	g.handleMouse()
}

// handleResize checks for window resize and relays out the view.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.layout()
}

// handleMouse stands in for the hand tracker: the left button submits a
// gesture under the cursor, the right button disturbs the water.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	if !rl.CheckCollisionPointRec(mouse, g.viewport.Dest) {
		return
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		p := g.viewport.ScreenToWorld(mouse, 0)
		p[2] = g.sb.Field().DepthAt(p) - gestureHover
		b := g.viewport.Bounds
		g.sb.SubmitGestures([]Gesture{GestureFromWorld(p, b.MeshStart, b.MeshEnd)})
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && g.sb.Water != nil && g.sb.Water.lc.Live() {
		wave := g.sb.Water.Wave()
		u := (mouse.X - g.viewport.Dest.X) / g.viewport.Dest.Width
		v := (mouse.Y - g.viewport.Dest.Y) / g.viewport.Dest.Height
		g.sb.Water.Disturb([]systems.Disturbance{{
			X:      u * float32(wave.W),
			Y:      v * float32(wave.H),
			Radius: float32(g.cfg.Water.AmbientRadius) * 2,
			Power:  float32(g.cfg.Water.AmbientPower) * 4,
		}})
	}
}

// toggleCalibration emulates the depth sensor calibration signals.
func (g *Game) toggleCalibration() {
	if !g.sb.Calibrating() {
		g.sb.OnCalibrationStart()
		return
	}
	if err := g.sb.OnCalibrationComplete(); err != nil {
		slog.Error("failed to restart after calibration", "error", err)
		return
	}
	g.syncControls()
}

// applyControls pushes control panel edits into the simulations.
func (g *Game) applyControls(act ui.ControlActions) {
	s := g.state
	if f := g.sb.Fire; f != nil && f.lc.Live() {
		if paused := f.State() == Paused; paused != s.FirePaused {
			f.TogglePause()
		}
		f.SetWindDirection(float64(s.WindAngle))
		f.SetWindSpeed(float64(s.WindSpeed))
		if s.Zoom != f.Zoom() {
			f.SetZoom(s.Zoom)
		}
		if act.ResetLandscape {
			f.ResetLandscape()
		}
		if act.RandomizeFlora {
			f.RandomizeFlora()
		}
	}

	if w := g.sb.Water; w != nil {
		w.ToggleShowDropletMesh(s.ShowDropletMesh)
		if act.ClearDroplets && w.lc.Live() {
			w.DestroyAllDroplets()
		}
	}

	if w := g.sb.Wind; w != nil {
		if w.Enabled() != s.WindEnabled {
			w.ToggleEnabled()
		}
		if w.Coriolis() != s.Coriolis {
			w.ToggleCoriolis()
		}
		hemi := systems.Northern
		if s.Southern {
			hemi = systems.Southern
		}
		w.SetHemisphere(hemi)
		w.SetSpeedMultiplier(s.WindMultiplier)
	}

	if act.Calibrate {
		g.toggleCalibration()
	}
}
