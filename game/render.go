package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandbox/telemetry"
	"github.com/pthm-cable/sandbox/ui"
)

var backgroundColor = rl.Color{R: 14, G: 16, B: 20, A: 255}

// Draw renders the simulations and UI for one frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	vp := g.viewport
	rl.DrawRectangleLinesEx(vp.Dest, 1, rl.DarkGray)

	if g.overlays.IsEnabled(ui.OverlayTerrain) {
		g.terrainRenderer.Draw(g.sb.Snapshot(), vp, g.overlays.IsEnabled(ui.OverlayContours))
	}

	if f := g.sb.Fire; f != nil && f.Grid() != nil && g.overlays.IsEnabled(ui.OverlayFire) {
		grid := f.Grid()
		g.fireRenderer.Draw(f.ColorGrid(), grid.W, grid.H, vp.Dest)
	}

	if w := g.sb.Water; w != nil && w.Wave() != nil {
		if g.overlays.IsEnabled(ui.OverlayWater) {
			wave := w.Wave()
			g.waterRenderer.Draw(wave.Heights(), wave.W, wave.H, wave.Params().RestLevel, vp.Dest, 210)
		}
		if g.overlays.IsEnabled(ui.OverlayDroplets) {
			g.dropletRenderer.Draw(w.Droplets(), vp, float32(g.cfg.Droplets.Radius), w.Droplets().ShowMesh())
		}
	}

	if w := g.sb.Wind; w != nil && w.lc.Live() && g.overlays.IsEnabled(ui.OverlayWind) {
		g.windRenderer.Draw(w.Particles(), vp)
	}

	g.drawUI()

	rl.EndDrawing()
}

// drawUI draws the HUD and panels, then applies panel edits.
func (g *Game) drawUI() {
	g.hud.Draw(g.hudData())
	g.hud.DrawControls(int32(g.screenHeight),
		"[LMB] Gesture  [RMB] Ripple  [Space] Pause fire  [K] Calibrate  [F11] Fullscreen")

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.sb.Perf().Stats())
	}

	if g.overlays.IsEnabled(ui.OverlayControls) {
		act := g.controls.Draw(&g.state, g.sb.Calibrating())
		x := int32(g.screenWidth) - panelWidth - panelMargin
		g.hud.DrawLegend(x, 490, panelWidth, g.overlays)
		g.applyControls(act)
	}
}

func (g *Game) hudData() ui.HUDData {
	data := ui.HUDData{
		Title:       "Sandbox",
		Tick:        g.sb.Tick(),
		FPS:         rl.GetFPS(),
		State:       g.sb.State().String(),
		Calibrating: g.sb.Calibrating(),
	}
	if f := g.sb.Fire; f != nil && f.Grid() != nil {
		grid := f.Grid()
		var burnt int
		data.FireBurning, burnt = grid.Counts()
		data.FireBurntFrac = telemetry.BurntFraction(burnt, grid.W*grid.H)
		data.FirePaused = f.State() == Paused
	}
	if w := g.sb.Water; w != nil && w.Droplets() != nil {
		data.Droplets = w.Droplets().Count()
	}
	if w := g.sb.Wind; w != nil {
		data.WindParticles = w.Particles().Count()
		data.WindPolluted = w.Particles().Polluted()
		data.Hemisphere = w.Hemisphere().String()
	}
	return data
}
