package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/renderer"
	"github.com/pthm-cable/sandbox/systems"
	"github.com/pthm-cable/sandbox/ui"
)

// Layout constants
const (
	panelWidth   = 250
	panelMargin  = 10
	gestureHover = 20 // World units above the terrain for mouse gestures
	windBudget   = 60000
)

// Game is the windowed host: it pumps the sandbox from the frame clock,
// turns mouse and keyboard input into gestures and control changes, and
// draws every live simulation.
type Game struct {
	sb  *Sandbox
	cfg *config.Config

	screenWidth, screenHeight float32
	viewport                  renderer.Viewport

	terrainRenderer *renderer.TerrainRenderer
	fireRenderer    *renderer.FireRenderer
	waterRenderer   *renderer.WaterRenderer
	windRenderer    *renderer.WindRenderer
	dropletRenderer *renderer.DropletRenderer

	hud       *ui.HUD
	controls  *ui.ControlsPanel
	perfPanel *ui.PerfPanel
	overlays  *ui.OverlayRegistry
	state     ui.ControlState
}

// NewGame creates the windowed host for a started sandbox. The raylib
// window must already be open.
func NewGame(sb *Sandbox, cfg *config.Config) *Game {
	g := &Game{
		sb:              sb,
		cfg:             cfg,
		screenWidth:     float32(rl.GetScreenWidth()),
		screenHeight:    float32(rl.GetScreenHeight()),
		terrainRenderer: renderer.NewTerrainRenderer(),
		fireRenderer:    renderer.NewFireRenderer(),
		waterRenderer:   renderer.NewWaterRenderer(float32(cfg.Water.AmbientPower) * 2),
		windRenderer:    renderer.NewWindRenderer(float32(cfg.Wind.MaxSpeed), windBudget),
		dropletRenderer: renderer.NewDropletRenderer(),
		hud:             ui.NewHUD(),
		overlays:        ui.NewOverlayRegistry(),
	}
	g.controls = ui.NewControlsPanel(0, panelMargin, panelWidth)
	g.perfPanel = ui.NewPerfPanel(panelMargin, 0, panelWidth)
	g.layout()
	g.syncControls()
	return g
}

// layout recomputes the viewport and panel positions for the window size.
func (g *Game) layout() {
	area := rl.Rectangle{
		X:      panelMargin,
		Y:      120,
		Width:  g.screenWidth - panelWidth - panelMargin*3,
		Height: g.screenHeight - 160,
	}
	g.viewport = renderer.FitViewport(area, g.sb.Field().Bounds())
	g.controls.SetPosition(int32(g.screenWidth)-panelWidth-panelMargin, panelMargin)
	g.perfPanel.SetPosition(panelMargin, 120)
}

// syncControls copies simulation settings into the control panel state.
func (g *Game) syncControls() {
	if f := g.sb.Fire; f != nil {
		angle, speed := f.Wind()
		g.state.FirePaused = f.State() == Paused
		g.state.WindAngle = float32(angle)
		g.state.WindSpeed = float32(speed)
		g.state.Zoom = f.Zoom()
	}
	if w := g.sb.Water; w != nil {
		g.state.ShowDropletMesh = w.showMesh
	}
	if w := g.sb.Wind; w != nil {
		g.state.WindEnabled = w.Enabled()
		g.state.WindMultiplier = w.SpeedMultiplier()
		g.state.Southern = w.Hemisphere() == systems.Southern
		g.state.Coriolis = w.Coriolis()
	}
}

// Update handles input and advances the simulations by the frame time.
func (g *Game) Update() {
	g.handleInput()
	g.sb.Advance(rl.GetFrameTime())
}

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int64 { return g.sb.Tick() }

// Unload frees GPU resources.
func (g *Game) Unload() {
	g.terrainRenderer.Unload()
	g.fireRenderer.Unload()
	g.waterRenderer.Unload()
}
