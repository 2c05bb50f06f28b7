package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandbox/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Tick          int64
	FPS           int32
	State         string
	FirePaused    bool
	Calibrating   bool
	FireBurning   int
	FireBurntFrac float64
	Droplets      int
	WindParticles int
	WindPolluted  int
	Hemisphere    string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | %s", data.Tick, data.FPS, data.State),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Burning: %d | Burnt: %.1f%% | Droplets: %d", data.FireBurning, data.FireBurntFrac*100, data.Droplets),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Wind: %d particles, %d polluted (%s)", data.WindParticles, data.WindPolluted, data.Hemisphere),
		10, 75, 16, rl.LightGray,
	)

	switch {
	case data.Calibrating:
		rl.DrawText("CALIBRATING", 10, 95, 16, rl.Orange)
	case data.FirePaused:
		rl.DrawText("FIRE PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// DrawLegend lists overlays with their key bindings and returns the Y below it.
func (h *HUD) DrawLegend(x, y, width int32, overlays *OverlayRegistry) int32 {
	r := h.renderer
	items := len(overlays.All()) + len(overlays.Categories())
	r.DrawPanel(x, y, width, int32(items)*r.Theme.LineHeight+r.Theme.Padding*2)

	y += r.Theme.Padding
	for _, cat := range overlays.Categories() {
		y = r.DrawSectionHeader(x+r.Theme.Padding, y, cat)
		for _, desc := range overlays.ByCategory(cat) {
			h.drawToggle(x+r.Theme.Padding, y, desc, overlays.IsEnabled(desc.ID), width-r.Theme.Padding*2)
			y += r.Theme.LineHeight
		}
	}
	return y + r.Theme.Padding
}

func (h *HUD) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := h.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	height := int32(len(telemetry.Phases)+4)*(r.Theme.LineHeight+2) + pad*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + pad
	y := p.y + pad
	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	y = r.DrawLabelValue(x, y, "Tick avg", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Tick p95", stats.P95TickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Ticks/s", fmt.Sprintf("%.0f", stats.TicksPerSecond))

	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, float32(stats.PhasePct[phase]/100), 0.2, p.width-pad*2)
	}
}
