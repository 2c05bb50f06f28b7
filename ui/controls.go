package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState mirrors the adjustable simulation settings. The panel edits
// it in place; the caller diffs it against the simulations.
type ControlState struct {
	FirePaused      bool
	WindAngle       float32 // Degrees
	WindSpeed       float32
	Zoom            float32
	WindEnabled     bool
	WindMultiplier  float32
	Southern        bool
	Coriolis        bool
	ShowDropletMesh bool
}

// ControlActions reports the one-shot buttons pressed this frame.
type ControlActions struct {
	ResetLandscape bool
	RandomizeFlora bool
	ClearDroplets  bool
	Calibrate      bool
}

// ControlsPanel renders the raygui control panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel, applies slider and toggle edits to state and
// returns the buttons pressed.
func (c *ControlsPanel) Draw(state *ControlState, calibrating bool) ControlActions {
	var act ControlActions
	r := c.renderer
	pad := float32(r.Theme.Padding)
	x := float32(c.x) + pad
	y := float32(c.y) + pad
	w := float32(c.width) - pad*2
	half := (w - pad) / 2

	r.DrawPanel(c.x, c.y, c.width, 470)

	rl.DrawText("Fire", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += 20
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(state.FirePaused, "Resume", "Pause")) {
		state.FirePaused = !state.FirePaused
	}
	if gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 24}, "Reset") {
		act.ResetLandscape = true
	}
	y += 30
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, "Randomize flora") {
		act.RandomizeFlora = true
	}
	y += 32
	state.WindAngle = c.slider(x, &y, w, "Wind angle", "%.0f deg", state.WindAngle, 0, 360)
	state.WindSpeed = c.slider(x, &y, w, "Wind speed", "%.2f", state.WindSpeed, 0, 1)
	state.Zoom = c.slider(x, &y, w, "Zoom", "%.2fx", state.Zoom, 0.25, 4)

	rl.DrawText("Water", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += 20
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(state.ShowDropletMesh, "Hide mesh", "Show mesh")) {
		state.ShowDropletMesh = !state.ShowDropletMesh
	}
	if gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 24}, "Clear drops") {
		act.ClearDroplets = true
	}
	y += 36

	rl.DrawText("Wind", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += 20
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(state.WindEnabled, "Freeze", "Run")) {
		state.WindEnabled = !state.WindEnabled
	}
	if gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 24}, toggleText(state.Coriolis, "Coriolis on", "Coriolis off")) {
		state.Coriolis = !state.Coriolis
	}
	y += 30
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, toggleText(state.Southern, "Southern hemisphere", "Northern hemisphere")) {
		state.Southern = !state.Southern
	}
	y += 32
	state.WindMultiplier = c.slider(x, &y, w, "Speed", "%.2fx", state.WindMultiplier, 0, 4)

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 28}, toggleText(calibrating, "Finish calibration", "Calibrate")) {
		act.Calibrate = true
	}

	return act
}

// slider draws a labelled slider bar and advances y.
func (c *ControlsPanel) slider(x float32, y *float32, w float32, label, format string, value, lo, hi float32) float32 {
	r := c.renderer
	rl.DrawText(label, int32(x), int32(*y), r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(fmt.Sprintf(format, value), int32(x)+r.Theme.LabelWidth, int32(*y), r.Theme.FontSize, r.Theme.ValueColor)
	*y += 16
	v := gui.SliderBar(rl.Rectangle{X: x, Y: *y, Width: w, Height: 16}, "", "", value, lo, hi)
	*y += 26
	return v
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
