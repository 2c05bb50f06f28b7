// Terrain preview tool - interactive view of the synthetic sand surface.
//
// Usage: go run ./cmd/terrainpreview [--config config.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/renderer"
	"github.com/pthm-cable/sandbox/terrain"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := config.Cfg().Terrain
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	tr := renderer.NewTerrainRenderer()
	defer tr.Unload()

	field := terrain.NewNoiseField(params)
	var grid *terrain.Grid
	animating := false
	contours := true
	needsRegen := true
	var simTime float64

	area := rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize}

	for !rl.WindowShouldClose() {
		if animating {
			dt := float64(rl.GetFrameTime())
			field.Advance(dt)
			simTime += dt
			needsRegen = true
		}

		if needsRegen {
			g, err := field.Sample(params.GridWidth, params.GridHeight)
			if err != nil {
				slog.Error("sample failed", "error", err)
			} else {
				grid = g
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		vp := renderer.FitViewport(area, field.Bounds())
		if grid != nil {
			tr.Draw(grid, vp, contours)
			rl.DrawText(fmt.Sprintf("Depth min: %.1f  max: %.1f", grid.Min, grid.Max), 15, previewSize+25, 16, rl.DarkGray)
		}
		rl.DrawRectangleLinesEx(vp.Dest, 1, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Time: %.1f", simTime), 15, previewSize+45, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Terrain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		slider := func(label, format string, value, lo, hi float32) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "", value, lo, hi,
			)
			rl.DrawText(fmt.Sprintf(format, value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			if v != value {
				changed = true
			}
			return v
		}

		params.BaseDepth = float64(slider("Base depth (sand plane)", "%.0f", float32(params.BaseDepth), 20, 200))
		params.Relief = float64(slider("Relief (peak to trough)", "%.0f", float32(params.Relief), 0, 100))
		params.NoiseScale = float64(slider("Noise scale (dune frequency)", "%.3f", float32(params.NoiseScale), 0.002, 0.1))
		params.Seed = int64(slider("Seed", "%.0f", float32(params.Seed), 0, 9999))
		if changed {
			field = terrain.NewNoiseField(params)
			simTime = 0
			needsRegen = true
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(contours, "Hide Contours", "Contours")) {
			contours = !contours
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 9999))
			field = terrain.NewNoiseField(params)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			field = terrain.NewNoiseField(params)
			simTime = 0
			needsRegen = true
		}
		panelY += 55

		snippet, err := terrainYAML(params)
		if err != nil {
			snippet = err.Error()
		}
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(snippet, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) && err == nil {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// terrainYAML renders the terrain section as it appears in config.yaml.
func terrainYAML(tc config.TerrainConfig) (string, error) {
	out, err := yaml.Marshal(struct {
		Terrain config.TerrainConfig `yaml:"terrain"`
	}{tc})
	if err != nil {
		return "", fmt.Errorf("marshal terrain: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
