package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandbox/terrain"
)

// contourLevels is the number of elevation bands separated by contour lines.
const contourLevels = 12

// TerrainRenderer shades the terrain snapshot as an elevation map.
type TerrainRenderer struct {
	ramp   *Ramp
	tex    *GridTexture
	pixels []color.RGBA
}

// NewTerrainRenderer creates a new terrain renderer.
func NewTerrainRenderer() *TerrainRenderer {
	return &TerrainRenderer{
		// deep water -> shallows -> sand -> grass -> rock -> snow
		ramp: MustRamp("#1b3a5c", "#3f7cac", "#d8c690", "#6a9a4a", "#7d6b58", "#f2f2f2"),
		tex:  NewGridTexture(2, 2),
	}
}

// Draw shades grid and stretches it over the viewport. Contour lines mark
// band crossings between neighbouring cells.
func (r *TerrainRenderer) Draw(grid *terrain.Grid, vp Viewport, contours bool) {
	if grid == nil {
		return
	}
	n := grid.W * grid.H
	if cap(r.pixels) < n {
		r.pixels = make([]color.RGBA, n)
	}
	r.pixels = r.pixels[:n]

	span := grid.Max - grid.Min
	height := func(x, y int) float32 {
		if span <= 0 {
			return 0.5
		}
		return (grid.Max - grid.At(x, y)) / span
	}

	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			h := height(x, y)
			c := r.ramp.At(h)
			if contours {
				band := int(h * contourLevels)
				if band != int(height(x+1, y)*contourLevels) || band != int(height(x, y+1)*contourLevels) {
					c = color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
				}
			}
			r.pixels[y*grid.W+x] = c
		}
	}

	r.tex.Update(r.pixels, grid.W, grid.H)
	r.tex.Draw(vp.Dest, rl.White)
}

// Unload frees resources.
func (r *TerrainRenderer) Unload() {
	r.tex.Unload()
}
