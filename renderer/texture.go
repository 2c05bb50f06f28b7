package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// GridTexture streams a row-major colour buffer into a GPU texture.
type GridTexture struct {
	tex           rl.Texture2D
	width, height int32
	initialized   bool
}

// NewGridTexture creates a texture for a w x h grid. The GPU resource is
// created lazily on first Update.
func NewGridTexture(w, h int) *GridTexture {
	return &GridTexture{width: int32(w), height: int32(h)}
}

func (g *GridTexture) init() {
	img := rl.GenImageColor(int(g.width), int(g.height), rl.Black)
	g.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(g.tex, rl.FilterBilinear)
	g.initialized = true
}

// Update uploads pixels, recreating the texture when the grid size changed.
func (g *GridTexture) Update(pixels []color.RGBA, w, h int) {
	if len(pixels) < w*h || w <= 0 || h <= 0 {
		return
	}
	if g.initialized && (int32(w) != g.width || int32(h) != g.height) {
		g.Unload()
	}
	g.width, g.height = int32(w), int32(h)
	if !g.initialized {
		g.init()
	}
	rl.UpdateTexture(g.tex, pixels[:w*h])
}

// Draw stretches the texture over dest.
func (g *GridTexture) Draw(dest rl.Rectangle, tint rl.Color) {
	if !g.initialized {
		return
	}
	src := rl.Rectangle{Width: float32(g.width), Height: float32(g.height)}
	rl.DrawTexturePro(g.tex, src, dest, rl.Vector2{}, 0, tint)
}

// Unload frees resources.
func (g *GridTexture) Unload() {
	if g.initialized {
		rl.UnloadTexture(g.tex)
		g.initialized = false
	}
}
