package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FireRenderer draws the rasterized fire colours.
type FireRenderer struct {
	tex *GridTexture
}

// NewFireRenderer creates a new fire renderer.
func NewFireRenderer() *FireRenderer {
	return &FireRenderer{tex: NewGridTexture(2, 2)}
}

// Draw uploads the colour grid and stretches it over dest.
func (r *FireRenderer) Draw(colors []color.RGBA, w, h int, dest rl.Rectangle) {
	r.tex.Update(colors, w, h)
	r.tex.Draw(dest, rl.White)
}

// Unload frees resources.
func (r *FireRenderer) Unload() {
	r.tex.Unload()
}
