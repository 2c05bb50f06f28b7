package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// WaterRenderer shades wave heights around the rest level.
type WaterRenderer struct {
	ramp      *Ramp
	tex       *GridTexture
	pixels    []color.RGBA
	amplitude float32 // Deviation mapped to the ends of the ramp
}

// NewWaterRenderer creates a water renderer. Deviations of +-amplitude from
// the rest level span the full ramp.
func NewWaterRenderer(amplitude float32) *WaterRenderer {
	if amplitude <= 0 {
		amplitude = 0.1
	}
	return &WaterRenderer{
		ramp:      MustRamp("#06213f", "#1d5f8a", "#7fc8e8", "#eaf8ff"),
		tex:       NewGridTexture(2, 2),
		amplitude: amplitude,
	}
}

// Draw shades a w x h height buffer and stretches it over dest.
func (r *WaterRenderer) Draw(heights []float32, w, h int, rest float32, dest rl.Rectangle, alpha uint8) {
	n := w * h
	if n == 0 || len(heights) < n {
		return
	}
	if cap(r.pixels) < n {
		r.pixels = make([]color.RGBA, n)
	}
	r.pixels = r.pixels[:n]

	for i, v := range heights[:n] {
		t := 0.5 + (v-rest)/(2*r.amplitude)
		r.pixels[i] = r.ramp.At(t)
	}

	r.tex.Update(r.pixels, w, h)
	r.tex.Draw(dest, rl.Color{R: 255, G: 255, B: 255, A: alpha})
}

// Unload frees resources.
func (r *WaterRenderer) Unload() {
	r.tex.Unload()
}
