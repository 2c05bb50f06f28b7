package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandbox/systems"
)

// WindRenderer draws wind particles as additive dots coloured by speed,
// with pollutant-tagged particles shifted toward smog.
type WindRenderer struct {
	ramp     *Ramp
	smog     *Ramp
	maxSpeed float32
	budget   int // Upper bound on particles drawn per frame
}

// NewWindRenderer creates a wind renderer. At most budget particles are
// drawn per frame; larger populations are strided.
func NewWindRenderer(maxSpeed float32, budget int) *WindRenderer {
	if maxSpeed <= 0 {
		maxSpeed = 1
	}
	if budget <= 0 {
		budget = 50000
	}
	return &WindRenderer{
		ramp:     MustRamp("#2c4a7a", "#6fb0d8", "#e8f6ff"),
		smog:     MustRamp("#6b5d3a", "#c8782c", "#ff3b1f"),
		maxSpeed: maxSpeed,
		budget:   budget,
	}
}

// Draw renders particles projected through vp.
func (r *WindRenderer) Draw(f *systems.WindField, vp Viewport) {
	n := f.Count()
	if n == 0 {
		return
	}
	stride := 1
	if n > r.budget {
		stride = (n + r.budget - 1) / r.budget
	}

	rl.BeginBlendMode(rl.BlendAdditive)
	for i := 0; i < n; i += stride {
		vx, vy := f.VX[i], f.VY[i]
		speed2 := vx*vx + vy*vy
		t := speed2 / (r.maxSpeed * r.maxSpeed)

		c := r.ramp.At(t)
		if p := f.Pollutant[i]; p > 0 {
			c = r.smog.At(p)
		}
		c.A = 140

		pos := vp.WorldToScreen(f.PX[i], f.PY[i])
		rl.DrawPixelV(pos, c)
	}
	rl.EndBlendMode()
}
