// Package renderer draws the simulation buffers with raylib. Grids are
// shaded on the CPU into colour buffers and streamed into textures; wind
// particles and droplets are drawn directly.
package renderer

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

const rampSteps = 256

// Ramp is a precomputed colour gradient blended in Lab space.
type Ramp [rampSteps]color.RGBA

// NewRamp builds a ramp through evenly spaced hex colour stops.
func NewRamp(stops ...string) (*Ramp, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("ramp needs at least 2 stops, got %d", len(stops))
	}
	cs := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("ramp stop %d: %w", i, err)
		}
		cs[i] = c
	}

	var r Ramp
	segs := float64(len(cs) - 1)
	for i := range r {
		t := float64(i) / float64(rampSteps-1) * segs
		k := int(t)
		if k >= len(cs)-1 {
			k = len(cs) - 2
		}
		c := cs[k].BlendLab(cs[k+1], t-float64(k)).Clamped()
		cr, cg, cb := c.RGB255()
		r[i] = color.RGBA{R: cr, G: cg, B: cb, A: 255}
	}
	return &r, nil
}

// MustRamp is like NewRamp but panics on malformed stops.
func MustRamp(stops ...string) *Ramp {
	r, err := NewRamp(stops...)
	if err != nil {
		panic(err)
	}
	return r
}

// At returns the colour at t in [0,1], clamped.
func (r *Ramp) At(t float32) color.RGBA {
	if t <= 0 {
		return r[0]
	}
	if t >= 1 {
		return r[rampSteps-1]
	}
	return r[int(t*(rampSteps-1)+0.5)]
}
