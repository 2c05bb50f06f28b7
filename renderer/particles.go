package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// DropletRenderer draws floating droplets.
type DropletRenderer struct {
	positions []mgl32.Vec3
}

// NewDropletRenderer creates a new droplet renderer.
func NewDropletRenderer() *DropletRenderer {
	return &DropletRenderer{}
}

// Positioner exposes droplet positions for drawing.
type Positioner interface {
	Positions(dst []mgl32.Vec3) []mgl32.Vec3
}

// Draw renders every droplet as a disc of the given world radius. With
// mesh enabled an outline ring is drawn too.
func (r *DropletRenderer) Draw(src Positioner, vp Viewport, radius float32, mesh bool) {
	r.positions = src.Positions(r.positions[:0])
	size := radius * vp.Scale()
	if size < 1 {
		size = 1
	}

	fill := rl.Color{R: 120, G: 190, B: 255, A: 200}
	ring := rl.Color{R: 230, G: 245, B: 255, A: 255}
	for _, p := range r.positions {
		c := vp.WorldToScreen(p.X(), p.Y())
		rl.DrawCircleV(c, size, fill)
		if mesh {
			rl.DrawCircleLines(int32(c.X), int32(c.Y), size, ring)
		}
	}
}
