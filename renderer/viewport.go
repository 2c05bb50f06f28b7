package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sandbox/terrain"
)

// Viewport maps the terrain footprint onto a screen rectangle.
type Viewport struct {
	Dest   rl.Rectangle
	Bounds terrain.Bounds
}

// FitViewport letterboxes bounds into a screen area, keeping aspect ratio.
func FitViewport(area rl.Rectangle, bounds terrain.Bounds) Viewport {
	bw, bh := bounds.Width(), bounds.Height()
	if bw <= 0 || bh <= 0 {
		return Viewport{Dest: area, Bounds: bounds}
	}
	scale := area.Width / bw
	if s := area.Height / bh; s < scale {
		scale = s
	}
	w, h := bw*scale, bh*scale
	return Viewport{
		Dest: rl.Rectangle{
			X:      area.X + (area.Width-w)/2,
			Y:      area.Y + (area.Height-h)/2,
			Width:  w,
			Height: h,
		},
		Bounds: bounds,
	}
}

// WorldToScreen projects the XY of a world position.
func (v Viewport) WorldToScreen(x, y float32) rl.Vector2 {
	return rl.Vector2{
		X: v.Dest.X + (x-v.Bounds.MeshStart.X())/v.Bounds.Width()*v.Dest.Width,
		Y: v.Dest.Y + (y-v.Bounds.MeshStart.Y())/v.Bounds.Height()*v.Dest.Height,
	}
}

// ScreenToWorld unprojects a screen point onto the footprint at depth z.
func (v Viewport) ScreenToWorld(p rl.Vector2, z float32) mgl32.Vec3 {
	return mgl32.Vec3{
		v.Bounds.MeshStart.X() + (p.X-v.Dest.X)/v.Dest.Width*v.Bounds.Width(),
		v.Bounds.MeshStart.Y() + (p.Y-v.Dest.Y)/v.Dest.Height*v.Bounds.Height(),
		z,
	}
}

// Scale returns screen pixels per world unit.
func (v Viewport) Scale() float32 {
	if v.Bounds.Width() <= 0 {
		return 1
	}
	return v.Dest.Width / v.Bounds.Width()
}
