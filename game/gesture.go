package game

import "github.com/go-gl/mathgl/mgl32"

// Gesture is one tracked hand point for a frame.
type Gesture struct {
	Normalized  mgl32.Vec2 // Position in [0,1]^2 over the sandbox footprint
	World       mgl32.Vec3 // Position in terrain world space
	OutOfBounds bool       // Set by the tracker when the hand is off the sand
}

// inBounds reports whether the gesture may trigger an injection.
func (g Gesture) inBounds() bool {
	if g.OutOfBounds {
		return false
	}
	u, v := g.Normalized.X(), g.Normalized.Y()
	return u >= 0 && u < 1 && v >= 0 && v < 1
}

// GestureFromWorld builds a gesture for a world position, normalizing it
// against the terrain footprint and flagging positions outside it.
func GestureFromWorld(p mgl32.Vec3, start, end mgl32.Vec3) Gesture {
	g := Gesture{World: p}
	w, h := end.X()-start.X(), end.Y()-start.Y()
	if w <= 0 || h <= 0 {
		g.OutOfBounds = true
		return g
	}
	g.Normalized = mgl32.Vec2{(p.X() - start.X()) / w, (p.Y() - start.Y()) / h}
	g.OutOfBounds = !g.inBounds()
	return g
}
