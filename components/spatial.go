package components

import "github.com/go-gl/mathgl/mgl32"

// Position represents an entity's world position. Z is depth below the
// sensor, so larger Z is lower.
type Position struct {
	X, Y, Z float32
}

// Vec3 returns the position as a vector.
func (p Position) Vec3() mgl32.Vec3 { return mgl32.Vec3{p.X, p.Y, p.Z} }

// PositionFrom converts a vector into a Position.
func PositionFrom(v mgl32.Vec3) Position { return Position{X: v.X(), Y: v.Y(), Z: v.Z()} }

// Velocity represents an entity's velocity in world units per second.
type Velocity struct {
	X, Y, Z float32
}
