// Package terrain defines the read-only depth field the simulations consume
// as a live boundary condition, plus grid snapshots taken once per tick.
//
// Depth grows away from the sensor: a larger value is lower terrain.
package terrain

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidGrid is returned when a snapshot is requested with non-positive dimensions.
var ErrInvalidGrid = errors.New("terrain: invalid grid dimensions")

// Bounds is the rectangular world-space domain [MeshStart, MeshEnd].
type Bounds struct {
	MeshStart mgl32.Vec3
	MeshEnd   mgl32.Vec3
}

// Width returns the X extent of the domain.
func (b Bounds) Width() float32 { return b.MeshEnd.X() - b.MeshStart.X() }

// Height returns the Y extent of the domain.
func (b Bounds) Height() float32 { return b.MeshEnd.Y() - b.MeshStart.Y() }

// Contains reports whether p lies inside the XY footprint of the domain.
func (b Bounds) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.MeshStart.X() && p.X() <= b.MeshEnd.X() &&
		p.Y() >= b.MeshStart.Y() && p.Y() <= b.MeshEnd.Y()
}

// Expand grows the XY footprint by margin on every side.
func (b Bounds) Expand(margin float32) Bounds {
	return Bounds{
		MeshStart: mgl32.Vec3{b.MeshStart.X() - margin, b.MeshStart.Y() - margin, b.MeshStart.Z()},
		MeshEnd:   mgl32.Vec3{b.MeshEnd.X() + margin, b.MeshEnd.Y() + margin, b.MeshEnd.Z()},
	}
}

// Normalize maps a world position to [0,1]^2 over the XY footprint.
func (b Bounds) Normalize(p mgl32.Vec3) (u, v float32) {
	w, h := b.Width(), b.Height()
	if w > 0 {
		u = (p.X() - b.MeshStart.X()) / w
	}
	if h > 0 {
		v = (p.Y() - b.MeshStart.Y()) / h
	}
	return u, v
}

// Field is the terrain-acquisition collaborator. The core never mutates it.
type Field interface {
	// Bounds returns the world domain covered by the field.
	Bounds() Bounds
	// DepthAt returns the terrain depth below the XY position of p.
	DepthAt(p mgl32.Vec3) float32
	// Sample resamples the whole domain onto a w x h grid.
	Sample(w, h int) (*Grid, error)
}

// Grid is an immutable per-tick snapshot of terrain depth in row-major order.
type Grid struct {
	W, H   int
	Depth  []float32
	Bounds Bounds

	// Depth range of the snapshot, used for normalization
	Min, Max float32
}

// NewGrid wraps depth samples into a snapshot and records their range.
func NewGrid(w, h int, depth []float32, bounds Bounds) (*Grid, error) {
	if w <= 0 || h <= 0 || len(depth) != w*h {
		return nil, ErrInvalidGrid
	}
	g := &Grid{W: w, H: h, Depth: depth, Bounds: bounds}
	g.Min, g.Max = float32(math.Inf(1)), float32(math.Inf(-1))
	for _, d := range depth {
		if d < g.Min {
			g.Min = d
		}
		if d > g.Max {
			g.Max = d
		}
	}
	return g, nil
}

// At returns the depth of cell (x, y) clamped to the grid edges.
func (g *Grid) At(x, y int) float32 {
	if x < 0 {
		x = 0
	} else if x >= g.W {
		x = g.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.H {
		y = g.H - 1
	}
	return g.Depth[y*g.W+x]
}

// HeightAt returns the normalized terrain height in [0,1] at (u, v) in [0,1]^2.
// High terrain (small depth) maps to 1.
func (g *Grid) HeightAt(u, v float32) float32 {
	span := g.Max - g.Min
	if span <= 0 {
		return 0.5
	}
	d := g.SampleUV(u, v)
	return (g.Max - d) / span
}

// SampleUV bilinearly interpolates depth at normalized coordinates.
func (g *Grid) SampleUV(u, v float32) float32 {
	fx := u * float32(g.W-1)
	fy := v * float32(g.H-1)
	if fx < 0 {
		fx = 0
	}
	if fy < 0 {
		fy = 0
	}

	x0 := int(fx)
	y0 := int(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	a := g.At(x0, y0) + (g.At(x0+1, y0)-g.At(x0, y0))*tx
	b := g.At(x0, y0+1) + (g.At(x0+1, y0+1)-g.At(x0, y0+1))*tx
	return a + (b-a)*ty
}

// GradientUV returns the central-difference height gradient per grid cell at
// normalized coordinates. The vector points uphill.
func (g *Grid) GradientUV(u, v float32) (gx, gy float32) {
	span := g.Max - g.Min
	if span <= 0 {
		return 0, 0
	}
	x := int(u * float32(g.W-1))
	y := int(v * float32(g.H-1))
	// Height is the negated depth
	gx = (g.At(x-1, y) - g.At(x+1, y)) / (2 * span)
	gy = (g.At(x, y-1) - g.At(x, y+1)) / (2 * span)
	return gx, gy
}

// AsField exposes the snapshot through Field so point queries made during a
// tick see the same terrain as the grid passes.
func (g *Grid) AsField() Field { return snapshotField{g} }

type snapshotField struct{ g *Grid }

func (s snapshotField) Bounds() Bounds { return s.g.Bounds }

func (s snapshotField) DepthAt(p mgl32.Vec3) float32 {
	u, v := s.g.Bounds.Normalize(p)
	return s.g.SampleUV(u, v)
}

func (s snapshotField) Sample(w, h int) (*Grid, error) {
	if w == s.g.W && h == s.g.H {
		return s.g, nil
	}
	if w < 2 || h < 2 {
		return nil, ErrInvalidGrid
	}
	depth := make([]float32, w*h)
	for y := 0; y < h; y++ {
		v := float32(y) / float32(h-1)
		for x := 0; x < w; x++ {
			depth[y*w+x] = s.g.SampleUV(float32(x)/float32(w-1), v)
		}
	}
	return NewGrid(w, h, depth, s.g.Bounds)
}
