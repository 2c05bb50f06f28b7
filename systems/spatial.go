package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandbox/components"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	DistSq float32 // Squared 3-D distance from the query origin
}

// MaxQueryResults caps the number of neighbors returned by spatial queries.
// This prevents density spikes from causing unbounded work.
const MaxQueryResults = 128

type cellKey struct{ col, row int32 }

// SpatialGrid buckets entities by XY cell for radius queries. Cells are
// hashed, so the grid needs no fixed extent and entities outside the terrain
// footprint are still found.
type SpatialGrid struct {
	cellSize float32
	cells    map[cellKey][]ecs.Entity
}

// NewSpatialGrid creates a spatial grid with square cells of cellSize.
func NewSpatialGrid(cellSize float32) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]ecs.Entity),
	}
}

// Clear removes all entities from the grid, keeping bucket capacity.
func (g *SpatialGrid) Clear() {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	k := g.key(x, y)
	g.cells[k] = append(g.cells[k], e)
}

// QueryRadiusInto finds entities within radius of p and appends them to dst
// (up to MaxQueryResults). Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, p mgl32.Vec3, radius float32, posMap *ecs.Map1[components.Position]) []Neighbor {
	cellRadius := int32(radius/g.cellSize) + 1
	center := g.key(p.X(), p.Y())
	radiusSq := radius * radius

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			for _, e := range g.cells[cellKey{center.col + dc, center.row + dr}] {
				pos := posMap.Get(e)
				if pos == nil {
					continue
				}
				dx, dy, dz := pos.X-p.X(), pos.Y-p.Y(), pos.Z-p.Z()
				distSq := dx*dx + dy*dy + dz*dz
				if distSq < radiusSq {
					dst = append(dst, Neighbor{E: e, DistSq: distSq})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}
	return dst
}

func (g *SpatialGrid) key(x, y float32) cellKey {
	return cellKey{
		col: int32(fastFloor(x / g.cellSize)),
		row: int32(fastFloor(y / g.cellSize)),
	}
}

func fastFloor(v float32) float32 {
	i := float32(int32(v))
	if v < i {
		return i - 1
	}
	return i
}
