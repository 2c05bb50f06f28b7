package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandbox/components"
)

func TestSpatialGridQueryRadius(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Position](world)
	posMap := ecs.NewMap1[components.Position](world)
	grid := NewSpatialGrid(4)

	points := []components.Position{
		{X: 10, Y: 10, Z: 0},
		{X: 12, Y: 10, Z: 0},   // 2 away
		{X: 10, Y: 10, Z: 5},   // 5 away in depth only
		{X: -3, Y: -3, Z: 0},   // negative cell
		{X: 100, Y: 100, Z: 0}, // far
	}
	for i := range points {
		e := mapper.NewEntity(&points[i])
		grid.Insert(e, points[i].X, points[i].Y)
	}

	got := grid.QueryRadiusInto(nil, mgl32.Vec3{10, 10, 0}, 3, posMap)
	if len(got) != 2 {
		t.Fatalf("expected 2 neighbours within 3, got %d", len(got))
	}

	got = grid.QueryRadiusInto(got[:0], mgl32.Vec3{-2, -2, 0}, 2, posMap)
	if len(got) != 1 {
		t.Errorf("expected negative-coordinate entity found, got %d", len(got))
	}

	grid.Clear()
	if got = grid.QueryRadiusInto(got[:0], mgl32.Vec3{10, 10, 0}, 50, posMap); len(got) != 0 {
		t.Errorf("expected empty grid after Clear, got %d", len(got))
	}
}

func TestSpatialGridQueryCap(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Position](world)
	posMap := ecs.NewMap1[components.Position](world)
	grid := NewSpatialGrid(10)

	for i := 0; i < MaxQueryResults*2; i++ {
		pos := components.Position{X: 1, Y: 1}
		e := mapper.NewEntity(&pos)
		grid.Insert(e, pos.X, pos.Y)
	}
	got := grid.QueryRadiusInto(nil, mgl32.Vec3{1, 1, 0}, 5, posMap)
	if len(got) != MaxQueryResults {
		t.Errorf("expected query capped at %d, got %d", MaxQueryResults, len(got))
	}
}
