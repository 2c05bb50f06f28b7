package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/terrain"
)

func testDropletBounds() terrain.Bounds {
	return terrain.Bounds{MeshStart: mgl32.Vec3{0, 0, 0}, MeshEnd: mgl32.Vec3{256, 256, 0}}
}

func newTestDroplets() *DropletSystem {
	return NewDropletSystem(DropletParamsFromConfig(config.Cfg().Droplets), nil)
}

// spawnGrid spawns n droplets on a lattice spaced wider than MinSpacing.
func spawnGrid(t testing.TB, s *DropletSystem, n int, z float32) {
	t.Helper()
	const spacing = 4
	for i := 0; i < n; i++ {
		x := float32(8 + (i%50)*spacing)
		y := float32(8 + (i/50)*spacing)
		if !s.Spawn(mgl32.Vec3{x, y, z}) {
			t.Fatalf("spawn %d at (%.0f,%.0f) rejected", i, x, y)
		}
	}
}

func TestDropletSpawnDedupes(t *testing.T) {
	s := newTestDroplets()
	if !s.Spawn(mgl32.Vec3{50, 50, 90}) {
		t.Fatal("first spawn rejected")
	}
	if s.Spawn(mgl32.Vec3{51, 50, 90}) {
		t.Error("expected spawn within min spacing to be rejected")
	}
	if !s.Spawn(mgl32.Vec3{60, 50, 90}) {
		t.Error("expected spawn outside min spacing to succeed")
	}
	if s.Count() != 2 {
		t.Errorf("expected 2 droplets, got %d", s.Count())
	}
}

func TestDropletDestroyAll(t *testing.T) {
	s := newTestDroplets()
	spawnGrid(t, s, 40, 90)
	s.DestroyAll()
	if s.Count() != 0 {
		t.Errorf("expected no droplets, got %d", s.Count())
	}
	if got := len(s.Positions(nil)); got != 0 {
		t.Errorf("expected no positions, got %d", got)
	}
}

func TestDropletCullOutOfBounds(t *testing.T) {
	s := newTestDroplets()
	margin := s.Params().BoundsMargin
	spawns := []mgl32.Vec3{
		{128, 128, 90},
		{-margin + 1, 60, 90},  // inside the margin
		{-margin - 1, 200, 90}, // outside
		{128, 256 + margin + 2, 90},
	}
	for _, p := range spawns {
		if !s.Spawn(p) {
			t.Fatalf("spawn at %v rejected", p)
		}
	}

	removed := s.Cull(testDropletBounds())
	if removed != 2 {
		t.Errorf("expected 2 culled, got %d", removed)
	}
	if s.Count() != 2 {
		t.Errorf("expected 2 survivors, got %d", s.Count())
	}
}

func TestDropletCullEvictsOldestFirst(t *testing.T) {
	params := DropletParamsFromConfig(config.Cfg().Droplets)
	params.MaxCount = 10
	s := NewDropletSystem(params, nil)

	for i := 0; i < 15; i++ {
		s.Spawn(mgl32.Vec3{float32(10 + i*5), 10, 90})
	}
	if removed := s.Cull(testDropletBounds()); removed != 5 {
		t.Fatalf("expected 5 evicted, got %d", removed)
	}
	if s.Count() != params.MaxCount {
		t.Fatalf("expected %d droplets, got %d", params.MaxCount, s.Count())
	}
	for _, p := range s.Positions(nil) {
		// The first five spawns sat at x = 10..30
		if p.X() <= 30 {
			t.Errorf("droplet at x=%.0f should have been evicted as one of the oldest", p.X())
		}
	}
}

func TestDropletCorrectBelowThreshold(t *testing.T) {
	s := newTestDroplets()
	field := terrain.Flat(testDropletBounds(), 100)
	radius := s.Params().Radius

	s.Spawn(mgl32.Vec3{20, 20, 100.5}) // slightly sunken
	s.Spawn(mgl32.Vec3{40, 20, 95})    // resting above

	s.Correct(field)
	if s.Corrected() != 2 {
		t.Errorf("expected every droplet checked below threshold, got %d", s.Corrected())
	}
	for _, p := range s.Positions(nil) {
		switch p.X() {
		case 20:
			if want := 100 - radius*1.25; p.Z() != want {
				t.Errorf("expected sunken droplet snapped to %f, got %f", want, p.Z())
			}
		case 40:
			if p.Z() != 95 {
				t.Errorf("expected droplet above the surface untouched, got %f", p.Z())
			}
		}
	}
}

func TestDropletCorrectAmortized(t *testing.T) {
	s := newTestDroplets()
	params := s.Params()
	field := terrain.Flat(testDropletBounds(), 100)

	n := params.CollisionThreshold + 100
	spawnGrid(t, s, n, 100+params.Tolerance+5)

	s.Correct(field)
	if want := n / params.DelayFrames; s.Corrected() != want {
		t.Errorf("expected %d droplets checked in one subsection, got %d", want, s.Corrected())
	}

	// After K ticks every subsection has been visited once
	for i := 1; i < params.DelayFrames; i++ {
		s.Correct(field)
	}
	for _, p := range s.Positions(nil) {
		if p.Z() > 100 {
			t.Fatalf("droplet at (%.0f,%.0f) still sunken at %f after %d ticks",
				p.X(), p.Y(), p.Z(), params.DelayFrames)
		}
	}
}

func TestDropletAmortizedToleratesShallowSink(t *testing.T) {
	s := newTestDroplets()
	params := s.Params()
	field := terrain.Flat(testDropletBounds(), 100)

	n := params.CollisionThreshold
	z := 100 + params.Tolerance/2
	spawnGrid(t, s, n, z)

	for i := 0; i < params.DelayFrames; i++ {
		s.Correct(field)
	}
	for _, p := range s.Positions(nil) {
		if p.Z() != z {
			t.Fatalf("expected droplet within tolerance to be left alone, got %f", p.Z())
		}
	}
}

func TestDropletUpdateCullsBeforeCorrecting(t *testing.T) {
	params := DropletParamsFromConfig(config.Cfg().Droplets)
	params.MaxCount = 50
	s := NewDropletSystem(params, GravityPhysics{Gravity: 30, MaxFallSpeed: 60})
	field := terrain.Flat(testDropletBounds(), 100)

	spawnGrid(t, s, 80, 90)
	s.Update(1.0/60, field)

	if s.Count() != params.MaxCount {
		t.Errorf("expected population capped at %d, got %d", params.MaxCount, s.Count())
	}
	if s.Corrected() != params.MaxCount {
		t.Errorf("expected correction over the culled population, got %d", s.Corrected())
	}
}

func TestGravityPhysicsSettlesOnTerrain(t *testing.T) {
	cfg := config.Cfg().Droplets
	s := NewDropletSystem(DropletParamsFromConfig(cfg), GravityPhysics{
		Gravity:      float32(cfg.Gravity),
		MaxFallSpeed: float32(cfg.MaxFallSpeed),
	})
	field := terrain.Flat(testDropletBounds(), 100)
	s.Spawn(mgl32.Vec3{128, 128, 0})

	for i := 0; i < 600; i++ {
		s.Update(1.0/60, field)
	}
	p := s.Positions(nil)[0]
	if p.Z() > 100 {
		t.Errorf("droplet sank through the terrain: z=%f", p.Z())
	}
	if p.Z() < 90 {
		t.Errorf("droplet never reached the surface: z=%f", p.Z())
	}
}

func TestDropletShowMeshToggle(t *testing.T) {
	s := newTestDroplets()
	if s.ShowMesh() {
		t.Fatal("mesh should start hidden")
	}
	s.SetShowMesh(true)
	if !s.ShowMesh() {
		t.Error("expected mesh visible after toggle")
	}
}

func BenchmarkDropletCorrect(b *testing.B) {
	s := newTestDroplets()
	field := terrain.Flat(testDropletBounds(), 100)
	spawnGrid(b, s, 1500, 105)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Correct(field)
	}
}

func TestDropletRemovalDestroysEntities(t *testing.T) {
	params := DropletParamsFromConfig(config.Cfg().Droplets)
	params.MaxCount = 5
	s := NewDropletSystem(params, nil)
	bounds := testDropletBounds()

	for round := 0; round < 20; round++ {
		for i := 0; i < 10; i++ {
			s.Spawn(mgl32.Vec3{-500 - float32(i)*10, float32(round) * 10, 90})
		}
		for i := 0; i < 8; i++ {
			p := mgl32.Vec3{8 + float32(i)*4, 8 + float32(round)*4, 90}
			if !s.Spawn(p) {
				t.Fatalf("round %d: spawn at %v rejected", round, p)
			}
		}
		s.Cull(bounds)
		if used := s.world.Stats().Entities.Used; used != s.Count() {
			t.Fatalf("round %d: %d live entities, %d droplets", round, used, s.Count())
		}
	}

	s.DestroyAll()
	if used := s.world.Stats().Entities.Used; used != 0 {
		t.Errorf("expected no live entities after DestroyAll, got %d", used)
	}
}
