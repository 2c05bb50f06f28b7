package systems

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandbox/components"
	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/terrain"
)

// DropletParams configures droplet spawning, culling and terrain correction.
type DropletParams struct {
	Radius             float32
	MinSpacing         float32 // Spawns closer than this to a live droplet are dropped
	MaxCount           int
	CollisionThreshold int // At or above this population, correction is amortized
	DelayFrames        int // Number of rotating subsections (K)
	Tolerance          float32
	BoundsMargin       float32
}

// DropletParamsFromConfig converts configuration into droplet parameters.
func DropletParamsFromConfig(cfg config.DropletsConfig) DropletParams {
	return DropletParams{
		Radius:             float32(cfg.Radius),
		MinSpacing:         float32(cfg.MinSpacing),
		MaxCount:           cfg.MaxCount,
		CollisionThreshold: cfg.CollisionThreshold,
		DelayFrames:        cfg.DelayFrames,
		Tolerance:          float32(cfg.Tolerance),
		BoundsMargin:       float32(cfg.BoundsMargin),
	}
}

// DropletPhysics is the rigid-body collaborator that moves droplets. The
// droplet system only reads positions back and corrects them against terrain.
type DropletPhysics interface {
	Integrate(dt float32, pos *components.Position, vel *components.Velocity)
}

// GravityPhysics is a minimal stand-in for an engine rigid body: droplets
// fall toward increasing depth up to a terminal speed.
type GravityPhysics struct {
	Gravity      float32
	MaxFallSpeed float32
}

// Integrate implements DropletPhysics.
func (g GravityPhysics) Integrate(dt float32, pos *components.Position, vel *components.Velocity) {
	vel.Z += g.Gravity * dt
	if g.MaxFallSpeed > 0 && vel.Z > g.MaxFallSpeed {
		vel.Z = g.MaxFallSpeed
	}
	pos.X += vel.X * dt
	pos.Y += vel.Y * dt
	pos.Z += vel.Z * dt
}

// dropletRef pairs an entity with its spawn order for eviction.
type dropletRef struct {
	entity ecs.Entity
	seq    uint64
}

// DropletSystem owns droplet entities in an ECS world and keeps them resting
// on the live terrain without querying every droplet every tick once the
// population is large.
type DropletSystem struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Body, components.Droplet]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Body, components.Droplet]
	posMap *ecs.Map1[components.Position]

	// Spawn spacing index, rebuilt lazily after droplets move
	grid      *SpatialGrid
	gridDirty bool

	params  DropletParams
	physics DropletPhysics

	count    int
	nextSeq  uint64
	cursor   int // Rotating subsection index for amortized correction
	showMesh bool

	// Scratch reused across ticks
	refs      []dropletRef
	doomed    []ecs.Entity
	neighbors []Neighbor
	corrected int
}

// NewDropletSystem creates an empty droplet system.
func NewDropletSystem(params DropletParams, physics DropletPhysics) *DropletSystem {
	if params.DelayFrames < 1 {
		params.DelayFrames = 1
	}
	world := ecs.NewWorld()
	return &DropletSystem{
		world:   world,
		mapper:  ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Droplet](world),
		filter:  ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Droplet](world),
		posMap:  ecs.NewMap1[components.Position](world),
		grid:    NewSpatialGrid(params.MinSpacing),
		params:  params,
		physics: physics,
		refs:    make([]dropletRef, 0, params.MaxCount),
	}
}

// Count returns the live droplet population.
func (s *DropletSystem) Count() int { return s.count }

// Params returns the droplet parameters.
func (s *DropletSystem) Params() DropletParams { return s.params }

// ShowMesh reports whether droplet meshes should be drawn.
func (s *DropletSystem) ShowMesh() bool { return s.showMesh }

// SetShowMesh toggles droplet mesh visibility for the render layer.
func (s *DropletSystem) SetShowMesh(show bool) { s.showMesh = show }

// Corrected returns how many droplets were tested against terrain last tick.
func (s *DropletSystem) Corrected() int { return s.corrected }

// Spawn creates a droplet at p unless another droplet lies within the
// minimum spacing. Reports whether a droplet was created.
func (s *DropletSystem) Spawn(p mgl32.Vec3) bool {
	if s.params.MinSpacing > 0 {
		if s.gridDirty {
			s.rebuildGrid()
		}
		s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], p, s.params.MinSpacing, s.posMap)
		if len(s.neighbors) > 0 {
			return false
		}
	}

	pos := components.PositionFrom(p)
	vel := components.Velocity{}
	body := components.Body{Radius: s.params.Radius}
	drop := components.Droplet{Seq: s.nextSeq}
	s.nextSeq++
	e := s.mapper.NewEntity(&pos, &vel, &body, &drop)
	s.count++
	if !s.gridDirty {
		s.grid.Insert(e, pos.X, pos.Y)
	}
	return true
}

// rebuildGrid re-buckets every droplet at its current position.
func (s *DropletSystem) rebuildGrid() {
	s.grid.Clear()
	query := s.filter.Query()
	for query.Next() {
		pos, _, _, _ := query.Get()
		s.grid.Insert(query.Entity(), pos.X, pos.Y)
	}
	s.gridDirty = false
}

// DestroyAll removes every droplet.
func (s *DropletSystem) DestroyAll() {
	s.doomed = s.doomed[:0]
	query := s.filter.Query()
	for query.Next() {
		s.doomed = append(s.doomed, query.Entity())
	}
	s.removeDoomed()
	s.grid.Clear()
	s.gridDirty = false
	s.cursor = 0
}

// Update runs one tick: physics, then culling, then terrain correction, so
// capacity accounting is settled before any correction work is spent.
// Returns the number of droplets culled.
func (s *DropletSystem) Update(dt float32, field terrain.Field) int {
	if s.physics != nil {
		query := s.filter.Query()
		for query.Next() {
			pos, vel, _, _ := query.Get()
			s.physics.Integrate(dt, pos, vel)
		}
		s.gridDirty = true
	}
	culled := s.Cull(field.Bounds())
	s.Correct(field)
	return culled
}

// Cull removes droplets outside [MeshStart-margin, MeshEnd+margin] and then
// evicts the oldest droplets until the population is within MaxCount.
// Returns the number of droplets removed.
func (s *DropletSystem) Cull(bounds terrain.Bounds) int {
	limits := bounds.Expand(s.params.BoundsMargin)
	before := s.count

	s.doomed = s.doomed[:0]
	s.refs = s.refs[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, _, _, drop := query.Get()
		e := query.Entity()
		if !limits.Contains(mgl32.Vec3{pos.X, pos.Y, pos.Z}) {
			s.doomed = append(s.doomed, e)
			continue
		}
		s.refs = append(s.refs, dropletRef{entity: e, seq: drop.Seq})
	}

	if excess := len(s.refs) - s.params.MaxCount; excess > 0 {
		slices.SortFunc(s.refs, func(a, b dropletRef) int {
			switch {
			case a.seq < b.seq:
				return -1
			case a.seq > b.seq:
				return 1
			}
			return 0
		})
		for _, r := range s.refs[:excess] {
			s.doomed = append(s.doomed, r.entity)
		}
	}

	s.removeDoomed()
	return before - s.count
}

// Correct snaps sunken droplets back onto the terrain surface. Below the
// collision threshold every droplet is checked each tick. At or above it,
// the population is split into DelayFrames subsections and one subsection
// is checked per tick, with Tolerance units of slack before a snap.
func (s *DropletSystem) Correct(field terrain.Field) {
	n := s.count
	s.corrected = 0
	if n == 0 {
		return
	}

	lift := s.params.Radius * 1.25
	if n < s.params.CollisionThreshold {
		query := s.filter.Query()
		for query.Next() {
			pos, vel, _, _ := query.Get()
			s.corrected++
			depth := field.DepthAt(mgl32.Vec3{pos.X, pos.Y, pos.Z})
			if pos.Z > depth {
				pos.Z = depth - lift
				vel.Z = 0
			}
		}
		return
	}

	k := s.params.DelayFrames
	sub := s.cursor % k
	s.cursor = (s.cursor + 1) % k
	start := sub * n / k
	end := (sub + 1) * n / k

	i := 0
	query := s.filter.Query()
	for query.Next() {
		if i < start {
			i++
			continue
		}
		if i >= end {
			query.Close()
			break
		}
		i++
		pos, vel, _, _ := query.Get()
		s.corrected++
		depth := field.DepthAt(mgl32.Vec3{pos.X, pos.Y, pos.Z})
		if pos.Z > depth+s.params.Tolerance {
			pos.Z = depth - lift
			vel.Z = 0
		}
	}
}

// Positions appends the position of every droplet to dst.
func (s *DropletSystem) Positions(dst []mgl32.Vec3) []mgl32.Vec3 {
	query := s.filter.Query()
	for query.Next() {
		pos, _, _, _ := query.Get()
		dst = append(dst, pos.Vec3())
	}
	return dst
}

// removeDoomed destroys all collected entities. Must run outside a query.
func (s *DropletSystem) removeDoomed() {
	if len(s.doomed) > 0 {
		s.gridDirty = true
	}
	for _, e := range s.doomed {
		s.world.RemoveEntity(e)
		s.count--
	}
	s.doomed = s.doomed[:0]
}
