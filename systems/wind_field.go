package systems

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/terrain"
)

// Hemisphere selects the sign of the Coriolis deflection.
type Hemisphere uint8

const (
	Northern Hemisphere = iota // Deflects to the right of motion
	Southern                   // Deflects to the left of motion
)

func (h Hemisphere) String() string {
	if h == Southern {
		return "south"
	}
	return "north"
}

// ParseHemisphere converts "north" or "south" to a Hemisphere.
func ParseHemisphere(s string) (Hemisphere, error) {
	switch s {
	case "north", "":
		return Northern, nil
	case "south":
		return Southern, nil
	}
	return Northern, fmt.Errorf("unknown hemisphere %q", s)
}

// WindParams holds per-particle dynamics constants. Velocities are world
// units per tick with +Y pointing north.
type WindParams struct {
	CoriolisStrength float32 // Turn rate in radians per tick at full strength
	SlopeGain        float32 // Downhill acceleration per unit of normalized slope
	Drag             float32 // Velocity kept per tick
	MaxSpeed         float32
	MaxAge           uint32 // Ticks before a particle is recycled, 0 disables
}

// WindParamsFromConfig converts configuration into wind parameters.
func WindParamsFromConfig(cfg config.WindConfig) WindParams {
	return WindParams{
		CoriolisStrength: float32(cfg.CoriolisStrength),
		SlopeGain:        float32(cfg.SlopeGain),
		Drag:             float32(cfg.Drag),
		MaxSpeed:         float32(cfg.MaxSpeed),
		MaxAge:           uint32(cfg.MaxAge),
	}
}

// WindField is a fixed-size particle population stored as parallel slices.
// Particles are never created or destroyed after Initialize: leaving the
// domain or exceeding MaxAge reseeds them in place.
type WindField struct {
	PX, PY    []float32
	VX, VY    []float32
	Age       []uint32
	Pollutant []float32 // Tag intensity in [0,1], cleared on reseed

	params WindParams
	tick   uint32
	pool   *WorkerPool
}

// NewWindField creates an empty field. Call Initialize before stepping.
func NewWindField(params WindParams, pool *WorkerPool) *WindField {
	return &WindField{params: params, pool: pool}
}

// Count returns the particle population.
func (f *WindField) Count() int { return len(f.PX) }

// Params returns the dynamics constants.
func (f *WindField) Params() WindParams { return f.params }

// Initialize seeds count particles uniformly inside bounds with zero
// velocity, reusing storage when the count is unchanged.
func (f *WindField) Initialize(seed uint32, bounds terrain.Bounds, count int) error {
	if count <= 0 {
		return fmt.Errorf("wind field with %d particles: %w", count, ErrInvalidGrid)
	}
	if len(f.PX) != count {
		f.PX = make([]float32, count)
		f.PY = make([]float32, count)
		f.VX = make([]float32, count)
		f.VY = make([]float32, count)
		f.Age = make([]uint32, count)
		f.Pollutant = make([]float32, count)
	}
	f.tick = 0
	for i := range f.PX {
		f.reseed(i, seed, bounds)
		// Stagger ages so recycling does not happen in lockstep
		if f.params.MaxAge > 0 {
			f.Age[i] = uint32(hash01(uint32(i), 0x51ed, seed) * float32(f.params.MaxAge))
		}
	}
	return nil
}

// reseed places particle i at a pseudo-random point inside bounds at rest.
func (f *WindField) reseed(i int, seed uint32, bounds terrain.Bounds) {
	u := hash01(uint32(i), f.tick*2, seed)
	v := hash01(uint32(i), f.tick*2+1, seed)
	f.PX[i] = bounds.MeshStart.X() + u*bounds.Width()
	f.PY[i] = bounds.MeshStart.Y() + v*bounds.Height()
	f.VX[i] = 0
	f.VY[i] = 0
	f.Age[i] = 0
	f.Pollutant[i] = 0
}

// Step advances every particle one tick. Velocity accelerates down the
// terrain slope of grid, is deflected by Coriolis when enabled, decays by
// drag and is capped at MaxSpeed. speedMultiplier scales both the forcing
// and the displacement. Particles leaving bounds are reseeded inside it.
func (f *WindField) Step(grid *terrain.Grid, hemisphere Hemisphere, speedMultiplier float32, coriolis bool, seed uint32, bounds terrain.Bounds) {
	if len(f.PX) == 0 {
		return
	}
	p := f.params
	turn := float32(0)
	if coriolis {
		turn = p.CoriolisStrength
		if hemisphere == Southern {
			turn = -turn
		}
	}
	// Rotation of velocity by -turn: positive turn veers right of motion
	sinT := float32(math.Sin(float64(-turn)))
	cosT := float32(math.Cos(float64(-turn)))
	maxSpeed := p.MaxSpeed * speedMultiplier
	maxSq := maxSpeed * maxSpeed

	f.tick++
	f.pool.Run(len(f.PX), func(start, end int) {
		for i := start; i < end; i++ {
			x, y := f.PX[i], f.PY[i]
			vx, vy := f.VX[i], f.VY[i]

			if grid != nil {
				u, v := bounds.Normalize(mgl32.Vec3{x, y, 0})
				gx, gy := grid.GradientUV(u, v)
				// Flow from high to low terrain
				vx -= gx * p.SlopeGain * speedMultiplier
				vy -= gy * p.SlopeGain * speedMultiplier
			}

			if turn != 0 {
				vx, vy = vx*cosT-vy*sinT, vx*sinT+vy*cosT
			}

			vx *= p.Drag
			vy *= p.Drag
			if sq := vx*vx + vy*vy; sq > maxSq && sq > 0 {
				s := maxSpeed / float32(math.Sqrt(float64(sq)))
				vx *= s
				vy *= s
			}

			x += vx * speedMultiplier
			y += vy * speedMultiplier
			f.PX[i], f.PY[i] = x, y
			f.VX[i], f.VY[i] = vx, vy
			f.Age[i]++

			expired := p.MaxAge > 0 && f.Age[i] >= p.MaxAge
			if expired || !bounds.Contains(mgl32.Vec3{x, y, 0}) {
				f.reseed(i, seed, bounds)
			}
		}
	})
}

// InjectPollutant tags particles within radius of center. Intensity falls off
// toward the rim and seed jitters it per particle. Returns the number tagged.
func (f *WindField) InjectPollutant(center mgl32.Vec3, radius float32, seed uint32) int {
	if radius <= 0 {
		return 0
	}
	cx, cy := center.X(), center.Y()
	rSq := radius * radius
	tagged := 0
	for i := range f.PX {
		dSq := distanceSq(f.PX[i], f.PY[i], cx, cy)
		if dSq > rSq {
			continue
		}
		d := float32(math.Sqrt(float64(dSq))) / radius
		intensity := (1 - 0.5*d) * (0.75 + 0.25*hash01(uint32(i), f.tick, seed))
		f.Pollutant[i] = clampFloat(max(f.Pollutant[i], intensity), 0, 1)
		tagged++
	}
	return tagged
}

// Polluted returns how many particles carry a pollutant tag.
func (f *WindField) Polluted() int {
	n := 0
	for _, p := range f.Pollutant {
		if p > 0 {
			n++
		}
	}
	return n
}

// Speeds appends the speed of every particle to dst.
func (f *WindField) Speeds(dst []float64) []float64 {
	for i := range f.VX {
		dst = append(dst, math.Hypot(float64(f.VX[i]), float64(f.VY[i])))
	}
	return dst
}

// Release drops particle storage on teardown.
func (f *WindField) Release() {
	f.PX, f.PY, f.VX, f.VY, f.Age, f.Pollutant = nil, nil, nil, nil, nil, nil
}
