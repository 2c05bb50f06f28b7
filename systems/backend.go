package systems

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sandbox/terrain"
)

// FireBackend advances and rasterizes the fire automaton. FireGrid is the
// CPU implementation; an accelerated backend only has to honour the same
// double-buffer contract.
type FireBackend interface {
	// RegenerateLandscape initializes fuel and material from seeded noise.
	RegenerateLandscape(seed int64, zoom float32)
	ResetLandscape()
	StartFires(points []FirePoint)
	Step(terr *terrain.Grid, coeff WindCoefficients, zoom float32)
	Rasterize() []color.RGBA
	Counts() (burning, burnt int)
}

// WaveBackend advances the water surface. Heights is its rasterized output.
type WaveBackend interface {
	Fill(v float32)
	Step()
	Disturb(points []Disturbance)
	Heights() []float32
	Peak() float32
}

// WindBackend advances the wind particle population.
type WindBackend interface {
	Initialize(seed uint32, bounds terrain.Bounds, count int) error
	Step(grid *terrain.Grid, hemisphere Hemisphere, speedMultiplier float32, coriolis bool, seed uint32, bounds terrain.Bounds)
	InjectPollutant(center mgl32.Vec3, radius float32, seed uint32) int
	Count() int
	Release()
}

var (
	_ FireBackend = (*FireGrid)(nil)
	_ WaveBackend = (*WaveField)(nil)
	_ WindBackend = (*WindField)(nil)
)
