package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// FBM layers simplex noise octaves into a smooth landscape signal.
type FBM struct {
	noise      opensimplex.Noise
	Octaves    int
	Lacunarity float64
	Gain       float64
}

// NewFBM creates a seeded fractal noise source.
func NewFBM(seed int64) *FBM {
	return &FBM{
		noise:      opensimplex.New(seed),
		Octaves:    4,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// Eval01 returns fractal noise at (x, y) mapped to [0,1].
func (f *FBM) Eval01(x, y float64) float64 {
	sum := 0.0
	amp := 1.0
	norm := 0.0
	freq := 1.0
	for o := 0; o < f.Octaves; o++ {
		sum += amp * f.noise.Eval2(x*freq, y*freq)
		norm += amp
		freq *= f.Lacunarity
		amp *= f.Gain
	}
	if norm == 0 {
		return 0.5
	}
	v := (sum/norm + 1) * 0.5
	return math.Max(0, math.Min(1, v))
}
