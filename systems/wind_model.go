package systems

import "math"

// Compass indexes the eight spread directions of the fire automaton.
type Compass uint8

const (
	North Compass = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	numCompass
)

// Coefficient limits applied after the sine response.
const (
	windCoeffMax    = 100.0
	windCoeffCutoff = 0.2
)

// compassOffsets are the grid steps matching each Compass entry.
// Rows grow southward.
var compassOffsets = [numCompass][2]int{
	North:     {0, -1},
	NorthEast: {1, -1},
	East:      {1, 0},
	SouthEast: {1, 1},
	South:     {0, 1},
	SouthWest: {-1, 1},
	West:      {-1, 0},
	NorthWest: {-1, -1},
}

// WindCoefficients holds one spread multiplier per compass direction.
// Recomputed every tick, never persisted.
type WindCoefficients [numCompass]float32

// UniformWind returns coefficients of 1 in every direction.
func UniformWind() WindCoefficients {
	var c WindCoefficients
	for i := range c {
		c[i] = 1
	}
	return c
}

// ComputeWindCoefficients converts a wind angle (degrees) and amplitude into
// per-direction multipliers: 1 + amplitude*sin(angle + 45°*d), clamped to
// [0, 100] and zeroed below 0.2.
func ComputeWindCoefficients(angleDegrees, amplitude float64) WindCoefficients {
	var c WindCoefficients
	angle := angleDegrees * math.Pi / 180
	for d := 0; d < int(numCompass); d++ {
		offset := float64(d) * math.Pi / 4
		v := 1 + amplitude*math.Sin(angle+offset)
		if v < 0 {
			v = 0
		} else if v > windCoeffMax {
			v = windCoeffMax
		}
		if v < windCoeffCutoff {
			v = 0
		}
		c[d] = float32(v)
	}
	return c
}
