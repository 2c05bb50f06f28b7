package systems

import (
	"math"
	"testing"
)

func TestWindCoefficientsCalmIsUniform(t *testing.T) {
	for _, angle := range []float64{0, 17, 90, 181, 359.5, -45} {
		c := ComputeWindCoefficients(angle, 0)
		for d, v := range c {
			if v != 1 {
				t.Errorf("angle %.1f: expected coefficient 1 for direction %d, got %f", angle, d, v)
			}
		}
	}
}

func TestWindCoefficientsPeriodic(t *testing.T) {
	for _, angle := range []float64{0, 30, 123, 275} {
		a := ComputeWindCoefficients(angle, 3)
		b := ComputeWindCoefficients(angle+360, 3)
		for d := range a {
			if math.Abs(float64(a[d]-b[d])) > 1e-5 {
				t.Errorf("angle %.0f dir %d: %f != %f after full turn", angle, d, a[d], b[d])
			}
		}
	}
}

func TestWindCoefficientsClampAndCutoff(t *testing.T) {
	c := ComputeWindCoefficients(0, 500)
	for d, v := range c {
		if v < 0 || v > 100 {
			t.Errorf("direction %d: coefficient %f outside [0,100]", d, v)
		}
		if v > 0 && v < 0.2 {
			t.Errorf("direction %d: coefficient %f should be cut to zero", d, v)
		}
	}

	// sin(0 + 270°) = -1 so W gets 1 - 0.9 = 0.1, below the cutoff
	c = ComputeWindCoefficients(0, 0.9)
	if c[West] != 0 {
		t.Errorf("expected west coefficient zeroed below cutoff, got %f", c[West])
	}
	if math.Abs(float64(c[East])-1.9) > 1e-5 {
		t.Errorf("expected east coefficient 1.9, got %f", c[East])
	}
}

func TestWindCoefficientsDirectionsIndependent(t *testing.T) {
	// Every compass entry must come from its own offset; no duplicated slots
	c := ComputeWindCoefficients(10, 0.5)
	seen := make(map[float32]Compass)
	for d, v := range c {
		if prev, ok := seen[v]; ok {
			t.Errorf("directions %d and %d share coefficient %f", prev, d, v)
		}
		seen[v] = Compass(d)
	}
}
