package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/sandbox/config"
)

// MaxDisturbances is the number of impulse centers applied per Disturb call.
const MaxDisturbances = 4

// WaveParams configures the damped wave equation.
type WaveParams struct {
	DT        float32
	DX        float32
	WaveSpeed float32
	Damping   float32 // Fraction of deviation kept per tick, < 1 bleeds energy
	RestLevel float32 // Flat surface height the damping settles toward
	Wrap      bool    // Periodic boundary; otherwise edges clamp
}

// Disturbance is a radially weighted impulse centred at (X, Y) in cells.
type Disturbance struct {
	X, Y   float32
	Radius float32
	Power  float32 // Signed peak added at the center
}

// WaveField solves a 2-D damped wave equation on two alternating height
// buffers. Each step writes the next generation into the "previous" slot
// (every cell reads only its own previous value) and then swaps roles.
type WaveField struct {
	W, H int

	prev, curr []float32
	params     WaveParams
	alpha      float32

	pool *WorkerPool
}

// NewWaveField allocates a wave field filled to the rest level.
func NewWaveField(w, h int, params WaveParams, pool *WorkerPool) (*WaveField, error) {
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("wave field %dx%d: %w", w, h, ErrInvalidGrid)
	}
	if params.DX <= 0 {
		params.DX = 1
	}
	wf := &WaveField{
		W:      w,
		H:      h,
		prev:   make([]float32, w*h),
		curr:   make([]float32, w*h),
		params: params,
		pool:   pool,
	}
	a := params.WaveSpeed * params.DT / params.DX
	wf.alpha = a * a
	wf.Fill(params.RestLevel)
	return wf, nil
}

// NewWaveFieldFromConfig builds a wave field from configuration.
func NewWaveFieldFromConfig(cfg config.WaterConfig, dt float32, pool *WorkerPool) (*WaveField, error) {
	return NewWaveField(cfg.Width, cfg.Height, WaveParams{
		DT:        dt,
		DX:        float32(cfg.DX),
		WaveSpeed: float32(cfg.WaveSpeed),
		Damping:   float32(cfg.Damping),
		RestLevel: float32(cfg.RestLevel),
		Wrap:      cfg.Wrap,
	}, pool)
}

// Alpha returns the Courant term (waveSpeed*dt/dx)^2.
func (wf *WaveField) Alpha() float32 { return wf.alpha }

// Params returns the solver parameters.
func (wf *WaveField) Params() WaveParams { return wf.params }

// Heights returns the current height buffer. Callers must not retain it
// across a Step.
func (wf *WaveField) Heights() []float32 { return wf.curr }

// Previous returns the previous-generation buffer.
func (wf *WaveField) Previous() []float32 { return wf.prev }

// At returns the current height of cell (x, y).
func (wf *WaveField) At(x, y int) float32 { return wf.curr[y*wf.W+x] }

// Fill resets both buffers to a constant height.
func (wf *WaveField) Fill(v float32) {
	for i := range wf.curr {
		wf.curr[i] = v
		wf.prev[i] = v
	}
}

// Step advances one generation:
//
//	next = rest + (clamp((2-4a)*c + a*(N+S+E+W) - p) - rest) * damping
//
// where the clamp keeps heights in [0,1]. Damping pulls toward the rest
// level, so a flat field filled away from rest drifts back to it.
func (wf *WaveField) Step() {
	w, h := wf.W, wf.H
	a := wf.alpha
	center := 2 - 4*a
	damp := wf.params.Damping
	rest := wf.params.RestLevel
	wrap := wf.params.Wrap
	cur := wf.curr
	out := wf.prev

	wf.pool.RunRows(h, w, func(start, end int) {
		for y := start; y < end; y++ {
			yN, yS := neighbourIndex(y-1, h, wrap), neighbourIndex(y+1, h, wrap)
			row := y * w
			for x := 0; x < w; x++ {
				xW, xE := neighbourIndex(x-1, w, wrap), neighbourIndex(x+1, w, wrap)
				i := row + x
				sum := cur[yN*w+x] + cur[yS*w+x] + cur[row+xE] + cur[row+xW]
				v := clamp01(center*cur[i] + a*sum - out[i])
				out[i] = rest + (v-rest)*damp
			}
		}
	})

	wf.prev, wf.curr = wf.curr, out
}

// neighbourIndex resolves an out-of-range index by wrapping or clamping.
func neighbourIndex(i, n int, wrap bool) int {
	if i >= 0 && i < n {
		return i
	}
	if wrap {
		return modInt(i, n)
	}
	if i < 0 {
		return 0
	}
	return n - 1
}

// Disturb adds radially weighted impulses to the current buffer. Only the
// first MaxDisturbances entries are applied. The footprint wraps with the
// boundary when the field is periodic. The previous buffer receives the same
// displacement so the ripple starts from rest instead of as a velocity kick.
func (wf *WaveField) Disturb(points []Disturbance) {
	if len(points) > MaxDisturbances {
		points = points[:MaxDisturbances]
	}
	for _, p := range points {
		r := p.Radius
		if r <= 0 {
			r = 1
		}
		cx := int(math.Round(float64(p.X)))
		cy := int(math.Round(float64(p.Y)))
		ir := int(math.Ceil(float64(r)))
		for dy := -ir; dy <= ir; dy++ {
			for dx := -ir; dx <= ir; dx++ {
				d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
				if d >= r {
					continue
				}
				x, y := cx+dx, cy+dy
				if wf.params.Wrap {
					x = modInt(x, wf.W)
					y = modInt(y, wf.H)
				} else if x < 0 || x >= wf.W || y < 0 || y >= wf.H {
					continue
				}
				i := y*wf.W + x
				// Cosine falloff: full power at the center, zero at the rim
				weight := 0.5 * (1 + float32(math.Cos(math.Pi*float64(d/r))))
				wf.curr[i] = clamp01(wf.curr[i] + p.Power*weight)
				wf.prev[i] = clamp01(wf.prev[i] + p.Power*weight)
			}
		}
	}
}

// AmbientDisturbances rolls the per-tick chance of random ripples and returns
// up to maxCenters impulses, or nil when the roll fails.
func AmbientDisturbances(rng *rand.Rand, w, h int, chance float64, maxCenters int, radius, power float32) []Disturbance {
	if rng.Float64() >= chance || maxCenters <= 0 {
		return nil
	}
	if maxCenters > MaxDisturbances {
		maxCenters = MaxDisturbances
	}
	n := 1 + rng.Intn(maxCenters)
	out := make([]Disturbance, n)
	for i := range out {
		sign := float32(1)
		if rng.Intn(2) == 0 {
			sign = -1
		}
		out[i] = Disturbance{
			X:      rng.Float32() * float32(w),
			Y:      rng.Float32() * float32(h),
			Radius: radius * (0.5 + rng.Float32()),
			Power:  sign * power * (0.5 + rng.Float32()*0.5),
		}
	}
	return out
}

// Peak returns the largest absolute deviation from the rest level.
func (wf *WaveField) Peak() float32 {
	var peak float32
	rest := wf.params.RestLevel
	for _, v := range wf.curr {
		d := v - rest
		if d < 0 {
			d = -d
		}
		if d > peak {
			peak = d
		}
	}
	return peak
}
