package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/sandbox/config"
)

// NoiseField is a synthetic sand surface built from simplex noise. It stands
// in for the depth sensor in headless runs and slowly reshapes itself over
// time so the simulations see a moving boundary.
type NoiseField struct {
	bounds    Bounds
	noise     opensimplex.Noise
	baseDepth float64
	relief    float64
	scale     float64
	time      float64
}

// NewNoiseField creates a synthetic terrain source from config.
func NewNoiseField(cfg config.TerrainConfig) *NoiseField {
	return &NoiseField{
		bounds: Bounds{
			MeshStart: mgl32.Vec3(cfg.MeshStart),
			MeshEnd:   mgl32.Vec3(cfg.MeshEnd),
		},
		noise:     opensimplex.New(cfg.Seed),
		baseDepth: cfg.BaseDepth,
		relief:    cfg.Relief,
		scale:     cfg.NoiseScale,
	}
}

// Advance moves the surface along the noise time axis, emulating hands
// reshaping the sand.
func (f *NoiseField) Advance(dt float64) {
	f.time += dt
}

// Bounds implements Field.
func (f *NoiseField) Bounds() Bounds { return f.bounds }

// DepthAt implements Field.
func (f *NoiseField) DepthAt(p mgl32.Vec3) float32 {
	return f.depth(float64(p.X()), float64(p.Y()))
}

// Sample implements Field.
func (f *NoiseField) Sample(w, h int) (*Grid, error) {
	if w < 2 || h < 2 {
		return nil, ErrInvalidGrid
	}
	depth := make([]float32, w*h)
	sx := float64(f.bounds.Width()) / float64(w-1)
	sy := float64(f.bounds.Height()) / float64(h-1)
	ox := float64(f.bounds.MeshStart.X())
	oy := float64(f.bounds.MeshStart.Y())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			depth[y*w+x] = f.depth(ox+float64(x)*sx, oy+float64(y)*sy)
		}
	}
	return NewGrid(w, h, depth, f.bounds)
}

func (f *NoiseField) depth(x, y float64) float32 {
	// Two octaves: broad dunes plus ridges
	n := f.noise.Eval3(x*f.scale, y*f.scale, f.time*0.05)
	n += 0.5 * f.noise.Eval3(x*f.scale*2.3+17, y*f.scale*2.3+31, f.time*0.05)
	n /= 1.5
	return float32(f.baseDepth - n*f.relief*0.5)
}

// Static is a terrain field backed by a fixed depth function.
type Static struct {
	B  Bounds
	Fn func(x, y float32) float32
}

// Flat returns a Static field with constant depth over bounds.
func Flat(bounds Bounds, depth float32) *Static {
	return &Static{B: bounds, Fn: func(x, y float32) float32 { return depth }}
}

// Bounds implements Field.
func (s *Static) Bounds() Bounds { return s.B }

// DepthAt implements Field.
func (s *Static) DepthAt(p mgl32.Vec3) float32 { return s.Fn(p.X(), p.Y()) }

// Sample implements Field.
func (s *Static) Sample(w, h int) (*Grid, error) {
	if w < 2 || h < 2 {
		return nil, ErrInvalidGrid
	}
	depth := make([]float32, w*h)
	sx := s.B.Width() / float32(w-1)
	sy := s.B.Height() / float32(h-1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			depth[y*w+x] = s.Fn(s.B.MeshStart.X()+float32(x)*sx, s.B.MeshStart.Y()+float32(y)*sy)
		}
	}
	return NewGrid(w, h, depth, s.B)
}
