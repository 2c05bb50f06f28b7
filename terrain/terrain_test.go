package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sandbox/config"
)

func testBounds() Bounds {
	return Bounds{MeshStart: mgl32.Vec3{0, 0, 0}, MeshEnd: mgl32.Vec3{100, 50, 0}}
}

func TestBoundsContainsAndExpand(t *testing.T) {
	b := testBounds()

	if !b.Contains(mgl32.Vec3{50, 25, 999}) {
		t.Error("expected center point to be inside")
	}
	if b.Contains(mgl32.Vec3{-1, 25, 0}) {
		t.Error("expected x=-1 to be outside")
	}

	e := b.Expand(5)
	if !e.Contains(mgl32.Vec3{-4, 54, 0}) {
		t.Error("expected expanded bounds to include margin")
	}
	if e.Width() != 110 || e.Height() != 60 {
		t.Errorf("expected expanded extent 110x60, got %.0fx%.0f", e.Width(), e.Height())
	}
}

func TestNewGridRejectsMismatchedSize(t *testing.T) {
	if _, err := NewGrid(4, 4, make([]float32, 15), testBounds()); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid, got %v", err)
	}
}

func TestGridHeightIsInvertedDepth(t *testing.T) {
	// Depth grows with x: left edge is the highest terrain
	field := &Static{B: testBounds(), Fn: func(x, y float32) float32 { return 10 + x }}
	g, err := field.Sample(11, 6)
	if err != nil {
		t.Fatal(err)
	}

	if h := g.HeightAt(0, 0.5); math.Abs(float64(h-1)) > 1e-5 {
		t.Errorf("expected height 1 at shallow edge, got %f", h)
	}
	if h := g.HeightAt(1, 0.5); math.Abs(float64(h)) > 1e-5 {
		t.Errorf("expected height 0 at deep edge, got %f", h)
	}

	gx, gy := g.GradientUV(0.5, 0.5)
	if gx >= 0 {
		t.Errorf("expected uphill gradient to point toward -x, got %f", gx)
	}
	if gy != 0 {
		t.Errorf("expected zero y gradient, got %f", gy)
	}
}

func TestFlatGridHasNoGradient(t *testing.T) {
	g, err := Flat(testBounds(), 42).Sample(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if gx, gy := g.GradientUV(0.3, 0.7); gx != 0 || gy != 0 {
		t.Errorf("expected zero gradient on flat terrain, got (%f, %f)", gx, gy)
	}
	if h := g.HeightAt(0.5, 0.5); h != 0.5 {
		t.Errorf("expected neutral height 0.5 on flat terrain, got %f", h)
	}
}

func TestNoiseFieldSampleMatchesDepthAt(t *testing.T) {
	cfg := config.Default().Terrain
	f := NewNoiseField(cfg)

	g, err := f.Sample(cfg.GridWidth, cfg.GridHeight)
	if err != nil {
		t.Fatal(err)
	}

	// Corner samples land exactly on grid nodes
	want := f.DepthAt(f.Bounds().MeshStart)
	if got := g.At(0, 0); math.Abs(float64(got-want)) > 1e-4 {
		t.Errorf("expected corner depth %f, got %f", want, got)
	}
	if g.Max < g.Min {
		t.Errorf("expected ordered depth range, got [%f, %f]", g.Min, g.Max)
	}

	before := f.DepthAt(mgl32.Vec3{37, 91, 0})
	f.Advance(30)
	after := f.DepthAt(mgl32.Vec3{37, 91, 0})
	if before == after {
		t.Error("expected terrain to change after advancing time")
	}
}

func TestSnapshotFieldMatchesSource(t *testing.T) {
	b := testBounds()
	src := &Static{B: b, Fn: func(x, y float32) float32 { return 50 + 0.5*x + 0.25*y }}
	g, err := src.Sample(33, 33)
	if err != nil {
		t.Fatal(err)
	}
	snap := g.AsField()

	if snap.Bounds() != b {
		t.Errorf("expected snapshot bounds %v, got %v", b, snap.Bounds())
	}
	// A linear surface interpolates exactly
	p := mgl32.Vec3{b.MeshStart.X() + b.Width()*0.3, b.MeshStart.Y() + b.Height()*0.6, 0}
	want := src.DepthAt(p)
	if got := snap.DepthAt(p); math.Abs(float64(got-want)) > 1e-3 {
		t.Errorf("expected depth %f, got %f", want, got)
	}

	same, err := snap.Sample(33, 33)
	if err != nil || same != g {
		t.Error("expected same-size sample to return the snapshot itself")
	}
	coarse, err := snap.Sample(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(coarse.At(4, 4)-g.At(32, 32))) > 1e-3 {
		t.Errorf("expected matching far corner, got %f vs %f", coarse.At(4, 4), g.At(32, 32))
	}
}
