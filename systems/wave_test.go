package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/sandbox/config"
)

func newTestWaveField(t testing.TB, wrap bool) *WaveField {
	t.Helper()
	cfg := config.Cfg()
	wc := cfg.Water
	wc.Wrap = wrap
	wf, err := NewWaveFieldFromConfig(wc, cfg.Derived.DT32, nil)
	if err != nil {
		t.Fatalf("creating wave field: %v", err)
	}
	return wf
}

func TestWaveFieldRejectsTinyGrid(t *testing.T) {
	if _, err := NewWaveField(2, 256, WaveParams{DT: 1.0 / 60, DX: 1, WaveSpeed: 20, Damping: 0.999}, nil); err == nil {
		t.Error("expected error for 2-wide grid")
	}
}

func TestWaveAlpha(t *testing.T) {
	wf := newTestWaveField(t, true)
	// (20 * 1/60 / 1)^2
	want := float32(1.0 / 9.0)
	if math.Abs(float64(wf.Alpha()-want)) > 1e-5 {
		t.Errorf("expected alpha %f, got %f", want, wf.Alpha())
	}
}

func TestWaveFlatFieldIsSteady(t *testing.T) {
	wf := newTestWaveField(t, true)
	damping := wf.Params().Damping
	rest := wf.Params().RestLevel

	for _, v := range []float32{0.5, 0.3, 0.8} {
		wf.Fill(v)
		wf.Step()

		first := wf.Heights()[0]
		for i, h := range wf.Heights() {
			if h != first {
				t.Fatalf("fill %.2f: cell %d = %f differs from %f", v, i, h, first)
			}
		}
		// Only damping toward rest may move a flat surface
		tol := float64(abs32(v-rest)*(1-damping)) + 1e-5
		if math.Abs(float64(first-v)) > tol {
			t.Errorf("fill %.2f: expected %f within %g, got %f", v, v, tol, first)
		}
	}
}

func TestWaveFlatFieldDriftsToRest(t *testing.T) {
	wf := newTestWaveField(t, true)
	rest := wf.Params().RestLevel
	if wf.Params().Damping >= 1 {
		t.Skip("undamped field does not drift")
	}

	wf.Fill(rest + 0.3)
	start := abs32(wf.Heights()[0] - rest)
	for i := 0; i < 1000; i++ {
		wf.Step()
	}
	if got := abs32(wf.Heights()[0] - rest); got >= start {
		t.Errorf("expected flat surface to approach rest %.2f, offset %f -> %f", rest, start, got)
	}
}

func TestWaveWrapsAcrossEdges(t *testing.T) {
	wf := newTestWaveField(t, true)
	rest := wf.Params().RestLevel
	row := wf.H / 2

	wf.Disturb([]Disturbance{{X: 0, Y: float32(row), Radius: 1, Power: 0.25}})
	if got := wf.At(wf.W-1, row); got != rest {
		t.Fatalf("radius-1 disturbance leaked to last column before stepping: %f", got)
	}
	wf.Step()
	if got := wf.At(wf.W-1, row); math.Abs(float64(got-rest)) < 1e-4 {
		t.Errorf("expected column %d to feel column 0 after one step, got %f", wf.W-1, got)
	}

	wf.Fill(rest)
	wf.Disturb([]Disturbance{{X: float32(wf.W - 1), Y: float32(row), Radius: 1, Power: 0.25}})
	wf.Step()
	if got := wf.At(0, row); math.Abs(float64(got-rest)) < 1e-4 {
		t.Errorf("expected column 0 to feel column %d after one step, got %f", wf.W-1, got)
	}
}

func TestWaveClampedBoundaryDoesNotWrap(t *testing.T) {
	wf := newTestWaveField(t, false)
	rest := wf.Params().RestLevel
	row := wf.H / 2

	wf.Disturb([]Disturbance{{X: 0, Y: float32(row), Radius: 1, Power: 0.25}})
	wf.Step()
	if got := wf.At(wf.W-1, row); math.Abs(float64(got-rest)) > 1e-6 {
		t.Errorf("expected no wrap-around without periodic boundary, got %f", got)
	}
}

func TestWaveDisturbCapsCenters(t *testing.T) {
	wf := newTestWaveField(t, true)
	rest := wf.Params().RestLevel

	points := make([]Disturbance, 6)
	for i := range points {
		points[i] = Disturbance{X: float32(20 + i*30), Y: 20, Radius: 3, Power: 0.1}
	}
	wf.Disturb(points)

	for i, p := range points {
		moved := wf.At(int(p.X), int(p.Y)) != rest
		if i < MaxDisturbances && !moved {
			t.Errorf("center %d should have been disturbed", i)
		}
		if i >= MaxDisturbances && moved {
			t.Errorf("center %d beyond the cap should be ignored", i)
		}
	}
}

func TestWaveRippleDecays(t *testing.T) {
	wf := newTestWaveField(t, true)
	wf.Disturb([]Disturbance{{X: 128, Y: 128, Radius: 10, Power: 0.25}})

	initial := wf.Peak()
	if math.Abs(float64(initial-0.25)) > 1e-4 {
		t.Fatalf("expected initial peak 0.25, got %f", initial)
	}

	peaks := make([]float32, 0, 60)
	for i := 0; i < 60; i++ {
		wf.Step()
		peaks = append(peaks, wf.Peak())
	}

	for i, p := range peaks {
		if p > initial+1e-4 {
			t.Fatalf("tick %d: peak %f grew beyond the initial %f", i, p, initial)
		}
	}

	// Once the ring has left the bump and the center has rebounded, the
	// peak falls tick over tick
	for i := 31; i < len(peaks); i++ {
		if peaks[i] > peaks[i-1]+1e-5 {
			t.Errorf("tick %d: peak rose from %f to %f", i, peaks[i-1], peaks[i])
		}
	}

	early := maxOf(peaks[:20])
	late := maxOf(peaks[40:])
	if late >= early {
		t.Errorf("expected peak to decay, early window %f late window %f", early, late)
	}
	if peaks[len(peaks)-1] >= initial {
		t.Errorf("expected final peak below initial, got %f", peaks[len(peaks)-1])
	}
}

func TestAmbientDisturbances(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	if got := AmbientDisturbances(rng, 256, 256, 0, 4, 6, 0.05); got != nil {
		t.Errorf("expected no disturbances at zero chance, got %d", len(got))
	}

	fired := 0
	for i := 0; i < 600; i++ {
		d := AmbientDisturbances(rng, 256, 256, 2.0/60.0, 4, 6, 0.05)
		if d == nil {
			continue
		}
		fired++
		if len(d) > MaxDisturbances {
			t.Fatalf("expected at most %d centers, got %d", MaxDisturbances, len(d))
		}
		for _, p := range d {
			if p.X < 0 || p.X >= 256 || p.Y < 0 || p.Y >= 256 {
				t.Fatalf("disturbance outside grid: %+v", p)
			}
		}
	}
	// Expect about 20 firings over 600 ticks
	if fired < 5 || fired > 60 {
		t.Errorf("ambient firing count %d implausible for 2/60 chance", fired)
	}
}

func maxOf(v []float32) float32 {
	var m float32
	for _, x := range v {
		if x > m {
			m = x
		}
	}
	return m
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func BenchmarkWaveStep(b *testing.B) {
	pool := NewWorkerPool()
	defer pool.Stop()
	wf := newTestWaveField(b, true)
	wf.pool = pool
	wf.Disturb([]Disturbance{{X: 128, Y: 128, Radius: 10, Power: 0.25}})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wf.Step()
	}
}
