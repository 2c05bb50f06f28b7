package telemetry

import (
	"math"
	"testing"
)

func TestHeightStats(t *testing.T) {
	tests := []struct {
		name     string
		heights  []float32
		rest     float64
		wantMean float64
		wantStd  float64
		wantPeak float64
	}{
		{"empty", nil, 0.5, 0, 0, 0},
		{"flat at rest", []float32{0.5, 0.5, 0.5, 0.5}, 0.5, 0.5, 0, 0},
		{"trough dominates", []float32{0.25, 0.5, 0.75, 0.1}, 0.5, 0.4, 0.2475, 0.4},
		{"crest dominates", []float32{0.5, 1.0}, 0.5, 0.75, 0.25, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, peak, _ := HeightStats(tt.heights, tt.rest, nil)
			if math.Abs(mean-tt.wantMean) > 1e-3 {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
			if math.Abs(std-tt.wantStd) > 1e-3 {
				t.Errorf("std = %v, want %v", std, tt.wantStd)
			}
			if math.Abs(peak-tt.wantPeak) > 1e-6 {
				t.Errorf("peak = %v, want %v", peak, tt.wantPeak)
			}
		})
	}
}

func TestHeightStatsReusesScratch(t *testing.T) {
	scratch := make([]float64, 0, 16)
	_, _, _, buf := HeightStats([]float32{0.1, 0.2, 0.3}, 0.5, scratch)
	if len(buf) != 3 {
		t.Fatalf("expected 3 converted samples, got %d", len(buf))
	}
	if &buf[0] != &scratch[:1][0] {
		t.Error("expected scratch buffer to be reused")
	}
}

func TestSpeedStats(t *testing.T) {
	speeds := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, p90 := SpeedStats(speeds)

	if math.Abs(mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if p90 != 9 {
		t.Errorf("p90 = %v, want 9", p90)
	}
	if speeds[0] != 1 {
		t.Error("expected speeds sorted in place")
	}
}

func TestSpeedStatsEmpty(t *testing.T) {
	mean, p90 := SpeedStats(nil)
	if mean != 0 || p90 != 0 {
		t.Errorf("expected zeros for empty input, got mean=%v p90=%v", mean, p90)
	}
}

func TestBurntFraction(t *testing.T) {
	if got := BurntFraction(25, 100); got != 0.25 {
		t.Errorf("BurntFraction(25, 100) = %v, want 0.25", got)
	}
	if got := BurntFraction(5, 0); got != 0 {
		t.Errorf("BurntFraction on empty grid = %v, want 0", got)
	}
}
