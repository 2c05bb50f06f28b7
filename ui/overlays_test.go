package ui

import (
	"slices"
	"testing"
)

func TestOverlayRegistryDefaults(t *testing.T) {
	r := NewOverlayRegistry()
	for _, id := range []OverlayID{OverlayTerrain, OverlayFire, OverlayControls} {
		if !r.IsEnabled(id) {
			t.Errorf("expected %s enabled by default", id)
		}
	}
	for _, id := range []OverlayID{OverlayWater, OverlayWind, OverlayPerf} {
		if r.IsEnabled(id) {
			t.Errorf("expected %s disabled by default", id)
		}
	}
	if got := r.Categories(); !slices.Equal(got, []string{"layers", "panels"}) {
		t.Errorf("Categories() = %v", got)
	}
	if n := len(r.ByCategory("layers")); n != 6 {
		t.Errorf("expected 6 layers, got %d", n)
	}
}

func TestOverlayRegistryFireWaterExclusive(t *testing.T) {
	r := NewOverlayRegistry()

	if !r.Toggle(OverlayWater) {
		t.Fatal("expected water enabled after toggle")
	}
	if r.IsEnabled(OverlayFire) {
		t.Error("enabling water should hide fire")
	}

	r.SetEnabled(OverlayFire, true)
	if r.IsEnabled(OverlayWater) {
		t.Error("enabling fire should hide water")
	}

	// Disabling never re-enables the partner.
	r.SetEnabled(OverlayFire, false)
	if r.IsEnabled(OverlayWater) || r.IsEnabled(OverlayFire) {
		t.Error("expected both grid layers off")
	}
}

func TestOverlayRegistryUnknownID(t *testing.T) {
	r := NewOverlayRegistry()
	r.SetEnabled("missing", true)
	if r.IsEnabled("missing") {
		t.Error("unknown overlay should not be enabled")
	}
}
