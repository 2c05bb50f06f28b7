package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayTerrain  OverlayID = "terrain"
	OverlayContours OverlayID = "contours"
	OverlayFire     OverlayID = "fire"
	OverlayWater    OverlayID = "water"
	OverlayDroplets OverlayID = "droplets"
	OverlayWind     OverlayID = "wind"
	OverlayControls OverlayID = "controls"
	OverlayPerf     OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID   // Unique identifier
	Name      string      // Display name
	Key       int32       // Keyboard key to toggle (0 = no key)
	KeyLabel  string      // Key label for display (e.g., "S", "V")
	Category  string      // Grouping (e.g., "layers", "panels")
	Exclusive []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with the sandbox layers. Terrain,
// fire and the control panel start enabled.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.SetEnabled(OverlayTerrain, true)
	reg.SetEnabled(OverlayFire, true)
	reg.SetEnabled(OverlayControls, true)
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	// The fire and water layers are opaque grids covering the footprint
	r.Register(OverlayDescriptor{ID: OverlayTerrain, Name: "Terrain", Key: rl.KeyT, KeyLabel: "T", Category: "layers"})
	r.Register(OverlayDescriptor{ID: OverlayContours, Name: "Contours", Key: rl.KeyL, KeyLabel: "L", Category: "layers"})
	r.Register(OverlayDescriptor{
		ID: OverlayFire, Name: "Fire", Key: rl.KeyOne, KeyLabel: "1", Category: "layers",
		Exclusive: []OverlayID{OverlayWater},
	})
	r.Register(OverlayDescriptor{
		ID: OverlayWater, Name: "Water", Key: rl.KeyTwo, KeyLabel: "2", Category: "layers",
		Exclusive: []OverlayID{OverlayFire},
	})
	r.Register(OverlayDescriptor{ID: OverlayDroplets, Name: "Droplets", Key: rl.KeyThree, KeyLabel: "3", Category: "layers"})
	r.Register(OverlayDescriptor{ID: OverlayWind, Name: "Wind", Key: rl.KeyFour, KeyLabel: "4", Category: "layers"})

	r.Register(OverlayDescriptor{ID: OverlayControls, Name: "Controls", Key: rl.KeyTab, KeyLabel: "Tab", Category: "panels"})
	r.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Performance", Key: rl.KeyF3, KeyLabel: "F3", Category: "panels"})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
