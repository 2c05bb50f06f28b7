// Package ui draws the sandbox HUD, the overlay legend and the raygui
// control panel. It knows nothing about the simulations: callers pass plain
// data in and read requested changes back out.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds panel colours and metrics shared by every widget.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	BarFillHigh   rl.Color // bars past their warn level

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns a dark theme with sand-coloured headers, readable on a
// projector.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 18, G: 22, B: 28, A: 235},
		PanelBorder:    rl.Color{R: 70, G: 78, B: 90, A: 255},
		SectionHeader:  rl.Color{R: 230, G: 200, B: 140, A: 255},
		LabelColor:     rl.Color{R: 170, G: 178, B: 186, A: 255},
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 36, G: 40, B: 46, A: 255},
		BarFill:        rl.Color{R: 80, G: 160, B: 210, A: 255},
		BarFillHigh:    rl.Color{R: 220, G: 110, B: 60, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}
