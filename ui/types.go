// Package ui draws the wish prompt, camera controls and status HUD.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	NoticeColor    rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 10, G: 14, B: 24, A: 200},
		PanelBorder:    rl.Color{R: 146, G: 64, B: 14, A: 255},
		SectionHeader:  rl.Color{R: 255, G: 204, B: 51, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		NoticeColor:    rl.Color{R: 251, G: 191, B: 36, A: 255},
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 22, G: 163, B: 74, A: 255},
		BarFillHigh:    rl.Color{R: 255, G: 204, B: 51, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     80,
		BarHeight:      12,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}
