// Wish star preview tool - interactive shape tuning with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"math/rand"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wishtree/config"
	"github.com/pthm-cable/wishtree/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

// slider is one tunable shape parameter.
type slider struct {
	label    string
	value    *float64
	min, max float32
	format   string
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	palette, err := systems.NewPalette(cfg.Wish.Palette)
	if err != nil {
		panic(err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Wish Star Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defaults := cfg.Wish
	wish := cfg.Wish
	arms := float64(wish.Arms)
	seed := int64(1)

	sliders := []slider{
		{"Arms", &arms, 3, 12, "%.0f"},
		{"Core ratio", &wish.CoreRatio, 0, 1, "%.2f"},
		{"Core radius", &wish.CoreRadius, 0.05, 1, "%.2f"},
		{"Outer radius", &wish.OuterRadius, 0.1, 2, "%.2f"},
		{"Depth", &wish.Depth, 0, 1, "%.2f"},
	}

	var buf *systems.ParticleBuffer
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			wish.Arms = int(arms + 0.5)
			star := systems.StarPolygon{
				Arms:        wish.Arms,
				CoreRatio:   wish.CoreRatio,
				CoreRadius:  wish.CoreRadius,
				OuterRadius: wish.OuterRadius,
				Depth:       wish.Depth,
			}
			buf = systems.Generate(wish.Count, star, palette, systems.NewRange(wish.Size), rand.New(rand.NewSource(seed)))
			needsRegen = false
		}

		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlSnippet(wish))
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 2, G: 4, B: 10, A: 255})

		drawPreview(buf, wish.OuterRadius)

		panelX := float32(previewSize + 20)
		panelY := float32(20)
		rl.DrawText("Wish Star", int32(panelX), int32(panelY), 20, rl.RayWhite)
		panelY += 40

		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				float32(*s.value), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.LightGray)
			if float64(v) != *s.value {
				*s.value = float64(v)
				needsRegen = true
			}
			panelY += 35
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reseed") {
			seed++
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			wish = defaults
			arms = float64(wish.Arms)
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.LightGray)
		panelY += 25
		for _, line := range strings.Split(yamlSnippet(wish), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.DarkGray)
		rl.EndDrawing()
	}
}

// drawPreview plots the XY projection of buf, scaled so the outer radius fits.
func drawPreview(buf *systems.ParticleBuffer, extent float64) {
	rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
	if extent <= 0 {
		return
	}
	scale := float32(previewSize/2-20) / float32(extent)
	cx, cy := float32(10+previewSize/2), float32(10+previewSize/2)

	for i := 0; i < buf.Len(); i++ {
		x, y, _ := buf.Position(i)
		r, g, b := buf.Color(i)
		c := rl.Color{R: uint8(min(r, 1) * 255), G: uint8(min(g, 1) * 255), B: uint8(min(b, 1) * 255), A: 220}
		size := buf.Sizes[i] * scale * 0.05
		if size < 1 {
			size = 1
		}
		rl.DrawCircleV(rl.Vector2{X: cx + x*scale, Y: cy - y*scale}, size, c)
	}
}

func yamlSnippet(w config.WishConfig) string {
	return strings.Join([]string{
		"wish:",
		fmt.Sprintf("  arms: %d", w.Arms),
		fmt.Sprintf("  core_ratio: %.2f", w.CoreRatio),
		fmt.Sprintf("  core_radius: %.2f", w.CoreRadius),
		fmt.Sprintf("  outer_radius: %.2f", w.OuterRadius),
		fmt.Sprintf("  depth: %.2f", w.Depth),
	}, "\n")
}
