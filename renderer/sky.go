package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed shaders/sky.fs
var skyShader string

// SkyRenderer draws a full-screen night gradient behind the scene.
type SkyRenderer struct {
	shader        rl.Shader
	timeLoc       int32
	resolutionLoc int32
	baseColorLoc  int32

	screenW, screenH float32
	baseColor        [3]float32
	initialized      bool
}

// NewSkyRenderer creates a new sky renderer.
func NewSkyRenderer(screenW, screenH int32, base rl.Color) *SkyRenderer {
	return &SkyRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
		baseColor: [3]float32{
			float32(base.R) / 255.0,
			float32(base.G) / 255.0,
			float32(base.B) / 255.0,
		},
	}
}

// Init loads the shader (must be called after raylib window is created).
func (s *SkyRenderer) Init() {
	if s.initialized {
		return
	}

	s.shader = rl.LoadShaderFromMemory("", skyShader)
	s.timeLoc = rl.GetShaderLocation(s.shader, "time")
	s.resolutionLoc = rl.GetShaderLocation(s.shader, "resolution")
	s.baseColorLoc = rl.GetShaderLocation(s.shader, "baseColor")

	rl.SetShaderValue(s.shader, s.resolutionLoc, []float32{s.screenW, s.screenH}, rl.ShaderUniformVec2)
	rl.SetShaderValue(s.shader, s.baseColorLoc, s.baseColor[:], rl.ShaderUniformVec3)

	s.initialized = true
}

// Resize updates the resolution uniform.
func (s *SkyRenderer) Resize(w, h int32) {
	s.screenW, s.screenH = float32(w), float32(h)
	if s.initialized {
		rl.SetShaderValue(s.shader, s.resolutionLoc, []float32{s.screenW, s.screenH}, rl.ShaderUniformVec2)
	}
}

// Draw renders the gradient.
func (s *SkyRenderer) Draw(time float32) {
	if !s.initialized {
		s.Init()
	}

	rl.SetShaderValue(s.shader, s.timeLoc, []float32{time}, rl.ShaderUniformFloat)

	rl.BeginShaderMode(s.shader)
	rl.DrawRectangle(0, 0, int32(s.screenW), int32(s.screenH), rl.White)
	rl.EndShaderMode()
}

// Unload frees resources.
func (s *SkyRenderer) Unload() {
	if s.initialized {
		rl.UnloadShader(s.shader)
		s.initialized = false
	}
}
