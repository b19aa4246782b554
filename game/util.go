package game

import "github.com/pthm-cable/wishtree/curve"

// SetPointer records the pointer position in pixels within a w x h view.
func (g *Game) SetPointer(px, py, w, h float64) {
	g.pointer = Parallax(px, py, w, h)
}

// Parallax maps a pixel position to [-1,1] on both axes with y up.
func Parallax(px, py, w, h float64) [2]float64 {
	if w <= 0 || h <= 0 {
		return [2]float64{}
	}
	return [2]float64{
		curve.Clamp((px/w-0.5)*2, -1, 1),
		curve.Clamp((py/h-0.5)*-2, -1, 1),
	}
}
