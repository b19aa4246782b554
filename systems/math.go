package systems

import "math"

// sin32 and cos32 avoid float64 conversions at every call site in hot loops.
func sin32(x float64) float32 {
	return float32(math.Sin(x))
}

func cos32(x float64) float32 {
	return float32(math.Cos(x))
}
