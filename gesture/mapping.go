package gesture

// MapResult folds a recognizer result into the previous sample. With no
// gestures the category is None and the direction is kept so tracking
// dropouts don't snap the scene back to center.
func MapResult(prev Sample, res Result) Sample {
	out := Sample{Category: CategoryNone, Direction: prev.Direction}
	if len(res.Gestures) == 0 || len(res.Gestures[0]) == 0 {
		return out
	}
	// A hand with the "None" label still updates the direction
	out.Category = ParseCategory(res.Gestures[0][0].CategoryName)

	if len(res.Landmarks) > 0 && len(res.Landmarks[0]) > 0 {
		lm := res.Landmarks[0][0]
		// Image y grows downward; scene y grows upward
		out.Direction = [2]float64{
			clampUnit((lm.X - 0.5) * 2),
			clampUnit((lm.Y - 0.5) * -2),
		}
	}
	return out
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
