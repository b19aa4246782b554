package gesture

import "sync"

// VirtualHand is a Recognizer driven by the frame loop instead of a model.
// The graphical build feeds it the pointer position and held keys.
type VirtualHand struct {
	mu       sync.Mutex
	category Category
	x, y     float64
}

// Set updates the pose. x and y are normalized image coordinates.
func (v *VirtualHand) Set(c Category, x, y float64) {
	v.mu.Lock()
	v.category = c
	v.x, v.y = x, y
	v.mu.Unlock()
}

// Recognize reports the current pose as one hand, or no hands for None.
func (v *VirtualHand) Recognize(_ Frame, _ int64) (Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.category == CategoryNone {
		return Result{}, nil
	}
	return handResult(v.category.String(), v.x, v.y), nil
}
