// Package gesture turns asynchronous hand-tracking inference into the latest
// gesture category and a normalized hand direction.
package gesture

// Category is a recognized hand gesture.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryClosedFist
	CategoryOpenPalm
	CategoryPointingUp
	CategoryThumbDown
	CategoryThumbUp
	CategoryVictory
	CategoryILoveYou
	// CategoryUnknown is a detected hand whose label is not in the known set.
	CategoryUnknown
)

var categoryLabels = [...]string{
	CategoryNone:       "None",
	CategoryClosedFist: "Closed_Fist",
	CategoryOpenPalm:   "Open_Palm",
	CategoryPointingUp: "Pointing_Up",
	CategoryThumbDown:  "Thumb_Down",
	CategoryThumbUp:    "Thumb_Up",
	CategoryVictory:    "Victory",
	CategoryILoveYou:   "ILoveYou",
	CategoryUnknown:    "Unknown",
}

// String returns the recognizer label.
func (c Category) String() string {
	if int(c) < len(categoryLabels) {
		return categoryLabels[c]
	}
	return "Unknown"
}

// ParseCategory maps a recognizer label to a Category. The empty label is
// None; anything unrecognized is Unknown.
func ParseCategory(label string) Category {
	if label == "" {
		return CategoryNone
	}
	for i, l := range categoryLabels {
		if l == label && Category(i) != CategoryUnknown {
			return Category(i)
		}
	}
	return CategoryUnknown
}

// Detected reports whether a hand was seen.
func (c Category) Detected() bool {
	return c != CategoryNone
}
