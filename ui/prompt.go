package ui

import (
	"strings"
	"unicode/utf8"
)

// Prompt holds the wish text box state.
type Prompt struct {
	Text    string
	Editing bool
	MaxLen  int // in runes; 0 = unlimited
}

// Clip trims Text to MaxLen runes.
func (p *Prompt) Clip() {
	if p.MaxLen > 0 && utf8.RuneCountInString(p.Text) > p.MaxLen {
		p.Text = string([]rune(p.Text)[:p.MaxLen])
	}
}

// Submit returns the trimmed text and clears the box. Blank text is not
// submitted and is left in place.
func (p *Prompt) Submit() (string, bool) {
	p.Clip()
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return "", false
	}
	p.Text = ""
	return text, true
}
