package device

import "strings"

// tubeGlyphs is the preferred digit for each letter when text is shown on
// numeric tubes.
var tubeGlyphs = map[rune]byte{
	'A': '4', 'B': '8', 'C': '6', 'D': '2', 'E': '3', 'F': '4', 'G': '6',
	'H': '8', 'I': '1', 'J': '3', 'K': '8', 'L': '1', 'M': '0', 'N': '0',
	'O': '0', 'P': '9', 'Q': '2', 'R': '2', 'S': '5', 'T': '7', 'U': '0',
	'V': '0', 'W': '3', 'X': '8', 'Y': '9', 'Z': '2',
}

// TubeText rewrites letters into the digits a numeric tube can show. Digits
// and separators pass through; anything else becomes a blank.
func TubeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToUpper(text) {
		switch {
		case r >= '0' && r <= '9', r == ' ', r == '.', r == ':', r == ';':
			b.WriteRune(r)
		default:
			if g, ok := tubeGlyphs[r]; ok {
				b.WriteByte(g)
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// Fit pads or truncates text to width characters.
func Fit(text string, width int) string {
	if len(text) >= width {
		return text[:width]
	}
	return text + strings.Repeat(" ", width-len(text))
}
