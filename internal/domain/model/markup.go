package model

import "strings"

// StripMarkup removes in-game colour and link markup from display text:
// |cRRGGBB starts a colour, |r resets it, |L...|l wraps a link and
// |t...|t wraps a texture. Everything else is kept verbatim.
func StripMarkup(text string) string {
	if !strings.Contains(text, "|") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '|' {
			b.WriteRune(rs[i])
			continue
		}
		if i+1 >= len(rs) {
			break
		}
		switch rs[i+1] {
		case 'c':
			i += 1 + 6
		case 'r':
			i++
		case 'L':
			i = skipUntil(rs, i+2, 'l')
		case 't':
			i = skipUntil(rs, i+2, 't')
		default:
			i++
		}
	}
	return b.String()
}

// skipUntil returns the index of the closing marker letter of a "|x" pair
// starting the search at from, or the last index when it never closes.
func skipUntil(rs []rune, from int, marker rune) int {
	for j := from; j < len(rs)-1; j++ {
		if rs[j] == '|' && rs[j+1] == marker {
			return j + 1
		}
	}
	return len(rs) - 1
}
