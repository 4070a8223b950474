package memory

import (
	"strings"
	"unicode"
)

// TruncateRunes cuts s to at most max runes, backing off to the last
// whitespace when that does not throw away more than half the text.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	cut := runes[:max]
	if !unicode.IsSpace(runes[max]) {
		for i := len(cut) - 1; i > max/2; i-- {
			if unicode.IsSpace(cut[i]) {
				cut = cut[:i]
				break
			}
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace)
}

// TruncateWords keeps the first max words of s.
func TruncateWords(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ")
}
