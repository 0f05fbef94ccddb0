package http

import (
	"strings"
)

// sanitizeInput removes control characters except tab, newline and carriage
// return. Whitespace is left alone.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
