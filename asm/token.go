package asm

import "strings"

// tokenize normalizes and splits one source line per spec.md §4.2:
// commas become spaces, `[`, `]`, `+` become their own spaced tokens,
// identifiers are case-insensitive, and `;` or `//` start a
// to-end-of-line comment.
func tokenize(line string) []string {
	if i := strings.Index(line, ";"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}

	line = strings.ToLower(line)

	var b strings.Builder
	for _, r := range line {
		switch r {
		case ',':
			b.WriteByte(' ')
		case '[', ']', '+':
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	return strings.Fields(b.String())
}
