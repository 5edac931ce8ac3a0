package placeholder

import "strings"

// MarkerPrefix starts every bind marker left in a rewritten statement.
const MarkerPrefix = "#"

// Marker returns the bind marker for a parameter name.
func Marker(name string) string {
	return MarkerPrefix + name
}

// Rewrite replaces every literal occurrence of m.Text in text with the marker
// for m.Name, not only the occurrence at m.Start. It returns the new text and
// the offsets, in the new text, at which markers were written.
func Rewrite(text string, m Match) (string, []int) {
	marker := Marker(m.Name)
	n := strings.Count(text, m.Text)
	if n == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text) - n*(len(m.Text)-len(marker)))
	at := make([]int, 0, n)
	rest := text
	for {
		i := strings.Index(rest, m.Text)
		if i < 0 {
			break
		}
		b.WriteString(rest[:i])
		at = append(at, b.Len())
		b.WriteString(marker)
		rest = rest[i+len(m.Text):]
	}
	b.WriteString(rest)
	return b.String(), at
}
