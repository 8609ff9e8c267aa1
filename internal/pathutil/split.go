package pathutil

import "strings"

// SplitList splits a pasted or dropped list of paths. Paths are separated
// by whitespace; a path containing spaces can be wrapped in braces, the way
// Tk drag and drop delivers it, or in double quotes.
func SplitList(data string) []string {
	var (
		parts  []string
		cur    strings.Builder
		closer rune
	)
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}

	for _, ch := range data {
		switch {
		case closer != 0 && ch == closer:
			closer = 0
			flush()
		case closer != 0:
			cur.WriteRune(ch)
		case ch == '{':
			flush()
			closer = '}'
		case ch == '"':
			flush()
			closer = '"'
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			flush()
		default:
			cur.WriteRune(ch)
		}
	}
	flush()
	return parts
}
