package model

import "strings"

// GenreSeparator separates the values stored in the genre column.
const GenreSeparator = ","

// SplitGenres tokenizes a genre column value.  Tokens are trimmed and
// empty tokens are dropped, so "Action,, Drama " yields two tokens.
func SplitGenres(s string) []string {
	parts := strings.Split(s, GenreSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
