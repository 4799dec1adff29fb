package catalog

import "strings"

// minorWords are kept lowercase when they appear after the first word.
// The first word of a title is always capitalized.
var minorWords = map[string]bool{
	"to": true,
	"a":  true,
}

// Normalize maps raw user input to the canonical display name used for
// storage and every comparison: words are split on whitespace, the first
// word is capitalized unconditionally, later words are capitalized unless
// they are minor words, and everything is rejoined with single spaces.
//
//	Normalize("the matrix")          == "The Matrix"
//	Normalize("back to the future")  == "Back to The Future"
//
// Empty input yields "". Any divergence between callers here would break
// the uniqueness key, so this is the only place titles are cased.
func Normalize(raw string) string {
	words := strings.Fields(raw)
	for i, w := range words {
		lower := strings.ToLower(w)
		if i > 0 && minorWords[lower] {
			words[i] = lower
			continue
		}
		words[i] = capitalize(lower)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first byte of an already lowercased word.
func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
