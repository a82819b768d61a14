package document

import (
	"strings"
	"unicode"
)

// excerptLimit is the target excerpt length in runes.
const excerptLimit = 200

// Excerpt builds a short preview from the concatenated page texts: at most
// ~200 characters, cut at a word boundary, with an ellipsis when truncated.
func Excerpt(pageTexts []string) string {
	joined := strings.Join(pageTexts, " ")
	joined = strings.Join(strings.Fields(joined), " ")
	if joined == "" {
		return ""
	}

	runes := []rune(joined)
	if len(runes) <= excerptLimit {
		return joined
	}

	cut := excerptLimit
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		// A single token longer than the limit: hard cut.
		cut = excerptLimit
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…"
}
