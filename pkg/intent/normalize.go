package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text before comparison: NFKC, lower case,
// letters/digits/whitespace only, single spaces, trimmed. It is total;
// invalid UTF-8 decodes to U+FFFD which is not a letter and is dropped.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	folded := strings.ToLower(norm.NFKC.String(text))

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}

	// Dropping punctuation can leave composable neighbours (Hangul jamo),
	// so compose once more to keep Normalize idempotent.
	return norm.NFKC.String(b.String())
}

// Levenshtein returns the unit-cost edit distance between a and b,
// counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Single row of the matrix, sized by the shorter string.
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	previous := make([]int, len(ra)+1)
	current := make([]int, len(ra)+1)
	for i := range previous {
		previous[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		current[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			current[i] = min(previous[i]+1, current[i-1]+1, previous[i-1]+cost)
		}
		previous, current = current, previous
	}

	return previous[len(ra)]
}

// Similarity is 1 - distance/max(len(a), len(b), 1). Two empty strings
// are identical and score 1.
func Similarity(a, b string) float64 {
	longest := max(runeLen(a), runeLen(b), 1)
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

func runeLen(s string) int {
	return len([]rune(s))
}
