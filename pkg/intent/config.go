package intent

import (
	"fmt"
	"strings"
)

// Config holds the fuzzy thresholds. The defaults were tuned by hand
// against real chat input; treat them as knobs, not derived values.
type Config struct {
	// SimilarityThreshold is the minimum Similarity for a fuzzy hit.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarityThreshold"`

	// ShortPhraseMaxLen and ShortPhraseMaxDistance rescue short inputs
	// where the ratio is too strict ("tiket" vs "ticket").
	ShortPhraseMaxLen      int `json:"short_phrase_max_len" yaml:"shortPhraseMaxLen"`
	ShortPhraseMaxDistance int `json:"short_phrase_max_distance" yaml:"shortPhraseMaxDistance"`
}

const (
	DefaultSimilarityThreshold    = 0.78
	DefaultShortPhraseMaxLen      = 8
	DefaultShortPhraseMaxDistance = 2
)

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:    DefaultSimilarityThreshold,
		ShortPhraseMaxLen:      DefaultShortPhraseMaxLen,
		ShortPhraseMaxDistance: DefaultShortPhraseMaxDistance,
	}
}

func (c Config) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold %v outside [0,1]", c.SimilarityThreshold)
	}
	if c.ShortPhraseMaxLen < 0 {
		return fmt.Errorf("short phrase max len must not be negative, got %d", c.ShortPhraseMaxLen)
	}
	if c.ShortPhraseMaxDistance < 0 {
		return fmt.Errorf("short phrase max distance must not be negative, got %d", c.ShortPhraseMaxDistance)
	}
	return nil
}

// FuzzyMatchesPhrase normalizes both sides and compares them.
func (c Config) FuzzyMatchesPhrase(input, phrase string) bool {
	return c.matchNormalized(Normalize(input), Normalize(phrase))
}

// FuzzyMatchesPhrase uses DefaultConfig.
func FuzzyMatchesPhrase(input, phrase string) bool {
	return DefaultConfig().FuzzyMatchesPhrase(input, phrase)
}

// matchNormalized expects both arguments already normalized. An empty
// side never matches: strings.Contains treats "" as a substring of
// everything, which would turn blank input into the first action.
func (c Config) matchNormalized(input, phrase string) bool {
	if input == "" || phrase == "" {
		return false
	}
	if strings.Contains(input, phrase) || strings.Contains(phrase, input) {
		return true
	}

	distance := Levenshtein(input, phrase)
	li, lp := runeLen(input), runeLen(phrase)
	if 1-float64(distance)/float64(max(li, lp, 1)) >= c.SimilarityThreshold {
		return true
	}
	return li <= c.ShortPhraseMaxLen && lp <= c.ShortPhraseMaxLen && distance <= c.ShortPhraseMaxDistance
}
