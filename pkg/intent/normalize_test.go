package intent

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"punctuation only", "!!! ... ???", ""},
		{"case and spacing", "  Start   WORK!! ", "start work"},
		{"italian punctuation", "Inizia, lavoro.", "inizia lavoro"},
		{"accents kept", "È già l'ora", "è già lora"},
		{"fullwidth", "ＳＴＡＲＴ ｗｏｒｋ", "start work"},
		{"ligature", "ﬁne turno", "fine turno"},
		{"tabs and newlines", "tab\tand\nnewline", "tab and newline"},
		{"digits", "Printer on 2nd floor", "printer on 2nd floor"},
		{"invalid utf8", "\xff\xfe", ""},
		{"invalid utf8 inside", "clock\xffin", "clockin"},
		{"hyphenated", "Clock-In!", "clockin"},
		{"emoji", "ticket 🎫 please", "ticket please"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

// sample draws from an alphabet that mixes casing, compatibility forms,
// combining marks, Hangul jamo and odd whitespace.
type sample string

var sampleAlphabet = []rune("aAzZ09 \t\n.,!?-'èÈàÀçÇßﬁＡｂ１²½№™가가€😀́  ")

func (sample) Generate(r *rand.Rand, size int) reflect.Value {
	n := r.Intn(size + 1)
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = sampleAlphabet[r.Intn(len(sampleAlphabet))]
	}
	return reflect.ValueOf(sample(runes))
}

func TestNormalizeIdempotent(t *testing.T) {
	fixed := []string{
		"", "Start Work", "ᄀ.ᅡ", "e.́", "½ № ™", "ＴＩＣＫＥＴ: ｓｔａｍｐａｎｔｅ",
		"\xff\xfeabc", "  multiple   spaces here ",
	}
	for _, s := range fixed {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}

	property := func(s sample) bool {
		once := Normalize(string(s))
		return Normalize(once) == once
	}
	if err := quick.Check(property, &quick.Config{MaxCount: 2000}); err != nil {
		t.Error(err)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"tiket", "ticket", 1},
		{"strt wrk", "start work", 2},
		{"è", "e", 1},
		{"segnalazione", "segnalazioni", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("clock in", "clock in"))
	assert.Equal(t, 0.0, Similarity("", "ticket"))
	assert.InDelta(t, 0.8, Similarity("strt wrk", "start work"), 1e-9)
}

func TestSimilarityBoundsAndSymmetry(t *testing.T) {
	words := []string{"", "a", "start work", "strt wrk", "ticket", "tickets", "inizia lavoro", "è già", "xyz123", "🎫"}
	for _, a := range words {
		assert.Equal(t, 1.0, Similarity(a, a), "identity for %q", a)
		for _, b := range words {
			s := Similarity(a, b)
			assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", a, b)
			assert.LessOrEqual(t, s, 1.0, "%q vs %q", a, b)
			assert.Equal(t, s, Similarity(b, a), "symmetry %q vs %q", a, b)
		}
	}

	property := func(a, b sample) bool {
		s := Similarity(string(a), string(b))
		return s >= 0 && s <= 1 && s == Similarity(string(b), string(a))
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestFuzzyMatchesPhrase(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		phrase string
		want   bool
	}{
		{"input inside phrase", "clock", "clock in", true},
		{"phrase inside input", "please clock in now", "clock in", true},
		{"normalization first", "CLOCK-IN", "clock in", true},
		{"ratio", "tiket", "ticket", true},
		{"short rescue only", "tckt", "ticket", true},
		{"ratio boundary", "strt wrk", "start work", true},
		{"unrelated", "xyz123", "ticket", false},
		{"empty input", "", "ticket", false},
		{"empty phrase", "ticket", "", false},
		{"both empty", "", "", false},
		{"punctuation input", "?!", "ticket", false},
		{"opposite shift", "clock out", "clock in", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FuzzyMatchesPhrase(tt.input, tt.phrase))
		})
	}
}

func TestFuzzyMatchesPhraseSubstringShortcut(t *testing.T) {
	// A strict config still accepts substrings either way.
	strict := Config{SimilarityThreshold: 1, ShortPhraseMaxLen: 0, ShortPhraseMaxDistance: 0}
	assert.True(t, strict.FuzzyMatchesPhrase("my tickets", "show my tickets please"))
	assert.True(t, strict.FuzzyMatchesPhrase("show my tickets please", "my tickets"))
	assert.False(t, strict.FuzzyMatchesPhrase("tiket", "ticket"))
}

// The thresholds are empirical; these cases sit right on them.
func TestFuzzyThresholdBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimilarityThreshold = 0.81
	assert.False(t, cfg.FuzzyMatchesPhrase("strt wrk", "start work"), "0.8 is below 0.81 and 'start work' is too long for the short rescue")

	cfg = DefaultConfig()
	cfg.ShortPhraseMaxDistance = 1
	assert.False(t, cfg.FuzzyMatchesPhrase("tckt", "ticket"))

	cfg = DefaultConfig()
	cfg.ShortPhraseMaxLen = 5
	assert.False(t, cfg.FuzzyMatchesPhrase("tckt", "ticket"))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{SimilarityThreshold: 1.5}.Validate())
	assert.Error(t, Config{SimilarityThreshold: 0.5, ShortPhraseMaxLen: -1}.Validate())
	assert.Error(t, Config{SimilarityThreshold: 0.5, ShortPhraseMaxDistance: -1}.Validate())
}
