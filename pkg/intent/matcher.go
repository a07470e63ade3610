package intent

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Matcher classifies chat input against one phrase table. It is
// immutable after New and safe for concurrent use.
type Matcher struct {
	cfg    Config
	locale string

	phrases map[Action][]string // normalized
	exact   map[string]Action
	note    *regexp.Regexp
	rules   []compiledRule
}

type compiledRule struct {
	action   Action
	patterns []*regexp.Regexp
}

// New validates and precompiles table.
func New(table *PhraseTable, cfg Config) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		cfg:     cfg,
		locale:  table.Locale,
		phrases: make(map[Action][]string, len(ActionOrder)),
		exact:   make(map[string]Action),
	}

	for _, action := range ActionOrder {
		for _, phrase := range table.Phrases[action] {
			normalized := Normalize(phrase)
			m.phrases[action] = append(m.phrases[action], normalized)
			// First action in ActionOrder owns a duplicated phrase.
			if _, taken := m.exact[normalized]; !taken {
				m.exact[normalized] = action
			}
		}
	}

	note, err := compileNotePattern(noteKeywords(table))
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", table.Locale, err)
	}
	m.note = note

	for i, rule := range table.Rules {
		compiled := compiledRule{action: rule.Action}
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("locale %q: rule %d: %w", table.Locale, i, err)
			}
			compiled.patterns = append(compiled.patterns, re)
		}
		m.rules = append(m.rules, compiled)
	}

	return m, nil
}

// MustNew is New for built-in tables; it panics on an invalid table.
func MustNew(table *PhraseTable, cfg Config) *Matcher {
	m, err := New(table, cfg)
	if err != nil {
		panic(err)
	}
	return m
}

// noteKeywords is the table's NoteKeywords plus its createTicket phrases,
// so an inline description after any ticket phrase is kept.
func noteKeywords(table *PhraseTable) []string {
	return appendUnique(append([]string(nil), table.NoteKeywords...), table.Phrases[ActionCreateTicket]...)
}

// compileNotePattern builds "^keyword<sep>trailing" where sep is a
// colon/comma/dash or plain whitespace. Longer keywords are tried first.
func compileNotePattern(keywords []string) (*regexp.Regexp, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	sorted := append([]string(nil), keywords...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	alternatives := make([]string, 0, len(sorted))
	for _, keyword := range sorted {
		words := strings.Fields(keyword)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alternatives = append(alternatives, strings.Join(words, `\s+`))
	}

	pattern := `(?is)^\s*(?:` + strings.Join(alternatives, "|") + `)(?:\s*[:,\-]\s*|\s+)(.+)$`
	return regexp.Compile(pattern)
}

// Locale returns the locale of the table the matcher was built from.
func (m *Matcher) Locale() string {
	return m.locale
}

// Config returns the thresholds in use.
func (m *Matcher) Config() Config {
	return m.cfg
}

// FuzzyMatchesPhrase applies this matcher's thresholds.
func (m *Matcher) FuzzyMatchesPhrase(input, phrase string) bool {
	return m.cfg.FuzzyMatchesPhrase(input, phrase)
}

// Classify resolves raw chat input to an action. Passes, in order:
//  1. keyword followed by inline text -> createTicket with note
//  2. exact phrase equality
//  3. fuzzy phrase match in ActionOrder
//  4. keyword-pair rules in table order
//
// Anything else is NoMatch.
func (m *Matcher) Classify(raw string) Result {
	if note, ok := m.extractNote(raw); ok {
		return Match(ActionCreateTicket, note)
	}

	input := Normalize(raw)
	if input == "" {
		return NoMatch()
	}

	if action, ok := m.exact[input]; ok {
		return Match(action, "")
	}

	for _, action := range ActionOrder {
		for _, phrase := range m.phrases[action] {
			if m.cfg.matchNormalized(input, phrase) {
				return Match(action, "")
			}
		}
	}

	for _, rule := range m.rules {
		if rule.matches(input) {
			return Match(rule.action, "")
		}
	}

	return NoMatch()
}

func (m *Matcher) extractNote(raw string) (string, bool) {
	if m.note == nil {
		return "", false
	}
	groups := m.note.FindStringSubmatch(raw)
	if groups == nil {
		return "", false
	}
	note := strings.TrimSpace(groups[1])
	// "ticket -" carries no description.
	if Normalize(note) == "" {
		return "", false
	}
	return note, true
}

func (r compiledRule) matches(input string) bool {
	for _, re := range r.patterns {
		if !re.MatchString(input) {
			return false
		}
	}
	return true
}
