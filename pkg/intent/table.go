package intent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PhraseTable is the language data a Matcher runs on. Adding a language
// or a synonym is a table change, never a code change.
type PhraseTable struct {
	Locale string `yaml:"locale"`

	// Phrases lists canonical phrases per action, in priority order.
	Phrases map[Action][]string `yaml:"phrases"`

	// NoteKeywords may be followed by an inline ticket description,
	// e.g. "ticket the printer is jammed". Every createTicket phrase is a
	// note keyword already; list extra lead-ins here.
	NoteKeywords []string `yaml:"noteKeywords"`

	// Rules are conjunctive regex fallbacks evaluated in order against
	// normalized input.
	Rules []KeywordRule `yaml:"rules"`
}

// KeywordRule fires when every pattern matches the normalized input.
type KeywordRule struct {
	Action   Action   `yaml:"action"`
	Patterns []string `yaml:"patterns"`
}

// Clone returns a deep copy so callers can extend a built-in table.
func (t *PhraseTable) Clone() *PhraseTable {
	out := &PhraseTable{
		Locale:       t.Locale,
		Phrases:      make(map[Action][]string, len(t.Phrases)),
		NoteKeywords: append([]string(nil), t.NoteKeywords...),
		Rules:        make([]KeywordRule, 0, len(t.Rules)),
	}
	for action, phrases := range t.Phrases {
		out.Phrases[action] = append([]string(nil), phrases...)
	}
	for _, rule := range t.Rules {
		out.Rules = append(out.Rules, KeywordRule{
			Action:   rule.Action,
			Patterns: append([]string(nil), rule.Patterns...),
		})
	}
	return out
}

// Extend appends extra phrases after the table's own, so built-in
// synonyms keep their priority.
func (t *PhraseTable) Extend(extra map[Action][]string) *PhraseTable {
	out := t.Clone()
	for _, action := range ActionOrder {
		out.Phrases[action] = appendUnique(out.Phrases[action], extra[action]...)
	}
	// Unknown actions are carried over so Validate reports them.
	for action, phrases := range extra {
		if !action.Valid() {
			out.Phrases[action] = appendUnique(out.Phrases[action], phrases...)
		}
	}
	return out
}

// Merge combines tables under a new locale name. Phrases and keywords
// keep first-seen order; rules are concatenated.
func Merge(locale string, tables ...*PhraseTable) *PhraseTable {
	out := &PhraseTable{
		Locale:  locale,
		Phrases: make(map[Action][]string),
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, action := range ActionOrder {
			out.Phrases[action] = appendUnique(out.Phrases[action], t.Phrases[action]...)
		}
		out.NoteKeywords = appendUnique(out.NoteKeywords, t.NoteKeywords...)
		out.Rules = append(out.Rules, t.Clone().Rules...)
	}
	return out
}

// Validate checks the table shape without compiling it.
func (t *PhraseTable) Validate() error {
	if t == nil {
		return fmt.Errorf("phrase table is nil")
	}
	for action, phrases := range t.Phrases {
		if !action.Valid() {
			return fmt.Errorf("locale %q: unknown action %q", t.Locale, action)
		}
		for _, phrase := range phrases {
			if Normalize(phrase) == "" {
				return fmt.Errorf("locale %q: phrase %q for %s is empty after normalization", t.Locale, phrase, action)
			}
		}
	}
	for _, keyword := range t.NoteKeywords {
		if Normalize(keyword) == "" {
			return fmt.Errorf("locale %q: note keyword %q is empty after normalization", t.Locale, keyword)
		}
	}
	for i, rule := range t.Rules {
		if !rule.Action.Valid() {
			return fmt.Errorf("locale %q: rule %d has unknown action %q", t.Locale, i, rule.Action)
		}
		if len(rule.Patterns) == 0 {
			return fmt.Errorf("locale %q: rule %d has no patterns", t.Locale, i)
		}
	}
	return nil
}

// ParseTable decodes a YAML phrase table.
func ParseTable(data []byte) (*PhraseTable, error) {
	var t PhraseTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode phrase table: %w", err)
	}
	if t.Phrases == nil {
		t.Phrases = make(map[Action][]string)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTable reads a YAML phrase table from disk.
func LoadTable(path string) (*PhraseTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phrase table %s: %w", path, err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		seen := false
		for _, existing := range dst {
			if existing == v {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, v)
		}
	}
	return dst
}
