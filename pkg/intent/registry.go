package intent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry maps locales to matchers. Unknown locales fall back to the
// default locale.
type Registry struct {
	mu            sync.RWMutex
	cfg           Config
	defaultLocale string
	tables        map[string]*PhraseTable
	matchers      map[string]*Matcher
}

// NewRegistry compiles every table. defaultLocale must be among them.
func NewRegistry(cfg Config, defaultLocale string, tables ...*PhraseTable) (*Registry, error) {
	r := &Registry{
		cfg:           cfg,
		defaultLocale: defaultLocale,
		tables:        make(map[string]*PhraseTable),
		matchers:      make(map[string]*Matcher),
	}
	for _, t := range tables {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	if _, ok := r.matchers[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q has no phrase table", defaultLocale)
	}
	return r, nil
}

// NewBuiltinRegistry registers en, it and multi.
func NewBuiltinRegistry(cfg Config, defaultLocale string) (*Registry, error) {
	return NewRegistry(cfg, defaultLocale, BuiltinTables()...)
}

// Register compiles t and replaces any table with the same locale.
func (r *Registry) Register(t *PhraseTable) error {
	if t == nil || t.Locale == "" {
		return fmt.Errorf("phrase table needs a locale")
	}
	m, err := New(t, r.cfg)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[t.Locale] = t.Clone()
	r.matchers[t.Locale] = m
	return nil
}

// LoadDir registers every *.yaml / *.yml table in dir, in name order.
func (r *Registry) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read phrase dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var loaded []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		t, err := LoadTable(filepath.Join(dir, e.Name()))
		if err != nil {
			return loaded, err
		}
		if err := r.Register(t); err != nil {
			return loaded, fmt.Errorf("%s: %w", e.Name(), err)
		}
		loaded = append(loaded, t.Locale)
	}
	return loaded, nil
}

// Get returns the matcher for locale, or the default one.
func (r *Registry) Get(locale string) *Matcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.matchers[locale]; ok {
		return m
	}
	return r.matchers[r.defaultLocale]
}

// Table returns a copy of the table registered for locale, falling back
// to the default locale.
func (r *Registry) Table(locale string) *PhraseTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tables[locale]; ok {
		return t.Clone()
	}
	return r.tables[r.defaultLocale].Clone()
}

// Has reports whether locale has its own table.
func (r *Registry) Has(locale string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.matchers[locale]
	return ok
}

// Locales lists registered locales, sorted.
func (r *Registry) Locales() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.matchers))
	for locale := range r.matchers {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Config returns the thresholds every registered matcher uses.
func (r *Registry) Config() Config {
	return r.cfg
}

// DefaultLocale returns the fallback locale.
func (r *Registry) DefaultLocale() string {
	return r.defaultLocale
}
