package service

import (
	"fmt"
	"time"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/apperror"
	"shiftdesk-be/pkg/intent"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// MatcherProvider builds per-organization intent matchers from the locale
// registry plus the organization's extra phrases, and caches them.
type MatcherProvider struct {
	registry *intent.Registry
	cache    *cache.Cache
}

type cachedMatcher struct {
	version time.Time
	matcher *intent.Matcher
}

func NewMatcherProvider(registry *intent.Registry, ttl time.Duration) *MatcherProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MatcherProvider{registry: registry, cache: cache.New(ttl, 2*ttl)}
}

func (p *MatcherProvider) Registry() *intent.Registry {
	return p.registry
}

// Build validates locale and phrases and compiles a matcher for them.
func (p *MatcherProvider) Build(locale string, phrases map[string][]string) (*intent.Matcher, error) {
	if locale == "" {
		locale = p.registry.DefaultLocale()
	}
	if !p.registry.Has(locale) {
		return nil, apperror.BadRequest(fmt.Sprintf("unknown chat locale %q", locale))
	}
	if len(phrases) == 0 {
		return p.registry.Get(locale), nil
	}

	extra := make(map[intent.Action][]string, len(phrases))
	for action, list := range phrases {
		extra[intent.Action(action)] = list
	}
	table := p.registry.Table(locale).Extend(extra)
	m, err := intent.New(table, p.registry.Config())
	if err != nil {
		return nil, apperror.BadRequest("invalid chat phrases: " + err.Error())
	}
	return m, nil
}

// ForOrganization returns the cached matcher while the organization row is
// unchanged since it was built.
func (p *MatcherProvider) ForOrganization(org *entity.Organization) *intent.Matcher {
	key := org.Id.String()
	if x, found := p.cache.Get(key); found {
		if c := x.(cachedMatcher); c.version.Equal(org.UpdatedAt) {
			return c.matcher
		}
	}

	m, err := p.Build(org.ChatLocale, org.ChatPhrases)
	if err != nil {
		// Stored settings went stale (e.g. a locale was removed); fall back.
		m = p.registry.Get(p.registry.DefaultLocale())
	}
	p.cache.Set(key, cachedMatcher{version: org.UpdatedAt, matcher: m}, cache.DefaultExpiration)
	return m
}

func (p *MatcherProvider) Invalidate(orgID uuid.UUID) {
	p.cache.Delete(orgID.String())
}
