package service

import (
	"net/http"
	"testing"
	"time"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/apperror"
	"shiftdesk-be/pkg/intent"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherProviderBuild(t *testing.T) {
	registry, err := intent.NewBuiltinRegistry(intent.DefaultConfig(), intent.LocaleMulti)
	require.NoError(t, err)
	p := NewMatcherProvider(registry, time.Minute)

	m, err := p.Build("", nil)
	require.NoError(t, err)
	assert.Same(t, registry.Get(intent.LocaleMulti), m)

	_, err = p.Build("fr", nil)
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	_, err = p.Build(intent.LocaleEnglish, map[string][]string{"start": {"!!!"}})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	m, err = p.Build(intent.LocaleEnglish, map[string][]string{"end": {"home time"}})
	require.NoError(t, err)
	assert.Equal(t, intent.Match(intent.ActionEnd, ""), m.Classify("home time"))
}

func TestMatcherProviderForOrganization(t *testing.T) {
	registry, err := intent.NewBuiltinRegistry(intent.DefaultConfig(), intent.LocaleMulti)
	require.NoError(t, err)
	p := NewMatcherProvider(registry, time.Minute)

	org := &entity.Organization{
		Id:          uuid.New(),
		ChatLocale:  intent.LocaleItalian,
		ChatPhrases: map[string][]string{"start": {"si parte"}},
		UpdatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	first := p.ForOrganization(org)
	assert.Same(t, first, p.ForOrganization(org), "cached while the row is unchanged")
	assert.Equal(t, intent.Match(intent.ActionStart, ""), first.Classify("si parte"))

	org.UpdatedAt = org.UpdatedAt.Add(time.Second)
	assert.NotSame(t, first, p.ForOrganization(org))

	stale := &entity.Organization{Id: uuid.New(), ChatLocale: "gone"}
	assert.Same(t, registry.Get(intent.LocaleMulti), p.ForOrganization(stale))

	p.Invalidate(org.Id)
	assert.NotNil(t, p.ForOrganization(org))
}
