package memory

import (
	"testing"
	"time"

	"shiftdesk-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	userID, orgID := uuid.New(), uuid.New()

	_, found := repo.Get(userID, orgID)
	assert.False(t, found)

	repo.Save(&entity.ChatSession{
		UserId:         userID,
		OrganizationId: orgID,
		State:          entity.ChatStateAwaitingService,
		Description:    "printer jammed",
	})

	got, found := repo.Get(userID, orgID)
	require.True(t, found)
	assert.Equal(t, entity.ChatStateAwaitingService, got.State)
	assert.Equal(t, "printer jammed", got.Description)
	assert.False(t, got.UpdatedAt.IsZero())

	_, found = repo.Get(userID, uuid.New())
	assert.False(t, found, "sessions are scoped per organization")

	repo.Delete(userID, orgID)
	_, found = repo.Get(userID, orgID)
	assert.False(t, found)
	assert.Equal(t, 0, repo.Count())
}

func TestSessionRepositoryExpiry(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	userID, orgID := uuid.New(), uuid.New()
	repo.Save(&entity.ChatSession{UserId: userID, OrganizationId: orgID, State: entity.ChatStateAwaitingDescription})

	assert.Eventually(t, func() bool {
		_, found := repo.Get(userID, orgID)
		return !found
	}, time.Second, 10*time.Millisecond)
}
