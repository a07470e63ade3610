package memory

import (
	"time"

	"shiftdesk-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps chat conversation state in process memory.
// Entries expire after ttl of inactivity.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *SessionRepository) Save(session *entity.ChatSession) {
	session.UpdatedAt = time.Now()
	r.cache.Set(session.Key(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(userID, orgID uuid.UUID) (*entity.ChatSession, bool) {
	if x, found := r.cache.Get(entity.ChatSessionKey(userID, orgID)); found {
		return x.(*entity.ChatSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userID, orgID uuid.UUID) {
	r.cache.Delete(entity.ChatSessionKey(userID, orgID))
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
