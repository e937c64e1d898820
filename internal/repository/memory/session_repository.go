package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"scad-studio-be/pkg/store"
)

// SessionRepository is the process-wide session table. Sessions are ephemeral
// working state keyed by id; expiry stands in for explicit cleanup when a
// caller abandons a session without stopping it.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Count reports how many sessions are live (expired entries excluded).
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
