package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionRepository remembers which session ids were already persisted so
// the transcript consumer can skip redundant upserts within the cache TTL.
// Process-local; a cache miss just costs one idempotent upsert.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) MarkStored(sessionID string) {
	r.cache.Set(sessionID, time.Now(), cache.DefaultExpiration)
}

func (r *SessionRepository) IsStored(sessionID string) bool {
	_, found := r.cache.Get(sessionID)
	return found
}

func (r *SessionRepository) Forget(sessionID string) {
	r.cache.Delete(sessionID)
}
