package memory

import (
	"time"

	"ai-trendboard-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds dashboard sessions in memory. Sessions expire
// with inactivity; there is no persistence and no explicit teardown.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

const defaultSessionTTL = 4 * time.Hour

func NewSessionRepository() *SessionRepository {
	// Purge expired sessions every 10 minutes
	c := cache.New(defaultSessionTTL, 10*time.Minute)
	return &SessionRepository{
		cache: c,
		ttl:   defaultSessionTTL,
	}
}

// Save writes the session back and refreshes its expiry. Each UI action
// reads current values, computes, and saves; access is single-threaded
// per session, so there are no transactional semantics here.
func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, r.ttl)
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
