package storage

import (
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/restorer/internal/session"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps sessions in memory; idle sessions expire after the TTL
type SessionStore struct {
	sessions *cache.Cache
	ttl      time.Duration
}

func New(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, v interface{}) {
		if sess, ok := v.(*session.Session); ok {
			sess.Slider.End()
		}
		slog.Debug("Session expired", "session_id", id)
	})
	return &SessionStore{sessions: c, ttl: ttl}
}

// Get returns the session and extends its lifetime
func (s *SessionStore) Get(sessionID string) (*session.Session, bool) {
	v, exists := s.sessions.Get(sessionID)
	if !exists {
		return nil, false
	}
	sess := v.(*session.Session)
	s.sessions.Set(sessionID, sess, cache.DefaultExpiration)
	return sess, true
}

func (s *SessionStore) Set(sessionID string, sess *session.Session) {
	s.sessions.Set(sessionID, sess, cache.DefaultExpiration)
}

func (s *SessionStore) GetAll() map[string]*session.Session {
	items := s.sessions.Items()
	result := make(map[string]*session.Session, len(items))
	for k, item := range items {
		if sess, ok := item.Object.(*session.Session); ok {
			result[k] = sess
		}
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *SessionStore) Count() int {
	return s.sessions.ItemCount()
}
