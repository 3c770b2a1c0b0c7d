package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store is the in-memory session table, keyed by the uuid carried in the
// visitor's cookie. Sessions idle longer than the TTL are evicted by a
// background sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	logger   *logrus.Logger
	stop     chan struct{}
}

// NewStore creates a session store and starts its eviction sweep.
func NewStore(ttl time.Duration, logger *logrus.Logger) *Store {
	store := &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		logger:   logger,
		stop:     make(chan struct{}),
	}
	go store.sweep()
	return store
}

// Create allocates a fresh anonymous session.
func (st *Store) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New(),
		createdAt: now,
		lastSeen:  now,
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	return sess
}

// Get looks a session up by id and marks it seen. Expired or unknown ids
// return nil.
func (st *Store) Get(id uuid.UUID) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, found := st.sessions[id]
	if !found {
		return nil
	}
	if time.Since(sess.lastSeen) > st.ttl {
		delete(st.sessions, id)
		return nil
	}
	sess.lastSeen = time.Now()
	return sess
}

// Delete removes a session (logout).
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Count returns the number of live sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close stops the eviction sweep.
func (st *Store) Close() {
	close(st.stop)
}

func (st *Store) sweep() {
	interval := st.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-st.stop:
			return
		case <-ticker.C:
			st.evictExpired()
		}
	}
}

func (st *Store) evictExpired() {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	var evicted int
	for id, sess := range st.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(st.sessions, id)
			evicted++
		}
	}
	st.mu.Unlock()

	if evicted > 0 {
		st.logger.WithField("evicted", evicted).Debug("Expired sessions removed")
	}
}
