package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"raffle-storefront/internal/checkout"
	"raffle-storefront/internal/entities"
)

// SessionStore keeps serialized checkout sessions so callers never share state.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]storedSession
}

type storedSession struct {
	data      []byte
	updatedAt time.Time
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[string]storedSession)}
}

// OnStart is a no-op.
func (s *SessionStore) OnStart(_ context.Context) error { return nil }

// OnStop is a no-op.
func (s *SessionStore) OnStop(_ context.Context) error { return nil }

// SaveSession upserts a session.
func (s *SessionStore) SaveSession(_ context.Context, sess *checkout.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sess.ID] = storedSession{data: data, updatedAt: sess.UpdatedAt}
	return nil
}

// GetSession loads a copy of a session.
func (s *SessionStore) GetSession(_ context.Context, id string) (*checkout.Session, error) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrSessionNotFound, id)
	}
	var sess checkout.Session
	if err := json.Unmarshal(item.data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// PurgeSessions deletes sessions last updated before cutoff.
func (s *SessionStore) PurgeSessions(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, item := range s.items {
		if item.updatedAt.Before(cutoff) {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}
