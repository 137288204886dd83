package session

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is a single-process Store used when no redis address is configured.
type MemoryStore struct {
	items *cache.Cache
	ttl   time.Duration

	mu     sync.Mutex
	byUser map[string]map[string]struct{}
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items:  cache.New(ttl, 10*time.Minute),
		ttl:    ttl,
		byUser: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	id, sess := newSession(userID, s.ttl)
	s.items.Set(key(id), sess, s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.byUser[userID]
	if !ok {
		ids = make(map[string]struct{})
		s.byUser[userID] = ids
	}
	ids[id] = struct{}{}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	v, found := s.items.Get(key(id))
	if !found {
		return nil, ErrNotFound
	}
	sess := v.(Session)
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if v, found := s.items.Get(key(id)); found {
		s.mu.Lock()
		delete(s.byUser[v.(Session).UserID], id)
		s.mu.Unlock()
	}
	s.items.Delete(key(id))
	return nil
}

func (s *MemoryStore) RevokeAllForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.byUser[userID] {
		s.items.Delete(key(id))
	}
	delete(s.byUser, userID)
	return nil
}
