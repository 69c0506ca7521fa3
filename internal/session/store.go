package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
)

var ErrSessionNotFound = errors.New("session not found")

// Store keeps the workflow state of each wizard session for its TTL.
type Store interface {
	Load(ctx context.Context, id string) (orders.State, error)
	Save(ctx context.Context, id string, st orders.State) error
	Delete(ctx context.Context, id string) error
}

type memEntry struct {
	state     orders.State
	expiresAt time.Time
}

// MemoryStore is a Store for a single process.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]memEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, m: map[string]memEntry{}}
}

func (s *MemoryStore) Load(_ context.Context, id string) (orders.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[id]
	if !ok {
		return orders.State{}, ErrSessionNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.m, id)
		return orders.State{}, ErrSessionNotFound
	}
	return e.state.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, id string, st orders.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[id] = memEntry{state: st.Clone(), expiresAt: s.now().Add(s.ttl)}
	s.sweep()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, id)
	return nil
}

// sweep drops expired entries. Caller holds mu.
func (s *MemoryStore) sweep() {
	now := s.now()
	for id, e := range s.m {
		if !now.Before(e.expiresAt) {
			delete(s.m, id)
		}
	}
}
