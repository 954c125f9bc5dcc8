// Package credential persists the raw session token under a fixed key.
// Stores never validate tokens. A store that cannot be read behaves as if
// no token were present.
package credential

import (
	"context"
	"sync"
)

// Store is durable key/value persistence for the session token.
type Store interface {
	// Get returns the stored token. ok is false when nothing is stored or
	// the backend is unavailable.
	Get(ctx context.Context) (token string, ok bool)
	// Set replaces the stored token.
	Set(ctx context.Context, token string) error
	// Clear erases the stored token. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// MemoryStore keeps the token for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
