package tokenstore

import (
	"context"
	"sync"
)

// Store keeps the token in process memory. Nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	token string
	ok    bool
}

func NewStore() *Store { return &Store{} }

func (s *Store) Load(ctx context.Context) (string, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.ok, nil
}

func (s *Store) Save(ctx context.Context, token string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.ok = token, true
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.ok = "", false
	return nil
}
