package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/idempotency"
)

// DefaultTTL is how long a response stays replayable.
const DefaultTTL = 24 * time.Hour

// Store is an in-memory implementation of idempotency.Store.
// It is safe for concurrent use.
type Store struct {
	clk clock.Clock
	ttl time.Duration

	mu sync.Mutex
	m  map[idempotency.Fingerprint]idempotency.Record
}

// NewStore keeps records for ttl (DefaultTTL when zero), judged by clk against
// Record.CreatedAt.
func NewStore(clk clock.Clock, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		clk: clk,
		ttl: ttl,
		m:   make(map[idempotency.Fingerprint]idempotency.Record),
	}
}

func (s *Store) Get(_ context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.m[fp]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	if s.expired(rec) {
		delete(s.m, fp)
		return idempotency.Record{}, false, nil
	}
	rec.Body = append([]byte(nil), rec.Body...)
	return rec, true, nil
}

func (s *Store) Put(_ context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	rec.Body = append([]byte(nil), rec.Body...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[fp] = rec
	s.sweepLocked()
	return nil
}

func (s *Store) expired(rec idempotency.Record) bool {
	return s.clk.Now().Sub(rec.CreatedAt) >= s.ttl
}

func (s *Store) sweepLocked() {
	for fp, rec := range s.m {
		if s.expired(rec) {
			delete(s.m, fp)
		}
	}
}
