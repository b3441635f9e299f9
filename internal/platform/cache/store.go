package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/statpulse/harvester/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a process-local TTL cache. The dashboard puts it in front of
// snapshot file reads so repeated client polling does not hammer the disk.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if s == nil || key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if s == nil || key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if s == nil || key == "" {
		return
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, loading it at most once per
// miss even under concurrent callers.
func (s *Store) GetOrLoad(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if s == nil {
		return load(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	out, err, _ := s.flight.Do(key, func() (any, error) {
		if value, ok := s.Get(ctx, key); ok {
			return value, nil
		}
		value, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, value)
		return value, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load cache key %q: %w", key, err)
	}
	return out, nil
}
