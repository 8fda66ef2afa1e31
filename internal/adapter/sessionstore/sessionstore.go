package sessionstore

import (
	"fmt"
	"sync"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

const DefaultQuota = 512 * 1024

var _ port.SessionStore = (*Store)(nil)

// Store is a session-scoped string key-value store with a byte
// quota. A write that would exceed the quota fails with
// domain.ErrQuotaExceeded and leaves the previous value intact.
type Store struct {
	mu    sync.Mutex
	quota int
	used  int
	data  map[string]string
}

func New(quota int) *Store {
	if quota <= 0 {
		quota = DefaultQuota
	}
	return &Store{quota: quota, data: make(map[string]string)}
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *Store) Set(key, value string) error {
	const op = "Store.Set"

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.used - len(s.data[key]) + len(value)
	if next > s.quota {
		return fmt.Errorf("%s: %w", op, domain.ErrQuotaExceeded)
	}
	s.data[key] = value
	s.used = next
	return nil
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.data[key]; ok {
		s.used -= len(v)
		delete(s.data, key)
	}
}
