// memory — хранилище секретов в памяти процесса. Используется в тестах и
// для одноразовых запусков, когда сохранять сессию между запусками не нужно.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/javeriana-conecta/conecta-web/internal/storage"
)

type entry struct {
	value     string
	expiresAt time.Time
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	closed  bool
	now     func() time.Time
}

var _ storage.SecretStore = (*Store)(nil)

func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithClock подменяет источник времени (для тестов истечения).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Get(_ context.Context, name string) (string, error) {
	const op = "storage.memory.Get"

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}

	e, ok := s.entries[name]
	if !ok || storage.Expired(e.expiresAt, s.now()) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return e.value, nil
}

func (s *Store) Set(_ context.Context, name, value string, ttl time.Duration) error {
	const op = "storage.memory.Set"

	if name == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}

	s.entries[name] = entry{value: value, expiresAt: storage.ExpiresAt(s.now(), ttl)}
	return nil
}

func (s *Store) Remove(_ context.Context, names ...string) error {
	const op = "storage.memory.Remove"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}

	for _, n := range names {
		delete(s.entries, n)
	}

	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.entries = nil
	return nil
}
