// redis — хранилище секретов в Redis. Подходит для общих профилей, когда
// несколько процессов клиента должны видеть одну и ту же пару токенов.
// Истечение реализовано нативным TTL ключа.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javeriana-conecta/conecta-web/internal/storage"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix — префикс ключей, если в конфигурации пусто.
const DefaultPrefix = "conecta:secret:"

type Store struct {
	rdb    *redis.Client
	prefix string
}

var _ storage.SecretStore = (*Store)(nil)

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
func New(ctx context.Context, redisURL, prefix string) (*Store, error) {
	const op = "storage.redis.New"

	if prefix == "" {
		prefix = DefaultPrefix
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &Store{rdb: rdb, prefix: prefix}, nil
}

func (s *Store) key(name string) string { return s.prefix + name }

func (s *Store) Get(ctx context.Context, name string) (string, error) {
	const op = "storage.redis.Get"

	v, err := s.rdb.Get(ctx, s.key(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

func (s *Store) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	const op = "storage.redis.Set"

	if name == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrEmptyName)
	}

	if ttl < 0 {
		ttl = 0
	}

	if err := s.rdb.Set(ctx, s.key(name), value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Remove(ctx context.Context, names ...string) error {
	const op = "storage.redis.Remove"

	if len(names) == 0 {
		return nil
	}

	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, s.key(n))
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }
