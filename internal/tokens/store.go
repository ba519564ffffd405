package tokens

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/javeriana-conecta/conecta-web/internal/config"
	"github.com/javeriana-conecta/conecta-web/internal/storage"
	"github.com/javeriana-conecta/conecta-web/internal/storage/file"
	"github.com/javeriana-conecta/conecta-web/internal/storage/memory"
	"github.com/javeriana-conecta/conecta-web/internal/storage/redis"
	"github.com/javeriana-conecta/conecta-web/internal/storage/sqlite"
)

// OpenStore выбирает реализацию SecretStore по cfg.Backend.
func OpenStore(ctx context.Context, cfg config.TokenStoreConfig) (storage.SecretStore, error) {
	const op = "tokens.OpenStore"

	switch cfg.Backend {
	case config.StoreMemory:
		return memory.New(), nil

	case config.StoreFile, config.StoreSQLite:
		path, err := cfg.ResolvedPath()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		pass := cfg.Passphrase
		if pass == "" {
			pass = DefaultPassphrase()
		}

		var s storage.SecretStore
		if cfg.Backend == config.StoreFile {
			s, err = file.New(path, pass)
		} else {
			s, err = sqlite.New(ctx, path, pass)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil

	case config.StoreRedis:
		s, err := redis.New(ctx, cfg.RedisURL, cfg.Prefix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%s: unknown backend %q", op, cfg.Backend)
	}
}

// DefaultPassphrase — ключ для локальных хранилищ без явной парольной фразы:
// привязан к машине и пользователю ОС.
func DefaultPassphrase() string {
	host, _ := os.Hostname()

	name := "conecta"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}

	return "conecta:" + host + ":" + name
}
