// sqlite — хранилище секретов в локальной базе SQLite (modernc.org/sqlite, без cgo).
// Значения шифруются secretbox-ом, соль хранится в таблице meta.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/javeriana-conecta/conecta-web/internal/pkg/secretbox"
	"github.com/javeriana-conecta/conecta-web/internal/storage"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db  *sql.DB
	box *secretbox.Box
	now func() time.Time
}

var _ storage.SecretStore = (*Store)(nil)

// New открывает базу по пути path, применяет миграции и готовит шифрование.
func New(ctx context.Context, path, passphrase string) (*Store, error) {
	const op = "storage.sqlite.New"

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", op, err)
	}

	// SQLite не любит параллельных писателей.
	db.SetMaxOpenConns(1)

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	salt, err := loadOrCreateSalt(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	box, err := secretbox.New(passphrase, salt)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return newStore(db, box), nil
}

func newStore(db *sql.DB, box *secretbox.Box) *Store {
	return &Store{db: db, box: box, now: time.Now}
}

// migrateUp применяет встроенные миграции. migrate.Close не вызывается:
// он закрыл бы и db.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}

	drv, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migrations driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("migrations init: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}

func loadOrCreateSalt(ctx context.Context, db *sql.DB) ([]byte, error) {
	var salt []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'salt'`).Scan(&salt)
	if err == nil {
		return salt, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load salt: %w", err)
	}

	salt, err = secretbox.NewSalt()
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES ('salt', ?)`, salt); err != nil {
		return nil, fmt.Errorf("save salt: %w", err)
	}

	return salt, nil
}

func (s *Store) Get(ctx context.Context, name string) (string, error) {
	const op = "storage.sqlite.Get"

	var (
		sealed    string
		expiresAt int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM secrets WHERE name = ?`, name,
	).Scan(&sealed, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if expiresAt > 0 && storage.Expired(time.Unix(expiresAt, 0), s.now()) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM secrets WHERE name = ?`, name)
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	plain, err := s.box.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(plain), nil
}

func (s *Store) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	const op = "storage.sqlite.Set"

	if name == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrEmptyName)
	}

	sealed, err := s.box.Seal([]byte(value))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()

	var expiresAt int64
	if exp := storage.ExpiresAt(now, ttl); !exp.IsZero() {
		expiresAt = exp.Unix()
	}

	query := `
		INSERT INTO secrets(name, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, name, sealed, expiresAt, now.Unix()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Remove(ctx context.Context, names ...string) error {
	const op = "storage.sqlite.Remove"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, n := range names {
		if _, err := tx.ExecContext(ctx, `DELETE FROM secrets WHERE name = ?`, n); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (s *Store) Close() error { return s.db.Close() }
