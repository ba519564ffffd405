package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/javeriana-conecta/conecta-web/internal/storage"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.db")
	s, err := New(context.Background(), path, "passphrase")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_SetGet_Upsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := openStore(t)

	require.NoError(t, s.Set(ctx, "access_token", "a1", time.Hour))
	require.NoError(t, s.Set(ctx, "access_token", "a2", time.Hour))

	v, err := s.Get(ctx, "access_token")
	require.NoError(t, err)
	require.Equal(t, "a2", v)
}

func TestStore_NotFound(t *testing.T) {
	t.Parallel()

	s, _ := openStore(t)
	_, err := s.Get(context.Background(), "refresh_token")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ValuesAreSealed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := openStore(t)
	require.NoError(t, s.Set(ctx, "refresh_token", "plain-refresh", 0))

	var raw string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT value FROM secrets WHERE name = ?`, "refresh_token").Scan(&raw))
	require.NotEqual(t, "plain-refresh", raw)
	require.NotContains(t, raw, "plain-refresh")
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := openStore(t)

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "access_token", "a", 24*time.Hour))

	now = now.Add(24 * time.Hour)
	_, err := s.Get(ctx, "access_token")
	require.ErrorIs(t, err, storage.ErrNotFound)

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM secrets`).Scan(&n))
	require.Zero(t, n)
}

func TestStore_ReopenKeepsSalt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, path := openStore(t)
	require.NoError(t, s.Set(ctx, "refresh_token", "r", 0))
	require.NoError(t, s.Close())

	reopened, err := New(ctx, path, "passphrase")
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	v, err := reopened.Get(ctx, "refresh_token")
	require.NoError(t, err)
	require.Equal(t, "r", v)
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := openStore(t)

	require.NoError(t, s.Set(ctx, "access_token", "a", 0))
	require.NoError(t, s.Set(ctx, "refresh_token", "r", 0))
	require.NoError(t, s.Remove(ctx, "access_token", "refresh_token"))

	_, err := s.Get(ctx, "refresh_token")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
