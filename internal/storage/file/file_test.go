package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/javeriana-conecta/conecta-web/internal/pkg/secretbox"
	"github.com/javeriana-conecta/conecta-web/internal/storage"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conecta", "tokens.json")
	s, err := New(path, "passphrase")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_SetGet_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, path := newStore(t)

	require.NoError(t, s.Set(ctx, "access_token", "acc-1", time.Hour))
	require.NoError(t, s.Set(ctx, "refresh_token", "ref-1", 7*24*time.Hour))

	reopened, err := New(path, "passphrase")
	require.NoError(t, err)

	v, err := reopened.Get(ctx, "refresh_token")
	require.NoError(t, err)
	require.Equal(t, "ref-1", v)
}

func TestStore_ValuesAreSealedOnDisk(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, path := newStore(t)

	require.NoError(t, s.Set(ctx, "access_token", "very-secret-access", time.Hour))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "very-secret-access")
	require.Contains(t, string(raw), "access_token")
}

func TestStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix permissions only")
	}
	t.Parallel()

	s, path := newStore(t)
	require.NoError(t, s.Set(context.Background(), "access_token", "x", 0))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newStore(t)

	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "access_token", "acc", 24*time.Hour))

	now = now.Add(25 * time.Hour)
	_, err := s.Get(ctx, "access_token")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newStore(t)

	require.NoError(t, s.Set(ctx, "access_token", "a", 0))
	require.NoError(t, s.Set(ctx, "refresh_token", "r", 0))
	require.NoError(t, s.Remove(ctx, "access_token", "refresh_token"))

	_, err := s.Get(ctx, "access_token")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_WrongPassphrase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, s.Set(ctx, "access_token", "a", 0))

	other, err := New(path, "another-passphrase")
	require.NoError(t, err)

	_, err = other.Get(ctx, "access_token")
	require.ErrorIs(t, err, secretbox.ErrDecrypt)
}

func TestStore_FileDeletedExternally_ActsAsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, s.Set(ctx, "access_token", "a", 0))
	require.NoError(t, os.Remove(path))

	_, err := s.Get(ctx, "access_token")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, "access_token", "b", 0))
	v, err := s.Get(ctx, "access_token")
	require.NoError(t, err)
	require.Equal(t, "b", v)
}

func TestNew_EmptyPassphrase(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "jar.json"), "")
	require.ErrorIs(t, err, secretbox.ErrEmptyPassphrase)
}
