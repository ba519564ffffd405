package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/javeriana-conecta/conecta-web/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "access_token", "a1", time.Hour))
	require.NoError(t, s.Set(ctx, "refresh_token", "r1", 0))

	v, err := s.Get(ctx, "access_token")
	require.NoError(t, err)
	require.Equal(t, "a1", v)

	require.NoError(t, s.Remove(ctx, "access_token", "refresh_token", "missing"))

	_, err = s.Get(ctx, "access_token")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.Get(ctx, "refresh_token")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "access_token", "a1", 24*time.Hour))

	now = now.Add(23 * time.Hour)
	_, err := s.Get(ctx, "access_token")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = s.Get(ctx, "access_token")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_EmptyName(t *testing.T) {
	t.Parallel()

	err := New().Set(context.Background(), "", "v", 0)
	require.ErrorIs(t, err, storage.ErrEmptyName)
}

func TestStore_Closed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()
	require.NoError(t, s.Close())

	_, err := s.Get(ctx, "x")
	require.ErrorIs(t, err, storage.ErrClosed)
	require.ErrorIs(t, s.Set(ctx, "x", "y", 0), storage.ErrClosed)
	require.ErrorIs(t, s.Remove(ctx, "x"), storage.ErrClosed)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "access_token", "v", time.Minute)
			_, _ = s.Get(ctx, "access_token")
			_ = s.Remove(ctx, "refresh_token")
		}()
	}
	wg.Wait()

	v, err := s.Get(ctx, "access_token")
	require.NoError(t, err)
	require.Equal(t, "v", v)
}
