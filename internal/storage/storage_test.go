package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExpiresAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, ExpiresAt(now, 0).IsZero())
	require.True(t, ExpiresAt(now, -time.Second).IsZero())
	require.Equal(t, now.Add(24*time.Hour), ExpiresAt(now, 24*time.Hour))
}

func TestExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.False(t, Expired(time.Time{}, now))
	require.False(t, Expired(now.Add(time.Second), now))
	require.True(t, Expired(now, now))
	require.True(t, Expired(now.Add(-time.Second), now))
}
