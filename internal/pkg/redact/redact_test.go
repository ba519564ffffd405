package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		in, want string
	}{
		{"student@javeriana.edu.co", "st***@javeriana.edu.co"},
		{"ab@x.io", "***@x.io"},
		{"broken", "***"},
		{"a@b@c", "***"},
	}

	for _, tc := range tcs {
		require.Equal(t, tc.want, Email(tc.in), tc.in)
	}
}

func TestToken(t *testing.T) {
	t.Parallel()

	require.Empty(t, Token(""))
	require.Equal(t, "[REDACTED_TOKEN]", Token("eyJhbGciOi..."))
}

func TestAuthorization(t *testing.T) {
	t.Parallel()

	require.Empty(t, Authorization(""))
	require.Equal(t, "Bearer [REDACTED_TOKEN]", Authorization("Bearer abc.def.ghi"))
	require.Equal(t, "[REDACTED_TOKEN]", Authorization("opaque"))
}
