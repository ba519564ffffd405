package clients

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/javeriana-conecta/conecta-web/internal/config"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newUpstream(t *testing.T, base string, timeout time.Duration) *Upstream {
	t.Helper()

	cfg := config.Config{}
	cfg.Upstream.BaseURL = base
	cfg.Timeouts.Upstream = timeout

	u, err := New(cfg, discard())
	require.NoError(t, err)
	return u
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	cfg.Upstream.BaseURL = "backend/api"
	_, err := New(cfg, discard())
	require.Error(t, err)
}

func TestTarget(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name, base, path, query, want string
	}{
		{"plain", "http://h:3000/api", "latex-templates", "", "http://h:3000/api/latex-templates"},
		{"strip_api", "http://h:3000/api", "api/auth/login", "", "http://h:3000/api/auth/login"},
		{"trailing_slash", "http://h:3000/api/", "auth/profile", "", "http://h:3000/api/auth/profile"},
		{"no_strip_without_api_base", "http://h:3000", "api/auth/login", "", "http://h:3000/api/auth/login"},
		{"query_verbatim", "http://h:3000/api", "generated-resumes", "generationStatus=completed&isFavorite=true", "http://h:3000/api/generated-resumes?generationStatus=completed&isFavorite=true"},
		{"nested", "http://h:3000/api", "latex-templates/7/preview-pdf", "", "http://h:3000/api/latex-templates/7/preview-pdf"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			u := newUpstream(t, tc.base, 0)
			require.Equal(t, tc.want, u.Target(tc.path, tc.query))
		})
	}
}

func TestForward_HeadersAndBody(t *testing.T) {
	t.Parallel()

	type seen struct {
		method, path, query, ct, auth, cookie string
		body                                  []byte
	}
	ch := make(chan seen, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ch <- seen{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Content-Type"), r.Header.Get("Authorization"), r.Header.Get("Cookie"), b}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	u := newUpstream(t, srv.URL+"/api", time.Second)

	res, err := u.Forward(context.Background(), ForwardRequest{
		Method:        http.MethodPost,
		Path:          "latex-templates",
		RawQuery:      "a=1",
		Authorization: "Bearer tok",
		Body:          []byte(`{"name":"CV"}`),
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.Status)
	require.Equal(t, "application/json", res.ContentType)
	require.JSONEq(t, `{"success":true}`, string(res.Body))

	got := <-ch
	require.Equal(t, http.MethodPost, got.method)
	require.Equal(t, "/api/latex-templates", got.path)
	require.Equal(t, "a=1", got.query)
	require.Equal(t, "application/json", got.ct)
	require.Equal(t, "Bearer tok", got.auth)
	require.Empty(t, got.cookie)
	require.Equal(t, `{"name":"CV"}`, string(got.body))
}

func TestForward_GetDropsBody_AndKeepsMultipartType(t *testing.T) {
	t.Parallel()

	type seen struct {
		ct   string
		body []byte
	}
	ch := make(chan seen, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ch <- seen{r.Header.Get("Content-Type"), b}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u := newUpstream(t, srv.URL+"/api", 0)

	_, err := u.Forward(context.Background(), ForwardRequest{Method: http.MethodGet, Path: "x", Body: []byte("ignored")})
	require.NoError(t, err)
	require.Empty(t, (<-ch).body)

	const mp = "multipart/form-data; boundary=XYZ"
	_, err = u.Forward(context.Background(), ForwardRequest{Method: http.MethodPost, Path: "x", ContentType: mp, Body: []byte("--XYZ--")})
	require.NoError(t, err)
	got := <-ch
	require.Equal(t, mp, got.ct)
	require.Equal(t, "--XYZ--", string(got.body))
}

func TestForward_BinaryBodyAndDefaultContentType(t *testing.T) {
	t.Parallel()

	pdf := []byte{'%', 'P', 'D', 'F', 0x00, 0xff, 0x10}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write(pdf)
	}))
	defer srv.Close()

	u := newUpstream(t, srv.URL+"/api", 0)
	res, err := u.Forward(context.Background(), ForwardRequest{Method: http.MethodGet, Path: "generated-resumes/1/download-pdf"})
	require.NoError(t, err)
	require.Equal(t, pdf, res.Body)
	require.Equal(t, "application/json", res.ContentType)
}

func TestForward_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api"
	srv.Close()

	u := newUpstream(t, base, time.Second)
	_, err := u.Forward(context.Background(), ForwardRequest{Method: http.MethodGet, Path: "auth/profile"})
	require.Error(t, err)
}

func TestForward_Timeout(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	u := newUpstream(t, srv.URL+"/api", 50*time.Millisecond)
	_, err := u.Forward(context.Background(), ForwardRequest{Method: http.MethodGet, Path: "slow"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
