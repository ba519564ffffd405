package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/javeriana-conecta/conecta-web/internal/clients"
)

// fakeUpstream — Forwarder, запоминающий входящие вызовы.
type fakeUpstream struct {
	mu    sync.Mutex
	calls []clients.ForwardRequest
	res   *clients.ForwardResponse
	err   error
}

func (f *fakeUpstream) Forward(_ context.Context, in clients.ForwardRequest) (*clients.ForwardResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, in)
	return f.res, f.err
}

func (f *fakeUpstream) Target(path, rawQuery string) string {
	return "http://upstream/api/" + path
}

func serve(p *Proxy, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Handle("/api/*", p)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestProxy_ForwardsSelectedFields(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{res: &clients.ForwardResponse{Status: 201, ContentType: "application/json", Body: []byte(`{"ok":true}`)}}
	req := httptest.NewRequest(http.MethodPost, "/api/latex-templates?x=1", strings.NewReader(`{"a":1}`))
	req.Header.Set("Authorization", "Bearer t")
	req.Header.Set("Cookie", "access_token=t")

	rr := serve(NewProxy(up, nil), req)

	require.Equal(t, 201, rr.Code)
	require.JSONEq(t, `{"ok":true}`, rr.Body.String())
	require.Len(t, up.calls, 1)
	got := up.calls[0]
	require.Equal(t, "latex-templates", got.Path)
	require.Equal(t, "x=1", got.RawQuery)
	require.Equal(t, "Bearer t", got.Authorization)
	require.Equal(t, `{"a":1}`, string(got.Body))
}

func TestProxy_DeleteHasNoBody(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{res: &clients.ForwardResponse{Status: 200, ContentType: "application/json"}}
	req := httptest.NewRequest(http.MethodDelete, "/api/generated-resumes/3", strings.NewReader(`{"ignored":true}`))

	serve(NewProxy(up, nil), req)

	require.Len(t, up.calls, 1)
	require.Nil(t, up.calls[0].Body)
}

func TestProxy_OptionsShortCircuits(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{}
	rr := serve(NewProxy(up, nil), httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, up.calls)
}

func TestProxy_UpstreamFailure(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{err: errors.New("connection refused")}
	rr := serve(NewProxy(up, nil), httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"error":"failed to reach backend","details":"connection refused","path":"auth/profile"}`, rr.Body.String())
}

func TestProxy_BodyTooLarge(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{}
	p := NewProxy(up, nil)
	p.maxBody = 4

	rr := serve(p, httptest.NewRequest(http.MethodPost, "/api/x", strings.NewReader("0123456789")))

	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	require.Empty(t, up.calls)
}
