package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/javeriana-conecta/conecta-web/internal/clients"
	apierrors "github.com/javeriana-conecta/conecta-web/internal/errors"
	"github.com/javeriana-conecta/conecta-web/internal/metrics"
	logctx "github.com/javeriana-conecta/conecta-web/pkg/log"
)

// Лимит тела входящего запроса (PDF превью до 10 МиБ + multipart-обвязка).
const DefaultMaxBody = 12 << 20

// Proxy пересылает /api/* в апстрим без изменений и без повторов.
type Proxy struct {
	up      Forwarder
	metrics *metrics.Proxy
	maxBody int64
}

func NewProxy(up Forwarder, m *metrics.Proxy) *Proxy {
	return &Proxy{up: up, metrics: m, maxBody: DefaultMaxBody}
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	path := chi.URLParam(r, "*")

	// preflight обслуживаем сами
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	in := clients.ForwardRequest{
		Method:        r.Method,
		Path:          path,
		RawQuery:      r.URL.RawQuery,
		ContentType:   r.Header.Get("Content-Type"),
		Authorization: r.Header.Get("Authorization"),
	}

	if r.Method != http.MethodGet && r.Method != http.MethodDelete && r.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, p.maxBody))
		if err != nil {
			var mbe *http.MaxBytesError
			if !errors.As(err, &mbe) {
				err = fmt.Errorf("%w: %v", apierrors.ErrBadRequest, err)
			}
			apierrors.WriteError(w, r, err)
			return
		}
		in.Body = body
	}

	target := p.up.Target(in.Path, in.RawQuery)
	log := logctx.From(ctx)
	log.Info("proxy_forward",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("target", target),
	)

	start := time.Now()
	res, err := p.up.Forward(ctx, in)
	p.metrics.ObserveUpstream(r.Method, time.Since(start), err != nil)

	if err != nil {
		log.Warn("proxy_upstream_failed",
			slog.String("target", target),
			slog.String("err", err.Error()),
		)
		apierrors.WriteProxyError(w, path, err)
		return
	}

	writeRaw(w, res.Status, res.ContentType, res.Body)
}
