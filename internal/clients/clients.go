// clients — HTTP-клиент апстрима, в который прокси пересылает /api/*.
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/javeriana-conecta/conecta-web/internal/clients/interceptors"
	"github.com/javeriana-conecta/conecta-web/internal/config"
)

const (
	userAgent          = "conecta-gateway"
	defaultContentType = "application/json"
)

// ForwardRequest — то, что прокси берёт из входящего запроса.
type ForwardRequest struct {
	Method        string
	Path          string // склеенные сегменты после /api/
	RawQuery      string
	ContentType   string
	Authorization string
	Body          []byte
}

type ForwardResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Upstream пересылает запросы в REST-бэкенд. Повторов не делает.
type Upstream struct {
	http     *resty.Client
	base     string
	stripAPI bool
	timeout  time.Duration
}

// New создаёт клиент апстрима по cfg.Upstream и cfg.Timeouts.Upstream.
func New(cfg config.Config, log *slog.Logger) (*Upstream, error) {
	const op = "internal/clients/New"

	base := strings.TrimRight(cfg.Upstream.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%s: parse upstream url: %w", op, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s: upstream url %q must be absolute http(s)", op, cfg.Upstream.BaseURL)
	}

	c := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0).
		OnAfterResponse(interceptors.Logging(log)).
		OnError(interceptors.LogError(log))

	return &Upstream{
		http:     c,
		base:     base,
		stripAPI: strings.HasSuffix(base, "/api"),
		timeout:  cfg.Timeouts.Upstream,
	}, nil
}

// Target строит URL апстрима: base + "/" + path (+ "?" + rawQuery).
// Ведущий "api/" в path срезается, если base уже оканчивается на /api.
func (u *Upstream) Target(path, rawQuery string) string {
	if u.stripAPI {
		path = strings.TrimPrefix(path, "api/")
	}

	target := u.base + "/" + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	return target
}

// Forward выполняет один вызов апстрима и возвращает ответ как есть (любой статус).
// Ошибка означает, что ответа не было вовсе.
func (u *Upstream) Forward(ctx context.Context, in ForwardRequest) (*ForwardResponse, error) {
	const op = "internal/clients/Upstream.Forward"

	ctx, cancel := interceptors.WithTimeout(ctx, u.timeout)
	defer cancel()

	ct := in.ContentType
	if ct == "" {
		ct = defaultContentType
	}

	req := u.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", ct)

	if in.Authorization != "" {
		req.SetHeader("Authorization", in.Authorization)
	}

	if hasBody(in.Method) && len(in.Body) > 0 {
		req.SetBody(in.Body)
	}

	res, err := req.Execute(in.Method, u.Target(in.Path, in.RawQuery))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := &ForwardResponse{
		Status:      res.StatusCode(),
		ContentType: res.Header().Get("Content-Type"),
		Body:        res.Body(),
	}
	if out.ContentType == "" {
		out.ContentType = defaultContentType
	}

	return out, nil
}

// GET и DELETE уходят без тела.
func hasBody(method string) bool {
	return method != http.MethodGet && method != http.MethodDelete
}
