package interceptors

import (
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/javeriana-conecta/conecta-web/pkg/log"
)

// Logging — итоговая запись по каждому ответу: msg="http_out", method, url,
// status, dur. Логгер берётся из контекста запроса (pkg/log), иначе base.
//
// Тело и заголовки не логируются: там токены.
func Logging(base *slog.Logger) resty.ResponseMiddleware {
	if base == nil {
		base = slog.Default()
	}

	return func(_ *resty.Client, res *resty.Response) error {
		req := res.Request
		l := logger(base, req)

		l.Info("http_out",
			slog.String("method", req.Method),
			slog.String("url", req.URL),
			slog.Int("status", res.StatusCode()),
			slog.Duration("dur", res.Time()),
		)

		return nil
	}
}

// LogError — запись о транспортной ошибке (ответа нет вовсе).
func LogError(base *slog.Logger) resty.ErrorHook {
	if base == nil {
		base = slog.Default()
	}

	return func(req *resty.Request, err error) {
		if _, ok := err.(*resty.ResponseError); ok {
			// ответ был, его уже записал Logging
			return
		}

		logger(base, req).Warn("http_out_failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL),
			slog.String("err", err.Error()),
		)
	}
}

func logger(base *slog.Logger, req *resty.Request) *slog.Logger {
	l := base
	if ctx := req.Context(); ctx != nil {
		if fromCtx := log.From(ctx); fromCtx != slog.Default() {
			l = fromCtx
		}
	}

	if rid := req.Header.Get(HeaderRequestID); rid != "" {
		l = l.With(slog.String("request_id", rid))
	}

	return l
}
