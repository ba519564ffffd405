package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/javeriana-conecta/conecta-web/internal/http/handlers"
	"github.com/javeriana-conecta/conecta-web/internal/http/middleware"
	"github.com/javeriana-conecta/conecta-web/internal/metrics"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	Metrics *metrics.Proxy // nil — без метрик прокси

	CORSEnabled bool
	AllowOrigin string
}

// NewRouter собирает http.Handler с chi: прокси на /api/*.
func NewRouter(up handlers.Forwarder, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // request-scoped логгер в контексте
	)

	proxy := handlers.NewProxy(up, opts.Metrics)

	root.Route("/api", func(r chi.Router) {
		r.Use(middleware.Metrics(opts.Metrics))
		if opts.Timeout > 0 {
			r.Use(middleware.Timeout(opts.Timeout))
		}
		if opts.CORSEnabled {
			r.Use(middleware.CORS(opts.AllowOrigin))
		}

		registerRoutes(r, proxy)
	})

	return root
}

// registerRoutes — разрешённые методы прокси; прочие получают 405 от chi.
func registerRoutes(r chi.Router, proxy http.Handler) {
	r.Get("/*", proxy.ServeHTTP)
	r.Post("/*", proxy.ServeHTTP)
	r.Put("/*", proxy.ServeHTTP)
	r.Patch("/*", proxy.ServeHTTP)
	r.Delete("/*", proxy.ServeHTTP)
	r.Options("/*", proxy.ServeHTTP)
}
