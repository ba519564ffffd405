package middleware

import (
	"net/http"

	"github.com/javeriana-conecta/conecta-web/internal/metrics"
)

// Metrics считает ответы по методу и коду. m == nil — no-op.
func Metrics(m *metrics.Proxy) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			m.ObserveRequest(r.Method, sw.Status())
		})
	}
}
