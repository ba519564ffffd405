package handlers

import (
	"context"
	"net/http"

	"github.com/javeriana-conecta/conecta-web/internal/clients"
)

// Forwarder — апстрим, в который уходит /api/*; реализован clients.Upstream.
type Forwarder interface {
	Forward(ctx context.Context, in clients.ForwardRequest) (*clients.ForwardResponse, error)
	Target(path, rawQuery string) string
}

// writeRaw — ответ с телом как есть и заданным Content-Type.
func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
