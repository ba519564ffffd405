package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/javeriana-conecta/conecta-web/internal/models"
)

var (
	// ErrSessionExpired — обновить access-токен не удалось; токены удалены,
	// нужен повторный вход.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoRefreshToken — в хранилище нет refresh-токена.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrRefreshRejected — бэкенд не выдал новый access-токен.
	ErrRefreshRejected = errors.New("refresh rejected")
	// ErrDecode — тело ответа не разобралось как JSON ожидаемой формы.
	ErrDecode = errors.New("decode response")
)

// APIError — ответ бэкенда со статусом вне 2xx.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// newAPIError достаёт сообщение из тела: message, затем data.message,
// затем текст HTTP-статуса.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: body}

	var eb models.ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Message = eb.Text()
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	return e
}

// StatusOf — HTTP-статус из цепочки ошибок (0, если это не APIError).
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// MessageOf — сообщение бэкенда, если ошибка пришла от него, иначе err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

// IsAuthError — 401/403 или истёкшая сессия.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrSessionExpired) {
		return true
	}
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}
