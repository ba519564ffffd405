// errors стандартизирует ответы об ошибках HTTP-слоя conecta-gateway.
//
// Два формата:
//   - ErrorResponse {"error":{code,message,request_id}} — сбои самого шлюза
//     (паника, таймаут, отмена клиентом);
//   - ProxyError {"error","details","path"} — апстрим недоступен.
//     Этот формат фиксирован контрактом фронта и не меняется.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrBadRequest — входящий запрос не удалось прочитать.
var ErrBadRequest = errors.New("bad request")

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// Сообщение ProxyError при сетевом сбое апстрима.
const MsgBackendUnreachable = "failed to reach backend"

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ProxyError — тело ответа 500, когда апстрим не ответил.
type ProxyError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Path    string `json:"path"`
}

// ToHTTP конвертирует ошибку шлюза в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal;
//   - *http.MaxBytesError — 413;
//   - ErrBadRequest — 400;
//   - context.Canceled — 499 (клиент ушёл);
//   - context.DeadlineExceeded — 504;
//   - прочее — 500/internal без утечки деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, internal()
	case asMaxBytes(err):
		return http.StatusRequestEntityTooLarge, ErrorResponse{Error: APIError{Code: "too_large", Message: "request body too large"}}
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, ErrorResponse{Error: APIError{Code: "bad_request", Message: "bad request"}}
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, ErrorResponse{Error: APIError{Code: "canceled", Message: "canceled"}}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: APIError{Code: "deadline_exceeded", Message: "deadline exceeded"}}
	default:
		return http.StatusInternalServerError, internal()
	}
}

// WriteError — хелпер для HTTP-хендлеров и мидлваров.
// Пишет статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	writeJSON(w, status, resp)
}

// WriteProxyError пишет 500 с деталями сетевого сбоя и путём, который пытались проксировать.
func WriteProxyError(w http.ResponseWriter, path string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}

	writeJSON(w, http.StatusInternalServerError, ProxyError{
		Error:   MsgBackendUnreachable,
		Details: details,
		Path:    path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func internal() ErrorResponse {
	return ErrorResponse{Error: APIError{Code: "internal", Message: "internal error"}}
}

func asMaxBytes(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
