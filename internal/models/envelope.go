// models — DTO для REST-контракта бэкенда резюме (все ответы обёрнуты в Envelope).
package models

// Envelope — обёртка, в которую бэкенд заворачивает каждый ответ.
// Data == nil соответствует "data": null.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
	Count   *int   `json:"count,omitempty"`
}

// OK — success и непустой data.
func (e Envelope[T]) OK() bool { return e.Success && e.Data != nil }

// ErrorBody — минимальный разбор тела ошибки: message в корне или внутри data.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    *struct {
		Message string `json:"message"`
	} `json:"data"`
}

// Text возвращает первое непустое сообщение об ошибке.
func (b ErrorBody) Text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Data != nil && b.Data.Message != "":
		return b.Data.Message
	default:
		return b.Error
	}
}
