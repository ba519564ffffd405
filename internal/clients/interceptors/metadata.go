// interceptors — мидлвары go-resty для исходящих HTTP-вызовов.
package interceptors

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type CtxKey string

const CtxRequestID CtxKey = "request_id"

const HeaderRequestID = "X-Request-Id"

// WithRequestID кладёт id логического запроса в контекст.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxRequestID, id)
}

// RequestIDFrom достаёт id из контекста ("" если его нет).
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(CtxRequestID).(string)
	return id
}

// WithMetadata — добавляет в исходящий запрос заголовки:
//   - X-Request-Id (из контекста; если нет — генерируется uuid),
//   - User-Agent (если передан параметром).
//
// Уже выставленный на запросе X-Request-Id не переписывается.
func WithMetadata(userAgent string) resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(HeaderRequestID) == "" {
			rid := RequestIDFrom(r.Context())
			if rid == "" {
				rid = uuid.NewString()
			}
			r.SetHeader(HeaderRequestID, rid)
		}

		if userAgent != "" {
			r.SetHeader("User-Agent", userAgent)
		}

		return nil
	}
}
