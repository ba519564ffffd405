package interceptors

import (
	"context"
	"time"
)

// WithTimeout навешивает таймаут d на исходящий HTTP-вызов. Более ранний
// дедлайн входящего контекста не переопределяется.
//
// Контракт:
//  1. d <= 0 — контекст не меняется;
//  2. дедлайн ctx наступает раньше now+d — оставляет как есть;
//  3. иначе — context.WithTimeout(ctx, d).
//
// cancel всегда не nil и должен быть вызван.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) <= d {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, d)
}
