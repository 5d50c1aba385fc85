package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pribylovaa/go-blog/internal/pkg/log"
)

// Timeout ограничивает время обработки запроса: хендлер, хранилище, Redis и
// провайдер получают один общий дедлайн через r.Context().
// Уже выставленный дедлайн сильнее; d <= 0 отключает ограничение.
// Сработавший дедлайн отмечается в логе событием request_deadline_exceeded.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.From(ctx).Warn("request_deadline_exceeded", "path", r.URL.Path, "timeout", d)
			}
		})
	}
}
