package middleware

import (
	"context"
	"net/http"

	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/pribylovaa/go-blog/internal/pkg/log"
)

// SessionLoader — источник сессий по id из cookie.
type SessionLoader interface {
	Session(ctx context.Context, sid string) (*models.SessionWrite, bool, error)
}

// Current — сессия текущего запроса.
type Current struct {
	ID   string
	User models.SessionWrite
}

type ctxKeySession struct{}

// Session читает cookie с id сессии и, если сессия жива, кладёт её в контекст.
// Ошибка хранилища сессий не роняет запрос: он продолжается анонимно,
// а защищённые хендлеры ответят 401.
func Session(loader SessionLoader, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, ok, err := loader.Session(r.Context(), c.Value)
			if err != nil {
				log.From(r.Context()).Warn("session_load_failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession{}, &Current{ID: c.Value, User: *sess})
			ctx = log.With(ctx, "user_id", sess.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext возвращает сессию запроса, если она есть.
func FromContext(ctx context.Context) (*Current, bool) {
	cur, ok := ctx.Value(ctxKeySession{}).(*Current)
	return cur, ok && cur != nil
}

// WithSession кладёт сессию в контекст напрямую (тесты хендлеров).
func WithSession(ctx context.Context, cur *Current) context.Context {
	return context.WithValue(ctx, ctxKeySession{}, cur)
}
