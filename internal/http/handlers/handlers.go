// Package handlers — REST-хендлеры blog-сервиса поверх service.Service.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/go-blog/internal/config"
	apierrors "github.com/pribylovaa/go-blog/internal/errors"
	"github.com/pribylovaa/go-blog/internal/http/middleware"
	"github.com/pribylovaa/go-blog/internal/service"
)

// stateCookie — одноразовый nonce, сверяемый на обратном вызове провайдера.
const stateCookie = "blog_oauth_state"

// Handlers агрегирует зависимости хендлеров.
// BasePath — префикс, под которым смонтированы маршруты ("" — корень);
// от него считаются путь state-cookie и адрес редиректа после входа.
type Handlers struct {
	Service  *service.Service
	Session  config.SessionConfig
	BasePath string
}

func New(svc *service.Service, sess config.SessionConfig, basePath string) *Handlers {
	return &Handlers{Service: svc, Session: sess, BasePath: strings.TrimSuffix(basePath, "/")}
}

// route — абсолютный путь маршрута с учётом BasePath.
func (h *Handlers) route(p string) string {
	return h.BasePath + p
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decode body: %w", service.ErrInvalidArgument)
	}
	return nil
}

// requireSession достаёт сессию запроса; без неё отвечает 401 и возвращает false.
func requireSession(w http.ResponseWriter, r *http.Request) (*middleware.Current, bool) {
	cur, ok := middleware.FromContext(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthenticated)
		return nil, false
	}
	return cur, true
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Session.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(h.Session.TTL / time.Second),
		HttpOnly: true,
		Secure:   h.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
