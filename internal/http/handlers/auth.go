package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/go-blog/internal/errors"
	"github.com/pribylovaa/go-blog/internal/service"
)

// SignInPage отдаёт адрес авторизации провайдера и ставит cookie со state.
func (h *Handlers) SignInPage(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     h.route("/signin"),
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, AuthorizeResponse{AuthorizeURL: h.Service.AuthorizeURL(state)})
}

// SignInCallback — обратный вызов провайдера: сверяем state, проводим вход,
// ставим cookie сессии и уводим на главную (с учётом BasePath).
func (h *Handlers) SignInCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	c, err := r.Cookie(stateCookie)
	if err != nil || c.Value == "" || subtle.ConstantTimeCompare([]byte(c.Value), []byte(q.Get("state"))) != 1 {
		apierrors.WriteError(w, r, fmt.Errorf("state mismatch: %w", service.ErrInvalidArgument))
		return
	}
	h.clearStateCookie(w)

	res, err := h.Service.SignInExternal(r.Context(), q.Get("code"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setSessionCookie(w, res.SessionID)
	http.Redirect(w, r, h.route("/"), http.StatusFound)
}

func (h *Handlers) SignInLocal(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.Service.SignInLocal(r.Context(), req.Username, req.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setSessionCookie(w, res.SessionID)
	writeJSON(w, http.StatusOK, AccountResponse{UserID: res.User.ID, Username: res.User.Username})
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	u, err := h.Service.RegisterLocal(r.Context(), req.Username, req.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, AccountResponse{UserID: u.ID, Username: u.Username})
}

// SignOut идемпотентен: без сессии просто чистит cookie.
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	var sid string
	if c, err := r.Cookie(h.Session.CookieName); err == nil {
		sid = c.Value
	}

	if err := h.Service.SignOut(r.Context(), sid); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.clearCookie(w, h.Session.CookieName)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Account(w http.ResponseWriter, r *http.Request) {
	cur, ok := requireSession(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{UserID: cur.User.UserID, Username: cur.User.Username})
}

func (h *Handlers) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     h.route("/signin"),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
