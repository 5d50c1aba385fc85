// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимает ошибку сервисного слоя, на выход даёт:
//   - корректный HTTP-статус;
//   - короткий стабильный code и безопасное message.
//
// Для ошибок провайдера message несёт описание ответа провайдера;
// причины ошибок хранилища наружу не отдаются, только в лог.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/go-blog/internal/oauth"
	"github.com/pribylovaa/go-blog/internal/pkg/log"
	"github.com/pribylovaa/go-blog/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус и тело ответа.
//
//   - err == nil — программная ошибка вызова: 500/internal;
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504;
//   - NotFound -> 404, InvalidArgument -> 400, Unauthenticated -> 401,
//     PermissionDenied -> 403, Conflict -> 409;
//   - Provider -> 502 с описанием провайдера;
//   - DanglingReference -> 500/dangling_reference;
//   - Backend и прочее -> 500.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := classify(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

func classify(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case stderrors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case stderrors.Is(err, service.ErrConflict):
		return http.StatusConflict, "already_exists", "already exists"
	case stderrors.Is(err, service.ErrProvider):
		msg := "identity provider error"
		var pe *oauth.ProviderError
		if stderrors.As(err, &pe) {
			msg = pe.Error()
		}
		return http.StatusBadGateway, "provider_error", msg
	case stderrors.Is(err, service.ErrDanglingReference):
		return http.StatusInternalServerError, "dangling_reference", "article author is missing"
	case stderrors.Is(err, service.ErrBackend):
		return http.StatusInternalServerError, "backend_error", "backend unavailable"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет статус/тело, добавляет request_id из заголовка.
// 5xx логируются на уровне Error, висячая ссылка на автора — отдельным событием.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	lg := log.From(r.Context())
	switch {
	case resp.Error.Code == "dangling_reference":
		lg.Error("data_integrity_fault", "path", r.URL.Path, "err", err)
	case status >= 500:
		lg.Error("request_failed", "path", r.URL.Path, "status", status, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
