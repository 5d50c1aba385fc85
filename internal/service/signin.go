package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-blog/internal/metrics"
	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/pribylovaa/go-blog/internal/pkg/log"
	"github.com/pribylovaa/go-blog/internal/pkg/redact"
	"github.com/pribylovaa/go-blog/internal/storage"
)

// SignInState — состояние входа через провайдера.
//
//	START -> TOKEN_EXCHANGED -> PROFILE_FETCHED -> {USER_FOUND | USER_CREATED} -> SESSION_ESTABLISHED
//
// FAILED достижимо из любого состояния и терминально.
type SignInState int

const (
	StateStart SignInState = iota
	StateTokenExchanged
	StateProfileFetched
	StateUserFound
	StateUserCreated
	StateSessionEstablished
	StateFailed
)

func (s SignInState) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateTokenExchanged:
		return "TOKEN_EXCHANGED"
	case StateProfileFetched:
		return "PROFILE_FETCHED"
	case StateUserFound:
		return "USER_FOUND"
	case StateUserCreated:
		return "USER_CREATED"
	case StateSessionEstablished:
		return "SESSION_ESTABLISHED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("SignInState(%d)", int(s))
	}
}

// SignInResult — итог успешного входа.
// Trace — пройденные состояния, последнее всегда SESSION_ESTABLISHED.
type SignInResult struct {
	User      *models.User
	SessionID string
	Created   bool
	Trace     []SignInState
}

// signInFlow — одна попытка входа: текущее состояние и пройденный путь.
type signInFlow struct {
	state SignInState
	trace []SignInState
}

func newSignInFlow() *signInFlow {
	return &signInFlow{state: StateStart, trace: []SignInState{StateStart}}
}

func (f *signInFlow) advance(to SignInState) {
	f.state = to
	f.trace = append(f.trace, to)
}

// AuthorizeURL — адрес страницы авторизации провайдера для страницы входа.
func (s *Service) AuthorizeURL(state string) string {
	return s.provider.AuthorizeURL(state)
}

// SignInExternal проводит вход по одноразовому code от провайдера.
// Сессия пишется последним шагом и только после того, как пользователь
// найден или создан в хранилище; при любой ошибке сессия не трогается.
//
// Ошибки: ErrInvalidArgument (пустой code), ErrProvider, ErrBackend.
func (s *Service) SignInExternal(ctx context.Context, code string) (*SignInResult, error) {
	const op = "service/signin/SignInExternal"

	provider := s.provider.Name()
	lg := log.From(ctx).With("op", op, "provider", provider, "code", redact.Code(code))
	flow := newSignInFlow()

	fail := func(kind, cause error) error {
		from := flow.state
		flow.advance(StateFailed)

		outcome := metrics.OutcomeError
		if errors.Is(kind, ErrInvalidArgument) {
			outcome = metrics.OutcomeRejected
		}
		metrics.SignInsTotal.WithLabelValues(provider, outcome).Inc()

		lg.Warn("signin_failed", "state", from.String(), "err", cause)
		if cause == nil {
			return fmt.Errorf("%s: %s: %w", op, from, kind)
		}

		return fmt.Errorf("%s: %s: %w: %w", op, from, kind, cause)
	}

	if strings.TrimSpace(code) == "" {
		return nil, fail(ErrInvalidArgument, nil)
	}

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fail(ErrProvider, err)
	}
	flow.advance(StateTokenExchanged)

	profile, err := s.provider.Profile(ctx, token)
	if err != nil {
		return nil, fail(ErrProvider, err)
	}
	flow.advance(StateProfileFetched)

	user, created, err := s.ResolveUser(ctx, profile)
	if err != nil {
		return nil, fail(ErrBackend, err)
	}
	if created {
		flow.advance(StateUserCreated)
	} else {
		flow.advance(StateUserFound)
	}

	sid, err := s.sessions.Create(ctx, models.SessionWrite{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, fail(ErrBackend, err)
	}
	flow.advance(StateSessionEstablished)

	outcome := metrics.OutcomeFound
	if created {
		outcome = metrics.OutcomeCreated
	}
	metrics.SignInsTotal.WithLabelValues(provider, outcome).Inc()

	lg.Info("signin_ok", "user_id", user.ID, "created", created)

	return &SignInResult{
		User:      user,
		SessionID: sid,
		Created:   created,
		Trace:     flow.trace,
	}, nil
}

// ResolveUser находит локального пользователя по (provider, remote id) или создаёт его.
// Найденный пользователь возвращается как есть: из удалённого профиля он не обновляется.
// Параллельный вход той же учётной записью упирается в уникальный индекс:
// проигравший запрос перечитывает пользователя и продолжает как «найден».
func (s *Service) ResolveUser(ctx context.Context, profile *models.RemoteProfile) (*models.User, bool, error) {
	const op = "service/signin/ResolveUser"

	if profile == nil {
		return nil, false, fmt.Errorf("%s: nil profile: %w", op, ErrInvalidArgument)
	}

	provider := s.provider.Name()
	lg := log.From(ctx).With("op", op, "provider", provider, "remote_id", profile.ID)

	user, err := s.storage.UserByExternalID(ctx, provider, profile.ID)
	switch {
	case err == nil:
		return user, false, nil
	case !errors.Is(err, storage.ErrNotFound):
		lg.Error("storage error on UserByExternalID", "err", err)
		return nil, false, fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	username := profile.Name
	if strings.TrimSpace(username) == "" {
		username = profile.Login
	}

	nu := models.User{
		Username: username,
		AuthType: provider,
		Inner:    profile.External(),
		Status:   models.StatusPublished,
	}

	id, err := s.storage.InsertUser(ctx, nu)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			lg.Info("concurrent signin created user first, refetching")

			existing, ferr := s.storage.UserByExternalID(ctx, provider, profile.ID)
			if ferr != nil {
				return nil, false, fmt.Errorf("%s: refetch: %w: %w", op, ErrBackend, ferr)
			}

			return existing, false, nil
		}

		lg.Error("storage error on InsertUser", "err", err)
		return nil, false, fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	nu.ID = id
	lg.Info("user_created", "user_id", id, "email", redact.Email(nu.Inner.Email))

	return &nu, true, nil
}
