package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pribylovaa/go-blog/internal/metrics"
	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/pribylovaa/go-blog/internal/pkg/log"
	"github.com/pribylovaa/go-blog/internal/pkg/redact"
	"github.com/pribylovaa/go-blog/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLen = 64
	minPasswordLen = 8
)

// RegisterLocal создаёт пользователя с локальным паролем (bcrypt).
// Занятый username — ErrConflict.
func (s *Service) RegisterLocal(ctx context.Context, username, password string) (*models.User, error) {
	const op = "service/local/RegisterLocal"

	username = strings.TrimSpace(username)
	lg := log.From(ctx).With("op", op, "username", username)

	if username == "" || utf8.RuneCountInString(username) > maxUsernameLen {
		lg.Warn("invalid argument: bad username")
		return nil, fmt.Errorf("%s: username: %w", op, ErrInvalidArgument)
	}

	if utf8.RuneCountInString(password) < minPasswordLen {
		lg.Warn("invalid argument: weak password", "password", redact.Password())
		return nil, fmt.Errorf("%s: password: %w", op, ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%s: password: %w", op, ErrInvalidArgument)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := models.User{
		Username:     username,
		AuthType:     models.AuthTypeLocal,
		PasswordHash: hash,
		Status:       models.StatusPublished,
	}

	id, err := s.storage.InsertUser(ctx, u)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			lg.Warn("username taken")
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		}

		lg.Error("storage error on InsertUser", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	u.ID = id
	lg.Info("user_registered", "user_id", id)

	return &u, nil
}

// SignInLocal — вход по username+пароль. Сессия пишется последним шагом.
// Неизвестный пользователь и неверный пароль неразличимы снаружи: ErrUnauthenticated.
func (s *Service) SignInLocal(ctx context.Context, username, password string) (*SignInResult, error) {
	const op = "service/local/SignInLocal"

	username = strings.TrimSpace(username)
	lg := log.From(ctx).With("op", op, "username", username)

	reject := func() error {
		metrics.SignInsTotal.WithLabelValues(models.AuthTypeLocal, metrics.OutcomeRejected).Inc()
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if username == "" || password == "" {
		return nil, reject()
	}

	user, err := s.storage.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Info("signin rejected: unknown user")
			return nil, reject()
		}

		metrics.SignInsTotal.WithLabelValues(models.AuthTypeLocal, metrics.OutcomeError).Inc()
		lg.Error("storage error on UserByUsername", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		lg.Info("signin rejected: bad password", "user_id", user.ID)
		return nil, reject()
	}

	sid, err := s.sessions.Create(ctx, models.SessionWrite{UserID: user.ID, Username: user.Username})
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(models.AuthTypeLocal, metrics.OutcomeError).Inc()
		lg.Error("session create failed", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	metrics.SignInsTotal.WithLabelValues(models.AuthTypeLocal, metrics.OutcomeFound).Inc()
	lg.Info("signin_ok", "user_id", user.ID)

	return &SignInResult{
		User:      user,
		SessionID: sid,
		Trace:     []SignInState{StateStart, StateUserFound, StateSessionEstablished},
	}, nil
}

// SignOut удаляет сессию. Пустой sid — no-op.
func (s *Service) SignOut(ctx context.Context, sid string) error {
	const op = "service/local/SignOut"

	if sid == "" {
		return nil
	}

	if err := s.sessions.Destroy(ctx, sid); err != nil {
		log.From(ctx).Error("session destroy failed", "op", op, "err", err)
		return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	return nil
}

// Session возвращает данные сессии по sid; отсутствие сессии — (nil, false, nil).
func (s *Service) Session(ctx context.Context, sid string) (*models.SessionWrite, bool, error) {
	const op = "service/local/Session"

	w, ok, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	return w, ok, nil
}
