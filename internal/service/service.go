// service содержит бизнес-логику blog-сервиса: страница статьи с окном комментариев,
// публикация/редактирование, комментарии и вход (провайдер и локальный пароль).
package service

import (
	"errors"

	"github.com/pribylovaa/go-blog/internal/config"
	"github.com/pribylovaa/go-blog/internal/oauth"
	"github.com/pribylovaa/go-blog/internal/session"
	"github.com/pribylovaa/go-blog/internal/storage"
)

var (
	// ErrNotFound — статья/пользователь действительно отсутствует. Ожидаемый исход, не сбой.
	ErrNotFound = errors.New("not found")
	// ErrProvider — провайдер идентичности недоступен или ответил ошибкой.
	ErrProvider = errors.New("identity provider error")
	// ErrBackend — хранилище/сессии недоступны или вернули некорректный ответ.
	ErrBackend = errors.New("backend error")
	// ErrDanglingReference — статья ссылается на несуществующего автора.
	ErrDanglingReference = errors.New("dangling author reference")
	// ErrInvalidArgument — неверные входные параметры.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated — нет сессии или неверные учётные данные.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPermissionDenied — действие доступно только автору.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrConflict — конфликт уникальности (занятый username).
	ErrConflict = errors.New("conflict")
)

// Service — бизнес-логика blog-сервиса.
type Service struct {
	storage  storage.Storage
	provider oauth.Provider
	sessions session.Store
	cfg      config.Config
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, provider oauth.Provider, sessions session.Store, cfg config.Config) *Service {
	return &Service{
		storage:  storage,
		provider: provider,
		sessions: sessions,
		cfg:      cfg,
	}
}
