// Package session — серверные сессии в Redis, ключ сессии уходит клиенту в cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "blog:sess:"

// ErrEmptyUser — попытка записать сессию без пользователя.
var ErrEmptyUser = errors.New("session: empty user id")

//go:generate mockgen -source=session.go -destination=../../mocks/session.go -package=mocks

// Store — контракт хранилища сессий.
type Store interface {
	// Create записывает сессию и возвращает её идентификатор.
	Create(ctx context.Context, w models.SessionWrite) (string, error)
	// Get возвращает сессию и признак её наличия.
	Get(ctx context.Context, sid string) (*models.SessionWrite, bool, error)
	// Destroy удаляет сессию; отсутствие ключа ошибкой не считается.
	Destroy(ctx context.Context, sid string) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение на старте.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}

	return &redisStore{rdb: rdb, prefix: defaultPrefix, ttl: ttl}, nil
}

func (s *redisStore) key(sid string) string { return s.prefix + sid }

// Create хранит сессию как Redis Hash с полями uid и username.
func (s *redisStore) Create(ctx context.Context, w models.SessionWrite) (string, error) {
	if w.UserID == "" {
		return "", ErrEmptyUser
	}

	sid, err := newSessionID()
	if err != nil {
		return "", err
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key(sid), map[string]string{
		"uid":      w.UserID,
		"username": w.Username,
	})
	pipe.Expire(ctx, s.key(sid), s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("session: create: %w", err)
	}

	return sid, nil
}

func (s *redisStore) Get(ctx context.Context, sid string) (*models.SessionWrite, bool, error) {
	if sid == "" {
		return nil, false, nil
	}

	m, err := s.rdb.HGetAll(ctx, s.key(sid)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("session: get: %w", err)
	}

	if len(m) == 0 || m["uid"] == "" {
		return nil, false, nil
	}

	return &models.SessionWrite{UserID: m["uid"], Username: m["username"]}, true, nil
}

func (s *redisStore) Destroy(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}

	if err := s.rdb.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}

	return nil
}

func (s *redisStore) Close() error { return s.rdb.Close() }

// newSessionID — 16 случайных байт в hex (32 символа).
func newSessionID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("session: rand: %w", err)
	}

	return hex.EncodeToString(b[:]), nil
}
