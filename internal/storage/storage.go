package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-blog/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности (username, пара auth_type + inner.id).
	ErrConflict = errors.New("conflict")
	// ErrDanglingReference — статья найдена, но её автор отсутствует.
	// Это нарушение целостности данных, а не «нет такой статьи».
	ErrDanglingReference = errors.New("dangling author reference")
)

//go:generate mockgen -source=storage.go -destination=../../mocks/storage.go -package=mocks

// Storage описывает операции над статьями и пользователями.
type Storage interface {
	// ArticleByID возвращает статью без комментариев и без join автора.
	// Нужна для редактирования. Если записи нет — ErrNotFound.
	ArticleByID(ctx context.Context, id string) (*models.Article, error)

	// ArticleWithCommentWindow одним агрегирующим запросом возвращает статью,
	// имя автора, окно комментариев [offset, offset+limit) и их общее число.
	// Ожидает offset >= 0 и limit > 0 (это обеспечивает pagination).
	// Ошибки: ErrNotFound, ErrDanglingReference.
	ArticleWithCommentWindow(ctx context.Context, id string, offset, limit int) (*models.ArticleView, error)

	// ListArticles возвращает все статьи, сначала новые, без тел и комментариев.
	ListArticles(ctx context.Context) ([]models.ArticleSummary, error)

	// InsertArticle сохраняет новую статью с пустым списком комментариев и возвращает её id.
	InsertArticle(ctx context.Context, article models.Article) (string, error)

	// UpdateArticleFields перезаписывает title/raw_content/tags/status и updated_time.
	// Если записи нет — ErrNotFound.
	UpdateArticleFields(ctx context.Context, id string, fields models.ArticleFields) error

	// AppendComment атомарно дописывает комментарий в конец последовательности.
	// Возвращает false, если статьи с таким id нет.
	AppendComment(ctx context.Context, articleID string, comment models.Comment) (bool, error)

	// UserByExternalID ищет пользователя провайдера по (auth_type, inner.id).
	// Если записи нет — ErrNotFound.
	UserByExternalID(ctx context.Context, provider string, remoteID int64) (*models.User, error)

	// UserByID — ErrNotFound, если записи нет.
	UserByID(ctx context.Context, id string) (*models.User, error)

	// UserByUsername ищет локального пользователя (auth_type = local).
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	// InsertUser сохраняет пользователя и возвращает его id.
	// Повтор (auth_type, inner.id) или локального username — ErrConflict.
	InsertUser(ctx context.Context, user models.User) (string, error)

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
