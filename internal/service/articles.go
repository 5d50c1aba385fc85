package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-blog/internal/metrics"
	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/pribylovaa/go-blog/internal/pagination"
	"github.com/pribylovaa/go-blog/internal/pkg/log"
	"github.com/pribylovaa/go-blog/internal/storage"
)

// Входные структуры сервисного слоя.

// PublishInput — новая статья. AuthorID берётся из сессии.
type PublishInput struct {
	AuthorID   string
	Title      string
	RawContent string
	Tags       []string
}

// EditInput — правка статьи её автором.
type EditInput struct {
	EditorID   string
	ArticleID  string
	Title      string
	RawContent string
	Tags       []string
}

// CommentInput — новый комментарий.
// AuthorName — снимок имени из сессии; ReplyTo — необязательный id пользователя.
type CommentInput struct {
	ArticleID  string
	AuthorID   string
	AuthorName string
	Content    string
	ReplyTo    string
}

// ArticleView — страница статьи: одно обращение к хранилищу за статьёй,
// именем автора, окном комментариев и их общим числом.
// page — 1-based номер страницы комментариев, 0 означает «не задан».
func (s *Service) ArticleView(ctx context.Context, id string, page int) (*models.ArticleView, error) {
	const op = "service/articles/ArticleView"

	size := s.cfg.Limits.CommentPageSize
	w := pagination.ForPage(page, size)

	lg := log.From(ctx).With("op", op, "article_id", id, "offset", w.Offset, "limit", w.Limit)

	view, err := s.storage.ArticleWithCommentWindow(ctx, id, w.Offset, w.Limit)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Debug("article not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrDanglingReference):
			lg.Error("dangling_author_reference", "err", err)
			return nil, fmt.Errorf("%s: %w: %w", op, ErrDanglingReference, err)
		default:
			lg.Error("storage error on ArticleWithCommentWindow", "err", err)
			return nil, fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
		}
	}

	view.CurrentPage = pagination.Normalize(page)
	view.PageNumbers = pagination.PageNumbers(view.TotalComments, size)

	return view, nil
}

// ListArticles — главная страница: все статьи, сначала новые.
func (s *Service) ListArticles(ctx context.Context) ([]models.ArticleSummary, error) {
	const op = "service/articles/ListArticles"

	items, err := s.storage.ListArticles(ctx)
	if err != nil {
		log.From(ctx).Error("storage error on ListArticles", "op", op, "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	return items, nil
}

// PublishArticle сохраняет новую статью и возвращает её id.
// Title и RawContent обязательны (после TrimSpace для title).
func (s *Service) PublishArticle(ctx context.Context, in PublishInput) (string, error) {
	const op = "service/articles/PublishArticle"

	lg := log.From(ctx).With("op", op, "author_id", in.AuthorID)

	if strings.TrimSpace(in.AuthorID) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.RawContent) == "" {
		lg.Warn("invalid argument: empty title or content")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	id, err := s.storage.InsertArticle(ctx, models.Article{
		Title:      title,
		RawContent: in.RawContent,
		Tags:       normalizeTags(in.Tags),
		AuthorID:   in.AuthorID,
		Status:     models.StatusPublished,
	})
	if err != nil {
		lg.Error("storage error on InsertArticle", "err", err)
		return "", fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	lg.Info("article_published", "article_id", id)
	return id, nil
}

// ArticleForEdit возвращает статью без комментариев, если editorID — её автор.
func (s *Service) ArticleForEdit(ctx context.Context, editorID, id string) (*models.Article, error) {
	const op = "service/articles/ArticleForEdit"

	a, err := s.ownArticle(ctx, editorID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// EditArticle перезаписывает title/raw_content/tags. Статус статьи сохраняется.
func (s *Service) EditArticle(ctx context.Context, in EditInput) error {
	const op = "service/articles/EditArticle"

	lg := log.From(ctx).With("op", op, "article_id", in.ArticleID, "editor_id", in.EditorID)

	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.RawContent) == "" {
		lg.Warn("invalid argument: empty title or content")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	a, err := s.ownArticle(ctx, in.EditorID, in.ArticleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.storage.UpdateArticleFields(ctx, in.ArticleID, models.ArticleFields{
		Title:      title,
		RawContent: in.RawContent,
		Tags:       normalizeTags(in.Tags),
		Status:     a.Status,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on UpdateArticleFields", "err", err)
		return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	lg.Info("article_updated")
	return nil
}

// ownArticle загружает статью и проверяет, что editorID — её автор.
func (s *Service) ownArticle(ctx context.Context, editorID, id string) (*models.Article, error) {
	if strings.TrimSpace(editorID) == "" {
		return nil, ErrUnauthenticated
	}

	a, err := s.storage.ArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		log.From(ctx).Error("storage error on ArticleByID", "article_id", id, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	if a.AuthorID != editorID {
		log.From(ctx).Warn("edit denied: not an author", "article_id", id, "editor_id", editorID)
		return nil, ErrPermissionDenied
	}

	return a, nil
}

// AddComment дописывает комментарий в конец статьи.
// ReplyTo (если задан) разрешается в имя адресата на момент записи.
func (s *Service) AddComment(ctx context.Context, in CommentInput) error {
	const op = "service/articles/AddComment"

	lg := log.From(ctx).With("op", op, "article_id", in.ArticleID, "author_id", in.AuthorID)

	if strings.TrimSpace(in.AuthorID) == "" {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		lg.Warn("invalid argument: empty content")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	comment := models.Comment{
		Content:    content,
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		Status:     models.StatusPublished,
	}

	if rt := strings.TrimSpace(in.ReplyTo); rt != "" {
		target, err := s.storage.UserByID(ctx, rt)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				lg.Warn("invalid argument: reply_to user not found", "reply_to", rt)
				return fmt.Errorf("%s: reply_to: %w", op, ErrInvalidArgument)
			}

			lg.Error("storage error on UserByID", "err", err)
			return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
		}

		comment.ReplyTo = target.ID
		comment.ReplyToName = target.Username
	}

	ok, err := s.storage.AppendComment(ctx, in.ArticleID, comment)
	if err != nil {
		lg.Error("storage error on AppendComment", "err", err)
		return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
	}

	if !ok {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	metrics.CommentsAppendedTotal.Inc()
	lg.Info("comment_appended")

	return nil
}

// normalizeTags обрезает пробелы, выбрасывает пустые и повторяющиеся теги с сохранением порядка.
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))

	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}
