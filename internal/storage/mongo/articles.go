package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/pribylovaa/go-blog/internal/pkg/log"
	"github.com/pribylovaa/go-blog/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArticleByID возвращает статью без комментариев.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) ArticleByID(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage/mongo/ArticleByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	opts := options.FindOne().SetProjection(bson.D{{Key: "comments", Value: 0}})

	var doc articleDoc
	if err := m.articles.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return articleFromDoc(doc), nil
}

// ArticleWithCommentWindow — один aggregate: статья + имя автора + окно комментариев + их общее число.
func (m *Mongo) ArticleWithCommentWindow(ctx context.Context, id string, offset, limit int) (*models.ArticleView, error) {
	const op = "storage/mongo/ArticleWithCommentWindow"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	cur, err := m.articles.Aggregate(ctx, commentWindowPipeline(oid, offset, limit))
	if err != nil {
		return nil, fmt.Errorf("%s: aggregate: %w", op, err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("%s: cursor: %w", op, err)
		}

		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc articleWindowDoc
	if err := cur.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	if doc.AuthorCount == 0 {
		return nil, fmt.Errorf("%s: article %s author %s: %w", op, doc.ID.Hex(), doc.AuthorID.Hex(), storage.ErrDanglingReference)
	}

	return viewFromDoc(doc), nil
}

// ListArticles возвращает все статьи, сначала новые.
// Статья с отсутствующим автором не ломает главную: имя пустое, в лог уходит предупреждение.
func (m *Mongo) ListArticles(ctx context.Context) ([]models.ArticleSummary, error) {
	const op = "storage/mongo/ListArticles"

	cur, err := m.articles.Aggregate(ctx, listPipeline())
	if err != nil {
		return nil, fmt.Errorf("%s: aggregate: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.ArticleSummary, 0)
	for cur.Next(ctx) {
		var doc articleWindowDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		if doc.AuthorCount == 0 {
			log.From(ctx).Warn("dangling_author_reference",
				"op", op,
				"article_id", doc.ID.Hex(),
				"author_id", doc.AuthorID.Hex(),
			)
		}

		items = append(items, models.ArticleSummary{
			ID:            doc.ID.Hex(),
			Title:         doc.Title,
			Tags:          doc.Tags,
			AuthorID:      doc.AuthorID.Hex(),
			AuthorName:    doc.AuthorName,
			CreatedTime:   doc.CreatedTime.UTC(),
			UpdatedTime:   doc.UpdatedTime.UTC(),
			TotalComments: doc.TotalComments,
		})
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// InsertArticle сохраняет статью. Время и статус проставляются хранилищем,
// comments всегда пустой массив, чтобы $push и $slice работали без оговорок.
func (m *Mongo) InsertArticle(ctx context.Context, article models.Article) (string, error) {
	const op = "storage/mongo/InsertArticle"

	authorOID, err := primitive.ObjectIDFromHex(strings.TrimSpace(article.AuthorID))
	if err != nil {
		return "", fmt.Errorf("%s: author id: %w", op, err)
	}

	now := toMS(time.Now())
	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}

	status := article.Status
	if status == 0 {
		status = models.StatusPublished
	}

	doc := articleDoc{
		Title:       article.Title,
		RawContent:  article.RawContent,
		Tags:        tags,
		AuthorID:    authorOID,
		CreatedTime: now,
		UpdatedTime: now,
		Status:      status,
		Comments:    []commentDoc{},
	}

	res, err := m.articles.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%s: inserted id type", op)
	}

	return oid.Hex(), nil
}

// UpdateArticleFields перезаписывает изменяемые поля и updated_time.
func (m *Mongo) UpdateArticleFields(ctx context.Context, id string, fields models.ArticleFields) error {
	const op = "storage/mongo/UpdateArticleFields"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	tags := fields.Tags
	if tags == nil {
		tags = []string{}
	}

	res, err := m.articles.UpdateByID(ctx, oid, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "title", Value: fields.Title},
			{Key: "raw_content", Value: fields.RawContent},
			{Key: "tags", Value: tags},
			{Key: "status", Value: fields.Status},
			{Key: "updated_time", Value: toMS(time.Now())},
		}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// AppendComment — один UpdateOne с $push. Никакого чтения-изменения-записи:
// параллельные комментарии к одной статье не затирают друг друга.
func (m *Mongo) AppendComment(ctx context.Context, articleID string, comment models.Comment) (bool, error) {
	const op = "storage/mongo/AppendComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(articleID))
	if err != nil {
		return false, nil
	}

	authorOID, err := primitive.ObjectIDFromHex(strings.TrimSpace(comment.AuthorID))
	if err != nil {
		return false, fmt.Errorf("%s: author id: %w", op, err)
	}

	now := toMS(time.Now())
	doc := commentDoc{
		Content:     comment.Content,
		AuthorID:    authorOID,
		AuthorName:  comment.AuthorName,
		ReplyToName: comment.ReplyToName,
		CreatedTime: now,
		UpdatedTime: now,
		Status:      models.StatusPublished,
	}

	if rt := strings.TrimSpace(comment.ReplyTo); rt != "" {
		replyOID, err := primitive.ObjectIDFromHex(rt)
		if err != nil {
			return false, fmt.Errorf("%s: reply_to id: %w", op, err)
		}
		doc.ReplyTo = &replyOID
	}

	res, err := m.articles.UpdateByID(ctx, oid, bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: doc}}},
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.MatchedCount > 0, nil
}
