package mongo

import (
	"time"

	"github.com/pribylovaa/go-blog/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Документы коллекций. Модели остаются без bson-тегов и ObjectID,
// конвертация выполняется только здесь.

type articleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	RawContent  string             `bson:"raw_content"`
	Tags        []string           `bson:"tags"`
	AuthorID    primitive.ObjectID `bson:"author_id"`
	CreatedTime time.Time          `bson:"created_time"`
	UpdatedTime time.Time          `bson:"updated_time"`
	Status      int32              `bson:"status"`
	Comments    []commentDoc       `bson:"comments"`
}

type commentDoc struct {
	Content     string              `bson:"content"`
	AuthorID    primitive.ObjectID  `bson:"author_id"`
	AuthorName  string              `bson:"author_name"`
	ReplyTo     *primitive.ObjectID `bson:"reply_to,omitempty"`
	ReplyToName string              `bson:"reply_to_name,omitempty"`
	CreatedTime time.Time           `bson:"created_time"`
	UpdatedTime time.Time           `bson:"updated_time"`
	Status      int32               `bson:"status"`
}

// articleWindowDoc — результат агрегирующего запроса страницы статьи.
type articleWindowDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Title         string             `bson:"title"`
	RawContent    string             `bson:"raw_content"`
	Tags          []string           `bson:"tags"`
	AuthorID      primitive.ObjectID `bson:"author_id"`
	CreatedTime   time.Time          `bson:"created_time"`
	UpdatedTime   time.Time          `bson:"updated_time"`
	Status        int32              `bson:"status"`
	Comments      []commentDoc       `bson:"comments"`
	AuthorName    string             `bson:"author_name"`
	AuthorCount   int                `bson:"author_count"`
	TotalComments int                `bson:"total_comments"`
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	AuthType     string             `bson:"auth_type"`
	Inner        *innerDoc          `bson:"inner,omitempty"`
	PasswordHash []byte             `bson:"password_hash,omitempty"`
	CreatedTime  time.Time          `bson:"created_time"`
	UpdatedTime  time.Time          `bson:"updated_time"`
	Status       int32              `bson:"status"`
}

type innerDoc struct {
	ID        int64  `bson:"id"`
	Login     string `bson:"login"`
	Name      string `bson:"name"`
	AvatarURL string `bson:"avatar_url"`
	Blog      string `bson:"blog"`
	CreatedAt string `bson:"created_at"`
	Email     string `bson:"email,omitempty"`
}

// toMS — MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func commentFromDoc(d commentDoc) models.Comment {
	c := models.Comment{
		Content:     d.Content,
		AuthorID:    d.AuthorID.Hex(),
		AuthorName:  d.AuthorName,
		ReplyToName: d.ReplyToName,
		CreatedTime: d.CreatedTime.UTC(),
		UpdatedTime: d.UpdatedTime.UTC(),
		Status:      d.Status,
	}

	if d.ReplyTo != nil {
		c.ReplyTo = d.ReplyTo.Hex()
	}

	return c
}

func commentsFromDocs(ds []commentDoc) []models.Comment {
	out := make([]models.Comment, 0, len(ds))
	for _, d := range ds {
		out = append(out, commentFromDoc(d))
	}

	return out
}

func articleFromDoc(d articleDoc) *models.Article {
	return &models.Article{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		RawContent:  d.RawContent,
		Tags:        d.Tags,
		AuthorID:    d.AuthorID.Hex(),
		CreatedTime: d.CreatedTime.UTC(),
		UpdatedTime: d.UpdatedTime.UTC(),
		Status:      d.Status,
		Comments:    commentsFromDocs(d.Comments),
	}
}

func viewFromDoc(d articleWindowDoc) *models.ArticleView {
	return &models.ArticleView{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		RawContent:    d.RawContent,
		Tags:          d.Tags,
		AuthorID:      d.AuthorID.Hex(),
		AuthorName:    d.AuthorName,
		CreatedTime:   d.CreatedTime.UTC(),
		UpdatedTime:   d.UpdatedTime.UTC(),
		Status:        d.Status,
		Comments:      commentsFromDocs(d.Comments),
		TotalComments: d.TotalComments,
	}
}

func userFromDoc(d userDoc) *models.User {
	u := &models.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		AuthType:     d.AuthType,
		PasswordHash: d.PasswordHash,
		CreatedTime:  d.CreatedTime.UTC(),
		UpdatedTime:  d.UpdatedTime.UTC(),
		Status:       d.Status,
	}

	if d.Inner != nil {
		u.Inner = models.ExternalProfile{
			ID:        d.Inner.ID,
			Login:     d.Inner.Login,
			Name:      d.Inner.Name,
			AvatarURL: d.Inner.AvatarURL,
			Blog:      d.Inner.Blog,
			CreatedAt: d.Inner.CreatedAt,
			Email:     d.Inner.Email,
		}
	}

	return u
}
