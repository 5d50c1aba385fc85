package handlers

import (
	"time"

	"github.com/pribylovaa/go-blog/internal/models"
)

// JSON-представления ответов и запросов.

type CommentResponse struct {
	Content     string    `json:"content"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	ReplyTo     string    `json:"reply_to,omitempty"`
	ReplyToName string    `json:"reply_to_name,omitempty"`
	CreatedTime time.Time `json:"created_time"`
}

type ArticleViewResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	RawContent    string            `json:"raw_content"`
	Tags          []string          `json:"tags"`
	AuthorID      string            `json:"author_id"`
	AuthorName    string            `json:"author_name"`
	CreatedTime   time.Time         `json:"created_time"`
	UpdatedTime   time.Time         `json:"updated_time"`
	Comments      []CommentResponse `json:"comments"`
	TotalComments int               `json:"total_comments"`
	CurrentPage   int               `json:"current_page"`
	PageNumbers   []int             `json:"page_numbers"`
}

type ArticleSummaryResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Tags          []string  `json:"tags"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	CreatedTime   time.Time `json:"created_time"`
	UpdatedTime   time.Time `json:"updated_time"`
	TotalComments int       `json:"total_comments"`
}

type ArticleListResponse struct {
	Articles []ArticleSummaryResponse `json:"articles"`
}

// ArticleEditResponse — поля формы редактирования.
type ArticleEditResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	RawContent string   `json:"raw_content"`
	Tags       []string `json:"tags"`
}

type ArticleRequest struct {
	Title      string   `json:"title"`
	RawContent string   `json:"raw_content"`
	Tags       []string `json:"tags"`
}

type CommentRequest struct {
	Content string `json:"content"`
	ReplyTo string `json:"reply_to,omitempty"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type AccountResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type AuthorizeResponse struct {
	AuthorizeURL string `json:"authorize_url"`
}

func commentsToResponse(in []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(in))
	for _, c := range in {
		out = append(out, CommentResponse{
			Content:     c.Content,
			AuthorID:    c.AuthorID,
			AuthorName:  c.AuthorName,
			ReplyTo:     c.ReplyTo,
			ReplyToName: c.ReplyToName,
			CreatedTime: c.CreatedTime,
		})
	}
	return out
}

func articleViewToResponse(v *models.ArticleView) ArticleViewResponse {
	return ArticleViewResponse{
		ID:            v.ID,
		Title:         v.Title,
		RawContent:    v.RawContent,
		Tags:          nonNil(v.Tags),
		AuthorID:      v.AuthorID,
		AuthorName:    v.AuthorName,
		CreatedTime:   v.CreatedTime,
		UpdatedTime:   v.UpdatedTime,
		Comments:      commentsToResponse(v.Comments),
		TotalComments: v.TotalComments,
		CurrentPage:   v.CurrentPage,
		PageNumbers:   v.PageNumbers,
	}
}

func summariesToResponse(in []models.ArticleSummary) ArticleListResponse {
	out := ArticleListResponse{Articles: make([]ArticleSummaryResponse, 0, len(in))}
	for _, a := range in {
		out.Articles = append(out.Articles, ArticleSummaryResponse{
			ID:            a.ID,
			Title:         a.Title,
			Tags:          nonNil(a.Tags),
			AuthorID:      a.AuthorID,
			AuthorName:    a.AuthorName,
			CreatedTime:   a.CreatedTime,
			UpdatedTime:   a.UpdatedTime,
			TotalComments: a.TotalComments,
		})
	}
	return out
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
