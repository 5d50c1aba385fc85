package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-blog/internal/errors"
	"github.com/pribylovaa/go-blog/internal/service"
)

func (h *Handlers) ListArticles(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListArticles(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summariesToResponse(list))
}

// GetArticle — страница статьи; comment_page необязателен, отсутствие = первая страница.
// comment_page — 32-битное целое, всё остальное — 400.
func (h *Handlers) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	page := 0
	if v := r.URL.Query().Get("comment_page"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			apierrors.WriteError(w, r, fmt.Errorf("comment_page: %w", service.ErrInvalidArgument))
			return
		}
		page = int(n)
	}

	view, err := h.Service.ArticleView(r.Context(), id, page)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleViewToResponse(view))
}

func (h *Handlers) PublishArticle(w http.ResponseWriter, r *http.Request) {
	cur, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req ArticleRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := h.Service.PublishArticle(r.Context(), service.PublishInput{
		AuthorID:   cur.User.UserID,
		Title:      req.Title,
		RawContent: req.RawContent,
		Tags:       req.Tags,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.Header().Set("Location", "/articles/"+id)
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

func (h *Handlers) ArticleForEdit(w http.ResponseWriter, r *http.Request) {
	cur, ok := requireSession(w, r)
	if !ok {
		return
	}

	a, err := h.Service.ArticleForEdit(r.Context(), cur.User.UserID, chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ArticleEditResponse{
		ID:         a.ID,
		Title:      a.Title,
		RawContent: a.RawContent,
		Tags:       nonNil(a.Tags),
	})
}

func (h *Handlers) EditArticle(w http.ResponseWriter, r *http.Request) {
	cur, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req ArticleRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	err := h.Service.EditArticle(r.Context(), service.EditInput{
		EditorID:   cur.User.UserID,
		ArticleID:  chi.URLParam(r, "id"),
		Title:      req.Title,
		RawContent: req.RawContent,
		Tags:       req.Tags,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	cur, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req CommentRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	err := h.Service.AddComment(r.Context(), service.CommentInput{
		ArticleID:  chi.URLParam(r, "id"),
		AuthorID:   cur.User.UserID,
		AuthorName: cur.User.Username,
		Content:    req.Content,
		ReplyTo:    req.ReplyTo,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
