package models

import "time"

// ArticleView — статья для страницы чтения: скалярные поля,
// имя автора, окно комментариев и данные для нумерации страниц.
// TotalComments — размер всей последовательности, а не окна.
type ArticleView struct {
	ID            string
	Title         string
	RawContent    string
	Tags          []string
	AuthorID      string
	AuthorName    string
	CreatedTime   time.Time
	UpdatedTime   time.Time
	Status        int32
	Comments      []Comment
	TotalComments int
	CurrentPage   int
	PageNumbers   []int
}

// ArticleSummary — строка списка статей на главной.
type ArticleSummary struct {
	ID            string
	Title         string
	Tags          []string
	AuthorID      string
	AuthorName    string
	CreatedTime   time.Time
	UpdatedTime   time.Time
	TotalComments int
}
