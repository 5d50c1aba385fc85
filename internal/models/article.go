// Package models содержит доменные сущности blog-сервиса.
package models

import "time"

// StatusPublished — единственный используемый статус статьи/комментария/пользователя.
const StatusPublished int32 = 1

// Article — статья вместе с вложенной последовательностью комментариев.
// Важно:
//   - ID — ObjectID MongoDB, наружу/вовнутрь конвертируется в hex-строку;
//   - AuthorID ссылается на User.ID;
//   - UpdatedTime >= CreatedTime;
//   - Comments принадлежат только этой статье и только дописываются в конец.
type Article struct {
	ID          string
	Title       string
	RawContent  string
	Tags        []string
	AuthorID    string
	CreatedTime time.Time
	UpdatedTime time.Time
	Status      int32
	Comments    []Comment
}

// Comment — комментарий под статьёй.
// AuthorName и ReplyToName — снимки имён на момент записи,
// при переименовании пользователя не обновляются.
type Comment struct {
	Content     string
	AuthorID    string
	AuthorName  string
	ReplyTo     string
	ReplyToName string
	CreatedTime time.Time
	UpdatedTime time.Time
	Status      int32
}

// ArticleFields — изменяемые поля статьи (редактирование автором).
type ArticleFields struct {
	Title      string
	RawContent string
	Tags       []string
	Status     int32
}
