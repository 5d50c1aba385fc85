package models

import "time"

// AuthTypeLocal — пользователь с локальным паролем.
// Любое другое значение AuthType — имя внешнего провайдера ("gitee").
const AuthTypeLocal = "local"

// User — локальная учётная запись.
// Inner заполнен только у пользователей внешнего провайдера;
// PasswordHash — только у локальных.
type User struct {
	ID           string
	Username     string
	AuthType     string
	Inner        ExternalProfile
	PasswordHash []byte
	CreatedTime  time.Time
	UpdatedTime  time.Time
	Status       int32
}

// ExternalProfile — снимок профиля провайдера на момент первого входа.
// После создания пользователя не обновляется.
type ExternalProfile struct {
	ID        int64
	Login     string
	Name      string
	AvatarURL string
	Blog      string
	CreatedAt string
	Email     string
}

// RemoteProfile — профиль, полученный от провайдера по access token.
type RemoteProfile struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      string  `json:"name"`
	AvatarURL string  `json:"avatar_url"`
	Blog      string  `json:"blog"`
	CreatedAt string  `json:"created_at"`
	Email     *string `json:"email"`
}

// External упаковывает профиль провайдера в ExternalProfile.
func (p RemoteProfile) External() ExternalProfile {
	out := ExternalProfile{
		ID:        p.ID,
		Login:     p.Login,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Blog:      p.Blog,
		CreatedAt: p.CreatedAt,
	}

	if p.Email != nil {
		out.Email = *p.Email
	}

	return out
}

// SessionWrite — всё, что пишется в сессию после успешного входа.
type SessionWrite struct {
	UserID   string
	Username string
}
