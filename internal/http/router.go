package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-blog/internal/config"
	"github.com/pribylovaa/go-blog/internal/http/handlers"
	"github.com/pribylovaa/go-blog/internal/http/middleware"
	"github.com/pribylovaa/go-blog/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
	Session  config.SessionConfig
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса, в т.ч. на чтение сессии
	}
	root.Use(middleware.Session(svc, opts.Session.CookieName))

	h := handlers.New(svc, opts.Session, opts.BasePath)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// articles
	r.Get("/", h.ListArticles)
	r.Get("/articles/{id}", h.GetArticle)
	r.Post("/articles", h.PublishArticle)
	r.Get("/articles/{id}/edit", h.ArticleForEdit)
	r.Put("/articles/{id}", h.EditArticle)
	r.Post("/articles/{id}/comments", h.AddComment)

	// auth
	r.Get("/signin", h.SignInPage)
	r.Get("/signin/callback", h.SignInCallback)
	r.Post("/signin", h.SignInLocal)
	r.Post("/signup", h.SignUp)
	r.Post("/signout", h.SignOut)
	r.Get("/account", h.Account)
}
