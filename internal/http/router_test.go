package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-blog/internal/config"
	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/pribylovaa/go-blog/internal/service"
	"github.com/pribylovaa/go-blog/mocks"
)

func newTestRouter(t *testing.T, basePath string) (http.Handler, *mocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)

	sessions := mocks.NewMockStore(ctrl)
	cfg := config.Config{
		Limits:  config.LimitsConfig{CommentPageSize: 20},
		Session: config.SessionConfig{CookieName: "blog_sid", TTL: time.Hour},
	}
	svc := service.New(mocks.NewMockStorage(ctrl), mocks.NewMockProvider(ctrl), sessions, cfg)

	h := NewRouter(svc, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:  time.Second,
		BasePath: basePath,
		Session:  cfg.Session,
	})

	return h, sessions
}

func TestRouter_AccountThroughSessionCookie(t *testing.T) {
	h, sessions := newTestRouter(t, "")

	sessions.EXPECT().Get(gomock.Any(), "sid-1").Return(&models.SessionWrite{UserID: "u1", Username: "alice"}, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(&http.Cookie{Name: "blog_sid", Value: "sid-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"username":"alice"`)
	require.Len(t, rr.Header().Get("X-Request-Id"), 32)
}

func TestRouter_SessionStoreDown_IsAnonymous(t *testing.T) {
	h, sessions := newTestRouter(t, "")

	sessions.EXPECT().Get(gomock.Any(), "sid-1").Return(nil, false, errors.New("redis down"))

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(&http.Cookie{Name: "blog_sid", Value: "sid-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_BasePath(t *testing.T) {
	h, _ := newTestRouter(t, "/blog")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog/account", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/account", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_UnknownMethod(t *testing.T) {
	h, _ := newTestRouter(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/articles/x", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouter_ExternalSignInUnderBasePath(t *testing.T) {
	ctrl := gomock.NewController(t)

	st := mocks.NewMockStorage(ctrl)
	provider := mocks.NewMockProvider(ctrl)
	sessions := mocks.NewMockStore(ctrl)

	cfg := config.Config{
		Limits:  config.LimitsConfig{CommentPageSize: 20},
		Session: config.SessionConfig{CookieName: "blog_sid", TTL: time.Hour},
	}
	svc := service.New(st, provider, sessions, cfg)
	h := NewRouter(svc, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		BasePath: "/api",
		Session:  cfg.Session,
	})

	provider.EXPECT().AuthorizeURL(gomock.Any()).Return("https://provider.example/authorize")
	provider.EXPECT().Name().Return("gitee").AnyTimes()
	provider.EXPECT().Exchange(gomock.Any(), "abc").Return("tok", nil)
	provider.EXPECT().Profile(gomock.Any(), "tok").Return(&models.RemoteProfile{ID: 7, Login: "alice"}, nil)
	st.EXPECT().UserByExternalID(gomock.Any(), "gitee", int64(7)).Return(&models.User{ID: "u1", Username: "alice"}, nil)
	sessions.EXPECT().Create(gomock.Any(), models.SessionWrite{UserID: "u1", Username: "alice"}).Return("sid-1", nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/signin", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var state *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "blog_oauth_state" {
			state = c
		}
	}
	require.NotNil(t, state)
	require.Equal(t, "/api/signin", state.Path)

	// Браузер отправляет cookie, только если путь callback лежит под её Path.
	callback := "/api/signin/callback?code=abc&state=" + state.Value
	require.True(t, strings.HasPrefix(callback, state.Path))

	req := httptest.NewRequest(http.MethodGet, callback, nil)
	req.AddCookie(&http.Cookie{Name: state.Name, Value: state.Value})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/api/", rr.Header().Get("Location"))
}
