// Package oauth — клиент внешнего провайдера идентичности:
// обмен кода на токен и получение профиля, оба вызова за circuit breaker.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pribylovaa/go-blog/internal/config"
	"github.com/pribylovaa/go-blog/internal/metrics"
	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/pribylovaa/go-blog/internal/pkg/log"
	"github.com/pribylovaa/go-blog/internal/pkg/redact"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
)

// maxErrorBody — сколько байт тела ошибки провайдера сохраняем для диагностики.
const maxErrorBody = 64 << 10

//go:generate mockgen -source=oauth.go -destination=../../mocks/provider.go -package=mocks

// Provider — контракт внешнего провайдера идентичности.
type Provider interface {
	// Name — значение auth_type у пользователей этого провайдера.
	Name() string
	// AuthorizeURL — адрес страницы авторизации провайдера с переданным state.
	AuthorizeURL(state string) string
	// Exchange меняет одноразовый code на access token.
	Exchange(ctx context.Context, code string) (string, error)
	// Profile получает профиль пользователя по access token.
	Profile(ctx context.Context, accessToken string) (*models.RemoteProfile, error)
}

// ProviderError — провайдер недоступен или ответил ошибкой.
// Body — сырое тело ответа (для диагностики), StatusCode = 0 для транспортных ошибок.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("provider %s: status %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("provider %s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("provider %s failed", e.Op)
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }

// clientFault — провайдер жив, но отверг запрос (например, протухший code).
// Такие ответы не должны размыкать breaker.
func (e *ProviderError) clientFault() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Client — реализация Provider поверх golang.org/x/oauth2 и net/http.
type Client struct {
	name       string
	conf       *oauth2.Config
	profileURL string
	httpc      *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// New собирает клиент из конфигурации.
// httpc может быть nil — тогда используется клиент с cfg.HTTPTimeout.
func New(cfg config.OAuthConfig, bcfg config.BreakerConfig, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &Client{
		name: cfg.Provider,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizeURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profileURL: cfg.ProfileURL,
		httpc:      httpc,
		breaker:    newBreaker(cfg.Provider, bcfg),
	}
}

func newBreaker(name string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "oauth-" + name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}

			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}

			var pe *ProviderError
			return errors.As(err, &pe) && pe.clientFault()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

func (c *Client) Name() string { return c.name }

// AuthorizeURL: ?client_id=..&redirect_uri=..&response_type=code&state=..
func (c *Client) AuthorizeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

// Exchange — POST на token endpoint (grant_type, code, client_id, client_secret, redirect_uri в теле формы).
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	const op = "exchange"

	lg := log.From(ctx).With("op", "oauth/Exchange", "provider", c.name)
	lg.Debug("token_exchange_start", "code", redact.Code(code))

	res, err := c.execute(op, func() (interface{}, error) {
		tok, err := c.conf.Exchange(context.WithValue(ctx, oauth2.HTTPClient, c.httpc), code)
		if err != nil {
			return nil, exchangeError(err)
		}

		return tok.AccessToken, nil
	})
	if err != nil {
		lg.Warn("token_exchange_failed", "err", err)
		return "", err
	}

	lg.Debug("token_exchange_ok", "access_token", redact.Token())
	return res.(string), nil
}

// exchangeError приводит ошибку x/oauth2 к *ProviderError, сохраняя сырое тело ответа.
func exchangeError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		pe := &ProviderError{Op: "exchange", Body: string(re.Body), Err: err}
		if re.Response != nil {
			pe.StatusCode = re.Response.StatusCode
		}

		return pe
	}

	return &ProviderError{Op: "exchange", Err: err}
}

// Profile — GET profile endpoint с ?access_token=.
func (c *Client) Profile(ctx context.Context, accessToken string) (*models.RemoteProfile, error) {
	const op = "profile"

	lg := log.From(ctx).With("op", "oauth/Profile", "provider", c.name)

	res, err := c.execute(op, func() (interface{}, error) {
		return c.fetchProfile(ctx, accessToken)
	})
	if err != nil {
		lg.Warn("profile_fetch_failed", "err", err)
		return nil, err
	}

	p := res.(*models.RemoteProfile)
	lg.Debug("profile_fetched", "remote_id", p.ID, "login", p.Login)

	return p, nil
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (*models.RemoteProfile, error) {
	u, err := url.Parse(c.profileURL)
	if err != nil {
		return nil, &ProviderError{Op: "profile", Err: err}
	}

	q := u.Query()
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ProviderError{Op: "profile", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &ProviderError{Op: "profile", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ProviderError{Op: "profile", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var p models.RemoteProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, &ProviderError{Op: "profile", Err: fmt.Errorf("decode: %w", err)}
	}

	if p.ID == 0 {
		return nil, &ProviderError{Op: "profile", Err: errors.New("profile without id")}
	}

	return &p, nil
}

// execute прогоняет вызов через breaker и считает исход в метриках.
// Разомкнутый breaker тоже отдаётся как *ProviderError.
func (c *Client) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	res, err := c.breaker.Execute(fn)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(op, metrics.OutcomeError).Inc()

		var pe *ProviderError
		if errors.As(err, &pe) {
			return nil, pe
		}

		return nil, &ProviderError{Op: op, Err: err}
	}

	metrics.ProviderRequests.WithLabelValues(op, metrics.OutcomeOK).Inc()
	return res, nil
}
