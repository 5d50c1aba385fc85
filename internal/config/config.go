// config реализует конфигурацию blog-сервиса: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
//
// Загружается один раз в main и передаётся в конструкторы явно.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	DB       DBConfig      `yaml:"db"`
	Redis    RedisConfig   `yaml:"redis"`
	OAuth    OAuthConfig   `yaml:"oauth"`
	Session  SessionConfig `yaml:"session"`
	Limits   LimitsConfig  `yaml:"limits"`
	Breaker  BreakerConfig `yaml:"breaker"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — общий дедлайн обработки запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// HTTPConfig — публичный HTTP-сервер (API + health/metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"9527"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — настройки подключения к MongoDB.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// RedisConfig — хранилище сессий.
type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL" env-required:"true"`
}

// OAuthConfig — параметры внешнего провайдера идентичности.
// ClientID/ClientSecret/RedirectURI раньше читались из окружения лениво;
// теперь это обычная часть конфигурации.
type OAuthConfig struct {
	Provider     string        `yaml:"provider"      env:"OAUTH_PROVIDER"      env-default:"gitee"`
	ClientID     string        `yaml:"client_id"     env:"OAUTH_CLIENT_ID"`
	ClientSecret string        `yaml:"client_secret" env:"OAUTH_CLIENT_SECRET"`
	RedirectURI  string        `yaml:"redirect_uri"  env:"OAUTH_REDIRECT_URI"`
	AuthorizeURL string        `yaml:"authorize_url" env:"OAUTH_AUTHORIZE_URL" env-default:"https://gitee.com/oauth/authorize"`
	TokenURL     string        `yaml:"token_url"     env:"OAUTH_TOKEN_URL"     env-default:"https://gitee.com/oauth/token"`
	ProfileURL   string        `yaml:"profile_url"   env:"OAUTH_PROFILE_URL"   env-default:"https://gitee.com/api/v5/user"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"  env:"OAUTH_HTTP_TIMEOUT"  env-default:"10s"`
}

// SessionConfig — cookie-сессии.
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE" env-default:"blog_sid"`
	TTL        time.Duration `yaml:"ttl"         env:"SESSION_TTL"    env-default:"168h"`
	Secure     bool          `yaml:"secure"      env:"SESSION_SECURE" env-default:"false"`
}

// LimitsConfig — размеры страниц.
type LimitsConfig struct {
	// Размер страницы комментариев под статьёй. Задаётся сервисом, не клиентом.
	CommentPageSize int `yaml:"comment_page_size" env:"COMMENT_PAGE_SIZE" env-default:"20"`
}

// BreakerConfig — circuit breaker вокруг вызовов провайдера.
type BreakerConfig struct {
	MaxRequests  uint32        `yaml:"max_requests"  env:"BREAKER_MAX_REQUESTS"  env-default:"3"`
	Interval     time.Duration `yaml:"interval"      env:"BREAKER_INTERVAL"      env-default:"30s"`
	Timeout      time.Duration `yaml:"timeout"       env:"BREAKER_TIMEOUT"       env-default:"60s"`
	FailureRatio float64       `yaml:"failure_ratio" env:"BREAKER_FAILURE_RATIO" env-default:"0.6"`
	MinRequests  uint32        `yaml:"min_requests"  env:"BREAKER_MIN_REQUESTS"  env-default:"5"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) error {
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return fmt.Errorf("failed to overlay env: %w", err)
		}

		return nil
	}

	switch {
	case path != "":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}

		if err := readFile(path); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		envPath := os.Getenv("CONFIG_PATH")
		if _, err := os.Stat(envPath); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", envPath, err)
		}

		if err := readFile(envPath); err != nil {
			return nil, err
		}
	case fileExists("local.yaml"):
		if err := readFile("local.yaml"); err != nil {
			return nil, fmt.Errorf("local.yaml: %w", err)
		}
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if strings.TrimSpace(c.DB.URL) == "" {
		return fmt.Errorf("db.url is required")
	}

	if strings.TrimSpace(c.Redis.URL) == "" {
		return fmt.Errorf("redis.url is required")
	}

	if strings.TrimSpace(c.OAuth.Provider) == "" {
		return fmt.Errorf("oauth.provider is required")
	}

	if c.OAuth.Provider == "local" {
		return fmt.Errorf("oauth.provider must differ from the local auth type")
	}

	if c.Limits.CommentPageSize <= 0 {
		return fmt.Errorf("limits.comment_page_size must be > 0")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be > 0")
	}

	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("breaker.failure_ratio must be in (0, 1]")
	}

	return nil
}
