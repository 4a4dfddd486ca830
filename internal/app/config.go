package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8000/api"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`

	DefaultPageSize   int           `envconfig:"DEFAULT_PAGE_SIZE" default:"20"`
	NotifyDuration    time.Duration `envconfig:"NOTIFY_DURATION" default:"5s"`
	DashboardCacheTTL time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"60s"`

	RateLimit      int `envconfig:"RATE_LIMIT" default:"120"`
	LoginRateLimit int `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("api base url must be provided")
	}
	if cfg.DefaultPageSize <= 0 {
		return nil, errors.New("default page size must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
