package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// SampleToken is the public demo token; it is heavily rate limited upstream.
const SampleToken = "api_sample"

type AppConfig struct {
	// APIToken authenticates against the forecast API.
	APIToken    string        `envconfig:"WEATHER_API_TOKEN" default:"api_sample" validate:"required"`
	BaseURL     string        `envconfig:"WEATHER_API_BASE_URL" default:"https://weather.ittools.biz/api/forecast/GSM" validate:"required,url"`
	HTTPTimeout time.Duration `envconfig:"WEATHER_HTTP_TIMEOUT" default:"30s" validate:"gt=0"`

	// Outbound throttling; a zero RateLimit disables it.
	RateLimit float64 `envconfig:"WEATHER_RATE_LIMIT" default:"2" validate:"gte=0"`
	RateBurst int     `envconfig:"WEATHER_RATE_BURST" default:"4" validate:"gte=0"`

	// CityTableFile replaces the built-in city table when set.
	CityTableFile string `envconfig:"CITY_TABLE_FILE"`

	Port     string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Cities whose forecast is logged periodically by the watch scheduler.
	WatchCities   []string      `envconfig:"WATCH_CITIES"`
	WatchInterval time.Duration `envconfig:"WATCH_INTERVAL" default:"1h" validate:"gte=1m"`
}

var validate = validator.New()

// Load reads configuration from the environment with sensible defaults.
// Variables from envFiles (".env" when none are given) are applied first
// without overriding the real environment; a missing file is not an error.
func Load(envFiles ...string) (*AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.WatchCities = compact(cfg.WatchCities)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// compact trims entries and drops empty ones.
func compact(items []string) []string {
	out := items[:0]
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (c *AppConfig) UsingSampleToken() bool {
	return c.APIToken == SampleToken
}

// MaskedToken renders the token for logs. The sample token is shown as is.
func (c *AppConfig) MaskedToken() string {
	if c.UsingSampleToken() {
		return SampleToken
	}
	return "***"
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a text logger writing to w at the given level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}
