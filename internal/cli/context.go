package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/i474232898/gsm-forecast/internal/cities"
	"github.com/i474232898/gsm-forecast/internal/config"
	"github.com/i474232898/gsm-forecast/internal/dispatch"
	"github.com/i474232898/gsm-forecast/internal/weather"
	"github.com/i474232898/gsm-forecast/internal/weather/providers"
)

// Context carries the dependencies shared by every sub-command.
type Context struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	Fetcher  weather.ForecastFetcher
	Resolver *cities.Resolver
}

// NewContext wires the GSM client and the city table from cfg.
func NewContext(cfg *config.AppConfig, logger *slog.Logger) (*Context, error) {
	if cfg.UsingSampleToken() {
		logger.Warn("using the sample API token; set WEATHER_API_TOKEN for production use")
	}
	logger.Info("forecast client configured", "base_url", cfg.BaseURL, "token", cfg.MaskedToken(), "timeout", cfg.HTTPTimeout.String())

	table := cities.Builtin()
	if cfg.CityTableFile != "" {
		loaded, err := cities.LoadTable(cfg.CityTableFile)
		if err != nil {
			return nil, fmt.Errorf("load cities: %w", err)
		}
		table = loaded
		logger.Info("city table loaded", "path", cfg.CityTableFile, "entries", len(table))
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	fetcher := providers.NewGSMProvider(httpClient, cfg.APIToken,
		providers.WithBaseURL(cfg.BaseURL),
		providers.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		providers.WithLogger(logger),
	)

	return &Context{
		Config:   cfg,
		Logger:   logger,
		Fetcher:  fetcher,
		Resolver: cities.NewResolver(table),
	}, nil
}

func (c *Context) Dispatcher() *dispatch.Dispatcher {
	return dispatch.New(c.Fetcher, c.Resolver, c.Logger)
}
