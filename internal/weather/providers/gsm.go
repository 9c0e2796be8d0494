package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/gsm-forecast/internal/weather"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	// DefaultGSMBaseURL is the GSM hourly forecast endpoint.
	DefaultGSMBaseURL = "https://weather.ittools.biz/api/forecast/GSM"
	// SampleToken is the public demo token accepted by the upstream.
	SampleToken = "api_sample"

	gsmProviderName  = "gsm"
	defaultUserAgent = "gsm-forecast/1.0"
	maxBodySize      = 8 << 20
	maxBodyPreview   = 200
)

// GSMProvider implements weather.ForecastFetcher against the GSM forecast API.
// It performs exactly one upstream request per Fetch; retries are left to
// the caller.
type GSMProvider struct {
	name      string
	token     string
	baseURL   string
	userAgent string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
	logger    *slog.Logger
}

// GSMOption customises a GSMProvider.
type GSMOption func(*GSMProvider)

// WithBaseURL overrides the upstream endpoint (no trailing slash needed).
func WithBaseURL(baseURL string) GSMOption {
	return func(p *GSMProvider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRateLimit throttles outbound requests to rps with the given burst.
// rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) GSMOption {
	return func(p *GSMProvider) {
		if rps <= 0 {
			p.httpCfg.Limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		p.httpCfg.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) GSMOption {
	return func(p *GSMProvider) {
		p.userAgent = ua
	}
}

// WithLogger sets the logger; the provider attribute is added automatically.
func WithLogger(logger *slog.Logger) GSMOption {
	return func(p *GSMProvider) {
		p.logger = logger
	}
}

// NewGSMProvider creates a provider using client for transport. The client's
// Timeout bounds each request.
func NewGSMProvider(client *http.Client, token string, opts ...GSMOption) *GSMProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        gsmProviderName,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	p := &GSMProvider{
		name:      gsmProviderName,
		token:     token,
		baseURL:   DefaultGSMBaseURL,
		userAgent: defaultUserAgent,
		httpCfg: HTTPClientConfig{
			Client: client,
		},
		circuit: cb,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("provider", p.name)
	return p
}

func (p *GSMProvider) Name() string {
	return p.name
}

// gsmEnvelope is the upstream response wrapper. Pointers distinguish absent
// keys from zero values.
type gsmEnvelope struct {
	Code   *int            `json:"code"`
	Error  json.RawMessage `json:"error"`
	Result *struct {
		LatLng        *string              `json:"latlng"`
		Grib2FileTime *string              `json:"grib2file_time"`
		Forecast      *[]weather.RawRecord `json:"forecast"`
	} `json:"result"`
}

// Fetch retrieves the hourly forecast for coord truncated to hours.
func (p *GSMProvider) Fetch(ctx context.Context, coord weather.Coordinate, hours int) (*weather.Forecast, error) {
	const op = "fetch forecast"

	if err := weather.ValidateHours(hours); err != nil {
		return nil, err
	}
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/%s/%s", p.baseURL, url.PathEscape(p.token), coord.String())
		req, err := http.NewRequest(http.MethodGet, u, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if p.userAgent != "" {
			req.Header.Set("User-Agent", p.userAgent)
		}
		return req, nil
	}

	p.logger.Debug("fetching forecast", "coordinate", coord.String(), "hours", hours)

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, weather.NewError(weather.KindTransport, op, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, weather.NewError(weather.KindTransport, op, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("received non-OK status code", "status_code", resp.StatusCode, "response_body", truncateBodyPreview(string(body)))
		return nil, weather.NewError(weather.KindUpstream, op, fmt.Sprintf("HTTP error: %s", resp.Status), nil)
	}

	var envelope gsmEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, weather.NewError(weather.KindMalformedResponse, op, "failed to parse response", err)
	}

	if msg, ok := envelopeError(envelope.Error); ok {
		return nil, weather.NewError(weather.KindUpstream, op, msg, nil)
	}
	if envelope.Code == nil {
		return nil, malformed(op, `missing "code"`)
	}
	if *envelope.Code != http.StatusOK {
		return nil, weather.NewError(weather.KindUpstream, op, fmt.Sprintf("API error: code %d", *envelope.Code), nil)
	}

	result := envelope.Result
	switch {
	case result == nil:
		return nil, malformed(op, `missing "result"`)
	case result.LatLng == nil:
		return nil, malformed(op, `missing "result.latlng"`)
	case result.Grib2FileTime == nil:
		return nil, malformed(op, `missing "result.grib2file_time"`)
	case result.Forecast == nil:
		return nil, malformed(op, `missing "result.forecast"`)
	}

	upstreamCoord, err := weather.ParseCoordinate(*result.LatLng)
	if err != nil {
		return nil, weather.NewError(weather.KindMalformedResponse, op, "failed to parse response", err)
	}

	forecast, err := weather.NewForecast(upstreamCoord, *result.Grib2FileTime, *result.Forecast, hours)
	if err != nil {
		return nil, weather.NewError(weather.KindMalformedResponse, op, "failed to parse response", err)
	}

	p.logger.Debug("forecast fetched", "coordinate", upstreamCoord.String(), "hours", forecast.Len())
	return forecast, nil
}

// envelopeError reports the upstream error message when the error key is
// present and not null.
func envelopeError(raw json.RawMessage) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return trimmed, true
	}
	if msg == "" {
		msg = "upstream reported an error"
	}
	return msg, true
}

func malformed(op, msg string) error {
	return weather.NewError(weather.KindMalformedResponse, op, "failed to parse response: "+msg, nil)
}

// truncateBodyPreview truncates a response body for logging.
func truncateBodyPreview(body string) string {
	if len(body) > maxBodyPreview {
		return body[:maxBodyPreview] + "... (truncated)"
	}
	return body
}
