package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/gsm-forecast/internal/cities"
	"github.com/i474232898/gsm-forecast/internal/config"
	"github.com/i474232898/gsm-forecast/internal/dispatch"
	"github.com/i474232898/gsm-forecast/internal/weather"
	"github.com/i474232898/gsm-forecast/internal/weather/providers"
)

type staticFetcher struct {
	err  error
	last weather.Coordinate
}

func (f *staticFetcher) Fetch(_ context.Context, coord weather.Coordinate, hours int) (*weather.Forecast, error) {
	f.last = coord
	if f.err != nil {
		return nil, f.err
	}
	var rec weather.RawRecord
	body := `{"datetime":"2025-01-01 00:00:00","TMP":7.25,"APCP":0,"WSPD":1,"WDIR":180,"RH":50,"TCDC":50,"PRES":1020}`
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, err
	}
	return weather.NewForecast(coord, "20250101_0000", []weather.RawRecord{rec}, hours)
}

func testContext(fetcher weather.ForecastFetcher) *Context {
	resolver := cities.NewResolver(cities.Table{
		{Name: "Tokyo", Latitude: 35.6762, Longitude: 139.6503},
		{Name: "Kyoto", Latitude: 35.0116, Longitude: 135.7681},
	})
	return &Context{
		Config:   &config.AppConfig{Port: "0", WatchInterval: time.Hour},
		Logger:   slog.New(slog.DiscardHandler),
		Fetcher:  fetcher,
		Resolver: resolver,
	}
}

func execute(t *testing.T, ctx *Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := RootCommand(ctx)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestForecastCommand(t *testing.T) {
	fetcher := &staticFetcher{}

	out, err := execute(t, testContext(fetcher), "forecast", "35.5,139.5", "--hours", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "# Weather forecast\n")
	assert.Contains(t, out, "Wind:1.0m/s(S 180°)")
	assert.Equal(t, weather.Coordinate{Latitude: 35.5, Longitude: 139.5}, fetcher.last)

	_, err = execute(t, testContext(fetcher), "forecast", "--", "-33.87", "151.21")
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinate{Latitude: -33.87, Longitude: 151.21}, fetcher.last)
}

func TestForecastCommand_JSON(t *testing.T) {
	out, err := execute(t, testContext(&staticFetcher{}), "forecast", "1", "2", "--format", "json")
	require.NoError(t, err)

	var doc dispatch.ForecastDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.InDelta(t, 7.25, doc.Forecast[0].Temperature, 1e-9)
}

func TestForecastCommand_Errors(t *testing.T) {
	_, err := execute(t, testContext(&staticFetcher{}), "forecast", "abc", "1")
	assert.ErrorContains(t, err, `latitude "abc" is not a number`)

	_, err = execute(t, testContext(&staticFetcher{}), "forecast", "1,2", "--hours", "0")
	assert.ErrorContains(t, err, "Invalid arguments: hours must be >= 1")

	upstream := weather.NewError(weather.KindUpstream, "fetch forecast", "invalid token", nil)
	_, err = execute(t, testContext(&staticFetcher{err: upstream}), "forecast", "1,2")
	assert.ErrorContains(t, err, "Weather API error: fetch forecast: invalid token")
}

func TestCityCommand(t *testing.T) {
	fetcher := &staticFetcher{}

	out, err := execute(t, testContext(fetcher), "city", "Kyoto")
	require.NoError(t, err)
	assert.Contains(t, out, "# Weather forecast for Kyoto")
	assert.Equal(t, weather.Coordinate{Latitude: 35.0116, Longitude: 135.7681}, fetcher.last)

	out, err = execute(t, testContext(fetcher), "city", "yo")
	require.NoError(t, err)
	assert.Contains(t, out, "Similar cities: Tokyo, Kyoto")
}

func TestCitiesAndSearchCommands(t *testing.T) {
	out, err := execute(t, testContext(&staticFetcher{}), "cities")
	require.NoError(t, err)
	assert.Equal(t, "# Available cities (2)\n\nTokyo, Kyoto\n", out)

	out, err = execute(t, testContext(&staticFetcher{}), "search", "Ky")
	require.NoError(t, err)
	assert.Equal(t, "# Search results for 'Ky' (1)\n\nKyoto\n", out)
}

func TestToolsCommand(t *testing.T) {
	out, err := execute(t, testContext(&staticFetcher{}), "tools")
	require.NoError(t, err)

	var tools []dispatch.Tool
	require.NoError(t, json.Unmarshal([]byte(out), &tools))
	assert.Len(t, tools, 4)
}

func TestNewContext(t *testing.T) {
	cfg := &config.AppConfig{
		APIToken:    config.SampleToken,
		BaseURL:     providers.DefaultGSMBaseURL,
		HTTPTimeout: time.Second,
		RateLimit:   1,
		RateBurst:   1,
	}
	var logs bytes.Buffer
	ctx, err := NewContext(cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	assert.IsType(t, &providers.GSMProvider{}, ctx.Fetcher)
	assert.Equal(t, len(cities.Builtin()), ctx.Resolver.Len())
	assert.Contains(t, logs.String(), "using the sample API token")
	assert.Contains(t, logs.String(), "token=api_sample")
}

func TestNewContext_CityTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: Oslo\n  latitude: 59.9139\n  longitude: 10.7522\n"), 0o600))

	cfg := &config.AppConfig{APIToken: "secret", CityTableFile: path, HTTPTimeout: time.Second}
	var logs bytes.Buffer
	ctx, err := NewContext(cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	assert.Equal(t, []string{"Oslo"}, ctx.Resolver.Names())
	assert.Contains(t, logs.String(), "token=***")
	assert.NotContains(t, logs.String(), "secret")

	cfg.CityTableFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewContext(cfg, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "load cities")
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return strconv.Itoa(port)
}

func TestServe_StopsOnCancel(t *testing.T) {
	port := freePort(t)
	runCtx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- serve(runCtx, testContext(&staticFetcher{}), port)
	}()

	url := fmt.Sprintf("http://127.0.0.1:%s/health", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}
