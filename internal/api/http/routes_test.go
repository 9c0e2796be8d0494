package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/gsm-forecast/internal/cities"
	"github.com/i474232898/gsm-forecast/internal/dispatch"
	"github.com/i474232898/gsm-forecast/internal/weather"
)

// cannedFetcher serves a fixed number of synthetic hours, or err.
type cannedFetcher struct {
	err   error
	calls int
	last  weather.Coordinate
}

func (f *cannedFetcher) Fetch(_ context.Context, coord weather.Coordinate, hours int) (*weather.Forecast, error) {
	f.calls++
	f.last = coord
	if f.err != nil {
		return nil, f.err
	}
	var records []weather.RawRecord
	for i := 0; i < 30; i++ {
		var rec weather.RawRecord
		body := fmt.Sprintf(`{"datetime":"2025-01-01 %02d:00:00","TMP":%d,"APCP":0,"WSPD":2,"WDIR":90,"RH":40,"TCDC":5,"PRES":1015}`, i%24, i)
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return weather.NewForecast(coord, "20250101_0000", records, hours)
}

func newTestApp(t *testing.T, fetcher weather.ForecastFetcher) *fiber.App {
	t.Helper()
	resolver := cities.NewResolver(cities.Table{
		{Name: "東京", Latitude: 35.6762, Longitude: 139.6503},
		{Name: "京都", Latitude: 35.0116, Longitude: 135.7681},
		{Name: "Tokyo", Latitude: 35.6762, Longitude: 139.6503},
	})
	d := dispatch.New(fetcher, resolver, slog.New(slog.DiscardHandler))
	return NewApp(d, nil)
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &cannedFetcher{})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","service":"gsm-forecast"}`, body)
}

func TestForecast_QueryValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing lat", "/api/v1/forecast?lng=139"},
		{"non-numeric lat", "/api/v1/forecast?lat=abc&lng=139"},
		{"non-numeric hours", "/api/v1/forecast?lat=35&lng=139&hours=many"},
		{"bad format", "/api/v1/forecast?lat=35&lng=139&format=xml"},
		{"lat out of range", "/api/v1/forecast?lat=91&lng=139"},
		{"hours out of range", "/api/v1/forecast?lat=35&lng=139&hours=173"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &cannedFetcher{}
			app := newTestApp(t, fetcher)

			resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body, `"error":true`)
			assert.Zero(t, fetcher.calls)
		})
	}
}

func TestForecast_Text(t *testing.T) {
	app := newTestApp(t, &cannedFetcher{})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/forecast?lat=35.6762&lng=139.6503&hours=3", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, fiber.MIMETextPlainCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, strings.HasPrefix(body, "# Weather forecast\n"))
	assert.Contains(t, body, "## 3-hour forecast")
}

func TestForecast_JSON(t *testing.T) {
	app := newTestApp(t, &cannedFetcher{})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/forecast?lat=0&lng=0&format=json", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, fiber.MIMEApplicationJSONCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))

	var doc dispatch.ForecastDocument
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Len(t, doc.Forecast, weather.DefaultHours)
	assert.Equal(t, "E", doc.Forecast[0].WindDirectionCompass)
}

func TestForecast_UpstreamFailureIsBadGateway(t *testing.T) {
	fetcher := &cannedFetcher{err: weather.NewError(weather.KindUpstream, "fetch forecast", "API error: code 500", nil)}
	app := newTestApp(t, fetcher)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/forecast?lat=35&lng=139", nil))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Weather API error: fetch forecast: API error: code 500")
}

func TestForecastByCity(t *testing.T) {
	fetcher := &cannedFetcher{}
	app := newTestApp(t, fetcher)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/forecast/city/%E4%BA%AC%E9%83%BD?hours=2", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, "# Weather forecast for 京都")
	assert.Equal(t, weather.Coordinate{Latitude: 35.0116, Longitude: 135.7681}, fetcher.last)
}

func TestForecastByCity_NotFound(t *testing.T) {
	fetcher := &cannedFetcher{}
	app := newTestApp(t, fetcher)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/forecast/city/%E4%BA%AC", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Similar cities: 東京, 京都")
	assert.Zero(t, fetcher.calls)
}

func TestCities(t *testing.T) {
	app := newTestApp(t, &cannedFetcher{})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/cities", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"count":3,"cities":["東京","京都","Tokyo"]}`, body)
}

func TestCitiesSearch(t *testing.T) {
	app := newTestApp(t, &cannedFetcher{})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/cities/search?q=%E4%BA%AC", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"query":"京","count":2,"cities":["東京","京都"]}`, body)

	resp, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/cities/search?q=Paris", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"query":"Paris","count":0,"cities":[]}`, body)

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/cities/search", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTools(t *testing.T) {
	app := newTestApp(t, &cannedFetcher{})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Tools []dispatch.Tool `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	require.Len(t, payload.Tools, 4)
	assert.Equal(t, dispatch.OpForecastByCoordinate, payload.Tools[0].Name)
}

func TestCallTool(t *testing.T) {
	fetcher := &cannedFetcher{}
	app := newTestApp(t, fetcher)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/get_weather_by_city", strings.NewReader(`{"city":"Tokyo","hours":1}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dispatch.Response
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.False(t, out.IsError)
	require.Len(t, out.Content, 1)
	assert.Contains(t, out.Content[0].Text, "# Weather forecast for Tokyo")
	assert.Equal(t, 1, fetcher.calls)
}

func TestCallTool_ErrorsStayInPayload(t *testing.T) {
	app := newTestApp(t, &cannedFetcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/get_forecast_by_coordinate", strings.NewReader(`{"latitude":100,"longitude":0}`))
	resp, body := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dispatch.Response
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.IsError)
	assert.Equal(t, weather.KindInvalidArgument, out.Kind)
}

func TestCallTool_UnknownAndMalformed(t *testing.T) {
	app := newTestApp(t, &cannedFetcher{})

	resp, _ := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/tools/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/tools/search_cities", strings.NewReader(`{broken`)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSHeaders(t *testing.T) {
	app := newTestApp(t, &cannedFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cities", nil)
	req.Header.Set("Origin", "https://example.test")
	resp, _ := doRequest(t, app, req)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
