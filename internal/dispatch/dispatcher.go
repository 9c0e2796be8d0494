package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/i474232898/gsm-forecast/internal/cities"
	"github.com/i474232898/gsm-forecast/internal/weather"
)

// maxSuggestions caps the city names offered when a lookup misses.
const maxSuggestions = 5

// Content is one block of response text.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the outcome of a dispatched call. Failures are carried as
// text content with IsError set; Kind classifies both failures and the
// not-found alternate response.
type Response struct {
	Content []Content         `json:"content"`
	IsError bool              `json:"isError"`
	Kind    weather.ErrorKind `json:"kind,omitempty"`
}

// Text concatenates every content block.
func (r Response) Text() string {
	if len(r.Content) == 1 {
		return r.Content[0].Text
	}
	var b strings.Builder
	for _, c := range r.Content {
		b.WriteString(c.Text)
	}
	return b.String()
}

func textResponse(text string) Response {
	return Response{Content: []Content{{Type: "text", Text: text}}}
}

// Dispatcher routes named operations to the forecast fetcher and the city
// resolver. It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	fetcher  weather.ForecastFetcher
	resolver *cities.Resolver
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates a Dispatcher. A nil logger falls back to slog.Default.
func New(fetcher weather.ForecastFetcher, resolver *cities.Resolver, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		fetcher:  fetcher,
		resolver: resolver,
		validate: newValidator(),
		logger:   logger.With("component", "dispatch"),
	}
}

// Resolver exposes the city resolver backing the dispatcher.
func (d *Dispatcher) Resolver() *cities.Resolver {
	return d.resolver
}

// Call runs the operation called name with JSON arguments args. It never
// panics and never returns a Go error; failures come back as error content.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) (resp Response) {
	log := d.logger.With("call_id", uuid.NewString(), "operation", name)

	defer func() {
		if r := recover(); r != nil {
			log.Error("operation panicked", "panic", r)
			resp = errorResponse(weather.KindUnknown, fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	op, ok := ParseOperation(name)
	if !ok {
		log.Warn("unknown operation")
		return errorResponse(weather.KindInvalidArgument, fmt.Sprintf("Unknown operation: '%s'", name))
	}

	var err error
	switch op {
	case OpForecastByCoordinate:
		resp, err = d.forecastByCoordinate(ctx, args)
	case OpForecastByCity:
		resp, err = d.forecastByCity(ctx, args)
	case OpListCities:
		resp = d.listCities()
	case OpSearchCities:
		resp, err = d.searchCities(args)
	}

	if err != nil {
		resp = errorContent(err)
		log.Warn("operation failed", "kind", resp.Kind, "error", err)
		return resp
	}
	log.Info("operation completed", "kind", resp.Kind)
	return resp
}

func (d *Dispatcher) forecastByCoordinate(ctx context.Context, raw json.RawMessage) (Response, error) {
	var args coordinateArgs
	if err := decodeArgs(d.validate, raw, &args); err != nil {
		return Response{}, err
	}
	coord := weather.Coordinate{Latitude: *args.Latitude, Longitude: *args.Longitude}
	return d.forecast(ctx, coord, hoursOrDefault(args.Hours), formatOrDefault(args.Format), "")
}

func (d *Dispatcher) forecastByCity(ctx context.Context, raw json.RawMessage) (Response, error) {
	var args cityArgs
	if err := decodeArgs(d.validate, raw, &args); err != nil {
		return Response{}, err
	}
	city := *args.City

	coord, ok := d.resolver.Resolve(city)
	if !ok {
		return notFoundResponse(city, d.resolver.Search(city)), nil
	}
	return d.forecast(ctx, coord, hoursOrDefault(args.Hours), formatOrDefault(args.Format), city)
}

func (d *Dispatcher) forecast(ctx context.Context, coord weather.Coordinate, hours int, format Format, city string) (Response, error) {
	f, err := d.fetcher.Fetch(ctx, coord, hours)
	if err != nil {
		return Response{}, err
	}

	if format == JSONFormat {
		text, err := FormatJSON(f, city)
		if err != nil {
			return Response{}, err
		}
		return textResponse(text), nil
	}
	return textResponse(FormatText(f, city)), nil
}

func notFoundResponse(city string, suggestions []string) Response {
	var text string
	if len(suggestions) > 0 {
		if len(suggestions) > maxSuggestions {
			suggestions = suggestions[:maxSuggestions]
		}
		text = fmt.Sprintf("City '%s' was not found.\n\nSimilar cities: %s\n\nUse %s to get the full list of available cities.",
			city, strings.Join(suggestions, ", "), OpListCities)
	} else {
		text = fmt.Sprintf("City '%s' was not found.\n\nUse %s to get the list of available cities.", city, OpListCities)
	}
	resp := textResponse(text)
	resp.Kind = weather.KindNotFound
	return resp
}

func (d *Dispatcher) listCities() Response {
	names := d.resolver.Names()
	return textResponse(fmt.Sprintf("# Available cities (%d)\n\n%s", len(names), strings.Join(names, ", ")))
}

func (d *Dispatcher) searchCities(raw json.RawMessage) (Response, error) {
	var args searchArgs
	if err := decodeArgs(d.validate, raw, &args); err != nil {
		return Response{}, err
	}
	query := *args.Query

	matches := d.resolver.Search(query)
	if len(matches) == 0 {
		return textResponse(fmt.Sprintf("No cities match '%s'.", query)), nil
	}
	return textResponse(fmt.Sprintf("# Search results for '%s' (%d)\n\n%s", query, len(matches), strings.Join(matches, ", "))), nil
}

// errorContent converts err into error content according to its kind.
func errorContent(err error) Response {
	kind := weather.KindOf(err)
	switch kind {
	case weather.KindInvalidArgument:
		return errorResponse(kind, "Invalid arguments: "+err.Error())
	case weather.KindTransport, weather.KindUpstream, weather.KindMalformedResponse, weather.KindMalformedRecord:
		return errorResponse(kind, "Weather API error: "+err.Error())
	default:
		return errorResponse(weather.KindUnknown, "Unexpected error: "+err.Error())
	}
}

func errorResponse(kind weather.ErrorKind, text string) Response {
	resp := textResponse(text)
	resp.IsError = true
	resp.Kind = kind
	return resp
}
