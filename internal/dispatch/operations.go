package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/gsm-forecast/internal/weather"
)

// Operation names one of the dispatchable queries.
type Operation string

const (
	OpForecastByCoordinate Operation = "get_forecast_by_coordinate"
	OpForecastByCity       Operation = "get_forecast_by_city"
	OpListCities           Operation = "list_available_cities"
	OpSearchCities         Operation = "search_cities"
)

// Operations lists every operation in catalogue order.
var Operations = []Operation{OpForecastByCoordinate, OpForecastByCity, OpListCities, OpSearchCities}

// legacy tool names still accepted by Call.
var aliases = map[string]Operation{
	"get_weather_forecast": OpForecastByCoordinate,
	"get_weather_by_city":  OpForecastByCity,
}

// ParseOperation maps a wire name, including legacy aliases, to an Operation.
func ParseOperation(name string) (Operation, bool) {
	op := Operation(name)
	switch op {
	case OpForecastByCoordinate, OpForecastByCity, OpListCities, OpSearchCities:
		return op, true
	}
	op, ok := aliases[name]
	return op, ok
}

// Format selects the rendering of a forecast.
type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

type coordinateArgs struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Hours     *int     `json:"hours" validate:"omitempty,gte=1,lte=172"`
	Format    *string  `json:"format" validate:"omitempty,oneof=text json"`
}

type cityArgs struct {
	City   *string `json:"city" validate:"required,min=1"`
	Hours  *int    `json:"hours" validate:"omitempty,gte=1,lte=172"`
	Format *string `json:"format" validate:"omitempty,oneof=text json"`
}

type searchArgs struct {
	Query *string `json:"query" validate:"required,min=1"`
}

func hoursOrDefault(h *int) int {
	if h == nil {
		return weather.DefaultHours
	}
	return *h
}

func formatOrDefault(f *string) Format {
	if f == nil {
		return TextFormat
	}
	return Format(*f)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeArgs unmarshals raw into dst and validates it. An empty or null
// payload decodes as an empty object.
func decodeArgs(v *validator.Validate, raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return weather.NewError(weather.KindInvalidArgument, "",
				fmt.Sprintf("%s must be %s", typeErr.Field, jsonTypeName(typeErr.Type)), nil)
		}
		return weather.NewError(weather.KindInvalidArgument, "", "arguments must be a JSON object", err)
	}
	if err := v.Struct(dst); err != nil {
		return weather.NewError(weather.KindInvalidArgument, "", describeValidation(err), nil)
	}
	return nil
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	default:
		return "of type " + t.String()
	}
}

// describeValidation renders validator failures as short field messages.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, field+" must not be empty")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", field, fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be <= %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
