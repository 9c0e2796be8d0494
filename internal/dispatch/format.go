package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/i474232898/gsm-forecast/internal/weather"
)

// maxTextHours caps the per-hour lines of the text rendering.
const maxTextHours = 24

// FormatText renders f as a human-readable report. city may be empty.
func FormatText(f *weather.Forecast, city string) string {
	var b strings.Builder

	if city != "" {
		fmt.Fprintf(&b, "# Weather forecast for %s\n", city)
	} else {
		b.WriteString("# Weather forecast\n")
	}
	fmt.Fprintf(&b, "📍 Location: lat %.4f, lng %.4f\n", f.Latitude(), f.Longitude())
	fmt.Fprintf(&b, "📅 Data time: %s\n", f.DataTime())
	fmt.Fprintf(&b, "⏰ Forecast hours: %d\n\n", f.Len())

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "🌡️ Max temperature: %s\n", temperatureOrNA(f.MaxTemperature()))
	fmt.Fprintf(&b, "🌡️ Min temperature: %s\n", temperatureOrNA(f.MinTemperature()))
	fmt.Fprintf(&b, "💧 Total precipitation: %.1fmm\n", f.TotalPrecipitation())
	fmt.Fprintf(&b, "🌧️ Rainy hours: %d\n\n", f.RainyHours())

	shown := min(maxTextHours, f.Len())
	fmt.Fprintf(&b, "## %d-hour forecast\n", shown)

	for i, item := range f.All() {
		if i >= shown {
			break
		}
		fmt.Fprintf(&b, "\n%s %s Temp:%.1f°C Precip:%.1fmm Wind:%.1fm/s(%s %.0f°) Humidity:%.0f%% Cloud:%.0f%% Pressure:%.1fhPa",
			item.Datetime,
			item.Condition().Icon(),
			item.Temperature,
			item.Precipitation,
			item.WindSpeed,
			item.Compass(),
			item.WindDirection,
			item.Humidity,
			item.CloudCover,
			item.Pressure,
		)
	}
	return b.String()
}

func temperatureOrNA(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.1f°C", v)
}

// ForecastDocument is the JSON rendering of a forecast.
type ForecastDocument struct {
	Location LocationDocument `json:"location"`
	DataTime string           `json:"data_time"`
	Forecast []HourDocument   `json:"forecast"`
	Summary  weather.Summary  `json:"summary"`
}

type LocationDocument struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
}

// HourDocument carries every stored field of an hour plus the derived ones.
type HourDocument struct {
	Datetime             string            `json:"datetime"`
	Temperature          float64           `json:"temperature"`
	Precipitation        float64           `json:"precipitation"`
	WindSpeed            float64           `json:"wind_speed"`
	WindDirection        float64           `json:"wind_direction"`
	WindDirectionCompass string            `json:"wind_direction_compass"`
	Humidity             float64           `json:"humidity"`
	CloudCover           float64           `json:"cloud_cover"`
	Pressure             float64           `json:"pressure"`
	WeatherIcon          string            `json:"weather_icon"`
	Condition            weather.Condition `json:"condition"`
}

// NewForecastDocument builds the JSON view of f.
func NewForecastDocument(f *weather.Forecast, city string) ForecastDocument {
	doc := ForecastDocument{
		Location: LocationDocument{
			Latitude:  f.Latitude(),
			Longitude: f.Longitude(),
			City:      city,
		},
		DataTime: f.DataTime(),
		Forecast: make([]HourDocument, 0, f.Len()),
		Summary:  f.Summary(),
	}
	for _, item := range f.All() {
		cond := item.Condition()
		doc.Forecast = append(doc.Forecast, HourDocument{
			Datetime:             item.Datetime,
			Temperature:          item.Temperature,
			Precipitation:        item.Precipitation,
			WindSpeed:            item.WindSpeed,
			WindDirection:        item.WindDirection,
			WindDirectionCompass: item.Compass(),
			Humidity:             item.Humidity,
			CloudCover:           item.CloudCover,
			Pressure:             item.Pressure,
			WeatherIcon:          cond.Icon(),
			Condition:            cond,
		})
	}
	return doc
}

// FormatJSON renders f as indented JSON. Floats keep full precision and
// non-ASCII text is written verbatim.
func FormatJSON(f *weather.Forecast, city string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewForecastDocument(f, city)); err != nil {
		return "", fmt.Errorf("encode forecast: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
