package weather

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Condition represents the high-level weather category of a forecast hour.
type Condition string

const (
	ConditionRain         Condition = "rain"
	ConditionLightRain    Condition = "light rain"
	ConditionCloudy       Condition = "cloudy"
	ConditionPartlyCloudy Condition = "partly cloudy"
	ConditionSunny        Condition = "sunny"
)

// Classification thresholds, all compared with a strict >.
const (
	RainThresholdMm          = 1.0
	LightRainThresholdMm     = 0.1
	CloudyThresholdPct       = 70.0
	PartlyCloudyThresholdPct = 30.0
)

// Icon returns the emoji shown next to the condition in text output.
func (c Condition) Icon() string {
	switch c {
	case ConditionRain:
		return "🌧️"
	case ConditionLightRain:
		return "🌦️"
	case ConditionCloudy:
		return "☁️"
	case ConditionPartlyCloudy:
		return "⛅"
	default:
		return "☀️"
	}
}

// Classify maps precipitation and cloud cover onto a Condition.
// Rules are evaluated in priority order and the first match wins.
func Classify(precipitationMm, cloudCoverPct float64) Condition {
	switch {
	case precipitationMm > RainThresholdMm:
		return ConditionRain
	case precipitationMm > LightRainThresholdMm:
		return ConditionLightRain
	case cloudCoverPct > CloudyThresholdPct:
		return ConditionCloudy
	case cloudCoverPct > PartlyCloudyThresholdPct:
		return ConditionPartlyCloudy
	default:
		return ConditionSunny
	}
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint converts a wind direction in degrees to one of 16 compass
// labels. Sectors are 22.5 degrees wide and centred on each label; a value
// exactly half way between two labels is rounded half to even, so 11.25
// maps to N and 33.75 to NE. Values outside [0, 360) wrap.
func CompassPoint(degrees float64) string {
	idx := int(math.RoundToEven(degrees/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

// ForecastItem is one hour of forecast data.
type ForecastItem struct {
	Datetime      string  // opaque upstream timestamp
	Temperature   float64 // °C
	Precipitation float64 // mm
	WindSpeed     float64 // m/s
	WindDirection float64 // degrees
	Humidity      float64 // %
	CloudCover    float64 // %
	Pressure      float64 // hPa
}

// Compass returns the 16-point label of the wind direction.
func (i ForecastItem) Compass() string {
	return CompassPoint(i.WindDirection)
}

// Condition returns the weather category of the hour.
func (i ForecastItem) Condition() Condition {
	return Classify(i.Precipitation, i.CloudCover)
}

// Coordinate is a point on the globe in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinate lies in the valid lat/lng ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return NewError(KindInvalidArgument, "coordinate", fmt.Sprintf("latitude %v out of range [-90, 90]", c.Latitude), nil)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return NewError(KindInvalidArgument, "coordinate", fmt.Sprintf("longitude %v out of range [-180, 180]", c.Longitude), nil)
	}
	return nil
}

// String renders the coordinate as "<lat>,<lng>", the upstream path form.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// ParseCoordinate parses "<lat>,<lng>" into a Coordinate.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("coordinate %q: want exactly two comma-separated values, got %d", s, len(parts))
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("coordinate %q: latitude: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("coordinate %q: longitude: %w", s, err)
	}
	return Coordinate{Latitude: lat, Longitude: lng}, nil
}
