package dispatch

// Tool describes an operation for clients that discover capabilities at
// runtime. InputSchema is a JSON Schema object.
type Tool struct {
	Name        Operation      `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func hoursSchema() map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": "Number of forecast hours (default 24, max 172)",
		"default":     24,
		"minimum":     1,
		"maximum":     172,
	}
}

func formatSchema() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Output format, 'text' or 'json' (default 'text')",
		"enum":        []string{string(TextFormat), string(JSONFormat)},
		"default":     string(TextFormat),
	}
}

// Tools returns the catalogue of dispatchable operations. A fresh value is
// built on every call so callers may modify it.
func Tools() []Tool {
	return []Tool{
		{
			Name:        OpForecastByCoordinate,
			Description: "Get the hourly weather forecast for a latitude/longitude: temperature, precipitation, wind speed and direction, humidity, cloud cover and pressure.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"latitude": map[string]any{
						"type":        "number",
						"description": "Latitude in [-90, 90], e.g. 35.6762 for Tokyo",
						"minimum":     -90,
						"maximum":     90,
					},
					"longitude": map[string]any{
						"type":        "number",
						"description": "Longitude in [-180, 180], e.g. 139.6503 for Tokyo",
						"minimum":     -180,
						"maximum":     180,
					},
					"hours":  hoursSchema(),
					"format": formatSchema(),
				},
				"required": []string{"latitude", "longitude"},
			},
		},
		{
			Name:        OpForecastByCity,
			Description: "Get the hourly weather forecast for a named city. Prefectural capitals, major cities and sightseeing spots in Japan are supported.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"city": map[string]any{
						"type":        "string",
						"description": "City name, e.g. '東京', '大阪' or 'Tokyo'. Use list_available_cities for the full list.",
					},
					"hours":  hoursSchema(),
					"format": formatSchema(),
				},
				"required": []string{"city"},
			},
		},
		{
			Name:        OpListCities,
			Description: "List every city name accepted by get_forecast_by_city.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        OpSearchCities,
			Description: "Search city names by substring. Use it when the exact city name is unclear.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Substring to look for, e.g. '京' matches '東京' and '京都'.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}
