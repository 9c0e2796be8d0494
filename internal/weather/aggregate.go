package weather

// Summary holds the aggregate view of a Forecast.
// MaxTemperature and MinTemperature are nil for an empty forecast.
type Summary struct {
	MaxTemperature     *float64 `json:"max_temp"`
	MinTemperature     *float64 `json:"min_temp"`
	TotalPrecipitation float64  `json:"total_precipitation"`
	RainyHours         int      `json:"rainy_hours"`
	ForecastHours      int      `json:"forecast_hours"`
}

// MaxTemperature returns the highest temperature, false when empty.
func (f *Forecast) MaxTemperature() (float64, bool) {
	if len(f.items) == 0 {
		return 0, false
	}
	best := f.items[0].Temperature
	for _, item := range f.items[1:] {
		if item.Temperature > best {
			best = item.Temperature
		}
	}
	return best, true
}

// MinTemperature returns the lowest temperature, false when empty.
func (f *Forecast) MinTemperature() (float64, bool) {
	if len(f.items) == 0 {
		return 0, false
	}
	best := f.items[0].Temperature
	for _, item := range f.items[1:] {
		if item.Temperature < best {
			best = item.Temperature
		}
	}
	return best, true
}

// TotalPrecipitation sums precipitation over every hour.
func (f *Forecast) TotalPrecipitation() float64 {
	var sum float64
	for _, item := range f.items {
		sum += item.Precipitation
	}
	return sum
}

// RainyHours counts hours with more than LightRainThresholdMm of precipitation.
func (f *Forecast) RainyHours() int {
	n := 0
	for _, item := range f.items {
		if item.Precipitation > LightRainThresholdMm {
			n++
		}
	}
	return n
}

// Summary computes every aggregate of the forecast.
func (f *Forecast) Summary() Summary {
	s := Summary{
		TotalPrecipitation: f.TotalPrecipitation(),
		RainyHours:         f.RainyHours(),
		ForecastHours:      f.Len(),
	}
	if v, ok := f.MaxTemperature(); ok {
		s.MaxTemperature = &v
	}
	if v, ok := f.MinTemperature(); ok {
		s.MinTemperature = &v
	}
	return s
}
