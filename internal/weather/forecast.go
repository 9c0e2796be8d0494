package weather

import (
	"fmt"
	"iter"
)

// Forecast is an immutable, ordered collection of hourly forecast items for
// one coordinate. Hour 0 is the soonest hour.
type Forecast struct {
	coord    Coordinate
	dataTime string
	items    []ForecastItem
}

// NewForecast parses the first min(hours, len(records)) records in order.
// Construction aborts on the first invalid record.
func NewForecast(coord Coordinate, dataTime string, records []RawRecord, hours int) (*Forecast, error) {
	n := min(max(hours, 0), len(records))

	items := make([]ForecastItem, 0, n)
	for i, rec := range records[:n] {
		item, err := ParseRecord(rec)
		if err != nil {
			return nil, NewError(KindMalformedRecord, "new forecast", fmt.Sprintf("record %d", i), err)
		}
		items = append(items, item)
	}

	return &Forecast{
		coord:    coord,
		dataTime: dataTime,
		items:    items,
	}, nil
}

func (f *Forecast) Latitude() float64      { return f.coord.Latitude }
func (f *Forecast) Longitude() float64     { return f.coord.Longitude }
func (f *Forecast) Coordinate() Coordinate { return f.coord }

// DataTime is the upstream data-generation timestamp (grib2file_time).
func (f *Forecast) DataTime() string { return f.dataTime }

// Len returns the number of hours held.
func (f *Forecast) Len() int { return len(f.items) }

// At returns the item for the 0-based hour offset.
func (f *Forecast) At(hour int) (ForecastItem, error) {
	if hour < 0 || hour >= len(f.items) {
		return ForecastItem{}, NewError(KindOutOfRange, "forecast at", fmt.Sprintf("hour %d outside [0, %d)", hour, len(f.items)), nil)
	}
	return f.items[hour], nil
}

// TemperatureAt returns the temperature at hour, or false when out of range.
func (f *Forecast) TemperatureAt(hour int) (float64, bool) {
	item, err := f.At(hour)
	if err != nil {
		return 0, false
	}
	return item.Temperature, true
}

// PrecipitationAt returns the precipitation at hour, or false when out of range.
func (f *Forecast) PrecipitationAt(hour int) (float64, bool) {
	item, err := f.At(hour)
	if err != nil {
		return 0, false
	}
	return item.Precipitation, true
}

// Items returns a copy of the items in stored order.
func (f *Forecast) Items() []ForecastItem {
	out := make([]ForecastItem, len(f.items))
	copy(out, f.items)
	return out
}

// All iterates over (hour, item) pairs in stored order. The sequence can be
// ranged over any number of times.
func (f *Forecast) All() iter.Seq2[int, ForecastItem] {
	return func(yield func(int, ForecastItem) bool) {
		for i, item := range f.items {
			if !yield(i, item) {
				return
			}
		}
	}
}
