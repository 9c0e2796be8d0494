package weather

import (
	"context"
	"encoding/json"
)

// RawRecord is one upstream per-hour record keyed by short field codes.
type RawRecord map[string]json.RawMessage

// ForecastFetcher abstracts the upstream forecast source.
type ForecastFetcher interface {
	// Fetch retrieves at most hours hourly records for coord.
	Fetch(ctx context.Context, coord Coordinate, hours int) (*Forecast, error)
}

// Hour bounds accepted by ForecastFetcher implementations.
const (
	MinHours     = 1
	MaxHours     = 172
	DefaultHours = 24
)

// ValidateHours checks that hours lies in [MinHours, MaxHours].
func ValidateHours(hours int) error {
	if hours < MinHours || hours > MaxHours {
		return NewError(KindInvalidArgument, "hours", "must be between 1 and 172", nil)
	}
	return nil
}
