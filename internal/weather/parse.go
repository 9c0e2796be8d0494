package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Upstream field codes of a per-hour record.
const (
	FieldDatetime      = "datetime"
	FieldTemperature   = "TMP"
	FieldPrecipitation = "APCP"
	FieldWindSpeed     = "WSPD"
	FieldWindDirection = "WDIR"
	FieldHumidity      = "RH"
	FieldCloudCover    = "TCDC"
	FieldPressure      = "PRES"
)

// ParseRecord converts one upstream record into a ForecastItem. Every field
// is required; a missing, null or mistyped value is a KindMalformedRecord
// error.
func ParseRecord(rec RawRecord) (ForecastItem, error) {
	var (
		item ForecastItem
		err  error
	)

	if item.Datetime, err = stringField(rec, FieldDatetime); err != nil {
		return ForecastItem{}, err
	}

	numeric := []struct {
		key string
		dst *float64
	}{
		{FieldTemperature, &item.Temperature},
		{FieldPrecipitation, &item.Precipitation},
		{FieldWindSpeed, &item.WindSpeed},
		{FieldWindDirection, &item.WindDirection},
		{FieldHumidity, &item.Humidity},
		{FieldCloudCover, &item.CloudCover},
		{FieldPressure, &item.Pressure},
	}
	for _, f := range numeric {
		if *f.dst, err = numberField(rec, f.key); err != nil {
			return ForecastItem{}, err
		}
	}

	return item, nil
}

func rawField(rec RawRecord, key string) (json.RawMessage, error) {
	raw, ok := rec[key]
	if !ok {
		return nil, NewError(KindMalformedRecord, "parse record", fmt.Sprintf("missing required field %q", key), nil)
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, NewError(KindMalformedRecord, "parse record", fmt.Sprintf("field %q is null", key), nil)
	}
	return raw, nil
}

func stringField(rec RawRecord, key string) (string, error) {
	raw, err := rawField(rec, key)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", NewError(KindMalformedRecord, "parse record", fmt.Sprintf("field %q is not a string", key), err)
	}
	return s, nil
}

func numberField(rec RawRecord, key string) (float64, error) {
	raw, err := rawField(rec, key)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, NewError(KindMalformedRecord, "parse record", fmt.Sprintf("field %q is not a number", key), err)
	}
	return v, nil
}
