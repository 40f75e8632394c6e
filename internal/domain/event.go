package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// StationID is a WMO station number or ICAO identifier. The fetcher emits
// WMO numbers as JSON numbers, so both encodings are accepted.
type StationID string

// UnmarshalJSON accepts either a JSON string or a JSON integer.
func (s *StationID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = StationID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("station id: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("station id %q is not an integer", n.String())
	}
	*s = StationID(n.String())
	return nil
}

// SoundingHeader identifies one radiosonde ascent.
type SoundingHeader struct {
	Station StationID `json:"station"`
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Day     int       `json:"day"`
	Hour    int       `json:"hour"`
}

// ObservedAt returns the nominal launch time in UTC.
func (h SoundingHeader) ObservedAt() time.Time {
	return time.Date(h.Year, time.Month(h.Month), h.Day, h.Hour, 0, 0, 0, time.UTC)
}

// RawSounding is the JSON envelope published by the fetcher: the header plus
// the text of the fixed-width table.
type RawSounding struct {
	SoundingHeader
	Body string `json:"body"`
}

// RecordFieldCount is the number of columns in a sounding table line.
const RecordFieldCount = 11

// ObservationRecord is one level of a sounding. A nil field was blank or
// unparseable in the source table.
type ObservationRecord struct {
	Pressure                       *float64 `json:"pres"` // hPa
	Height                         *float64 `json:"hght"` // m
	Temperature                    *float64 `json:"temp"` // °C
	DewPoint                       *float64 `json:"dewt"` // °C
	RelativeHumidity               *float64 `json:"relh"` // %
	MixingRatio                    *float64 `json:"mixr"` // g/kg
	WindDirection                  *float64 `json:"drct"` // deg
	WindSpeed                      *float64 `json:"sknt"` // knot
	PotentialTemperature           *float64 `json:"thta"` // K
	EquivalentPotentialTemperature *float64 `json:"thte"` // K
	WetBulbPotentialTemperature    *float64 `json:"thtw"` // K
}

// DerivedLevel holds quantities computed from an ObservationRecord.
type DerivedLevel struct {
	ThetaE  *float64 `json:"thte"`  // K, equivalent potential temperature
	ThetaES *float64 `json:"thtes"` // K, saturation equivalent potential temperature
}

// Sounding is a parsed ascent: header, one record per table line in line
// order, and the derived quantities aligned with the records.
type Sounding struct {
	ID string `json:"id"`
	SoundingHeader
	Records     []ObservationRecord `json:"data"`
	Derived     []DerivedLevel      `json:"derived,omitempty"`
	ProcessedAt time.Time           `json:"processed_at"`

	RawPayload []byte `json:"-"`
}
