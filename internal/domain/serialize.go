package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SerializeSounding encodes a sounding for the sink topic, keyed by its ID.
func SerializeSounding(s Sounding) (OutputEvent, error) {
	value, err := json.Marshal(s)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize sounding %s: %w", s.ID, err)
	}
	return OutputEvent{
		Key:   []byte(s.ID),
		Value: value,
		Headers: map[string]string{
			"station":      string(s.Station),
			"observed_at":  s.ObservedAt().Format(time.RFC3339),
			"processed_at": s.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// MissingFields counts the record fields the parser left missing.
func (s Sounding) MissingFields() int {
	n := 0
	for _, rec := range s.Records {
		for _, f := range rec.fields() {
			if f == nil {
				n++
			}
		}
	}
	return n
}

func (r ObservationRecord) fields() [RecordFieldCount]*float64 {
	return [RecordFieldCount]*float64{
		r.Pressure, r.Height, r.Temperature, r.DewPoint, r.RelativeHumidity, r.MixingRatio,
		r.WindDirection, r.WindSpeed, r.PotentialTemperature, r.EquivalentPotentialTemperature,
		r.WetBulbPotentialTemperature,
	}
}
