package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidEnvelope reports a raw sounding whose header cannot identify the
// ascent.
var ErrInvalidEnvelope = errors.New("invalid sounding envelope")

const (
	// fieldWidth is the column width of the TEXT:LIST table.
	fieldWidth = 7

	// headerLines precede the first data line of a sounding body.
	headerLines = 4
)

// ParseRawSounding decodes a fetcher envelope into a Sounding. The table body
// is parsed line by line; only a malformed envelope is an error.
func ParseRawSounding(raw RawEvent) (Sounding, error) {
	var rs RawSounding
	if err := json.Unmarshal(raw.Value, &rs); err != nil {
		return Sounding{}, fmt.Errorf("parse raw sounding: %w", err)
	}
	if rs.Station == "" {
		return Sounding{}, fmt.Errorf("parse raw sounding: missing station: %w", ErrInvalidEnvelope)
	}
	if err := validateObservationTime(rs.SoundingHeader); err != nil {
		return Sounding{}, fmt.Errorf("parse raw sounding: %w", err)
	}

	return Sounding{
		ID:             generateID(rs.SoundingHeader),
		SoundingHeader: rs.SoundingHeader,
		Records:        ParseSoundingBody(rs.Body),
		RawPayload:     raw.Value,
	}, nil
}

// validateObservationTime rejects header dates that time.Date would silently
// normalise, e.g. month 13 or hour 24.
func validateObservationTime(h SoundingHeader) error {
	t := h.ObservedAt()
	if t.Year() != h.Year || int(t.Month()) != h.Month || t.Day() != h.Day || t.Hour() != h.Hour {
		return fmt.Errorf("observation time %04d-%02d-%02d %02dZ: %w", h.Year, h.Month, h.Day, h.Hour, ErrInvalidEnvelope)
	}
	return nil
}

// ParseSoundingBody converts the text of a TEXT:LIST table into records, one
// per line after the four header lines, in line order.
func ParseSoundingBody(body string) []ObservationRecord {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) <= headerLines {
		return []ObservationRecord{}
	}

	records := make([]ObservationRecord, 0, len(lines)-headerLines)
	for _, line := range lines[headerLines:] {
		records = append(records, ParseRecordLine(strings.TrimRight(line, "\r")))
	}
	return records
}

// ParseRecordLine slices one table line into its eleven 7-character columns.
// Each column parses independently: a blank, non-numeric, or truncated column
// is missing and never affects its neighbours.
func ParseRecordLine(line string) ObservationRecord {
	var v [RecordFieldCount]*float64
	for i := range v {
		v[i] = parseFloatOrMissing(column(line, i))
	}

	return ObservationRecord{
		Pressure:                       v[0],
		Height:                         v[1],
		Temperature:                    v[2],
		DewPoint:                       v[3],
		RelativeHumidity:               v[4],
		MixingRatio:                    v[5],
		WindDirection:                  v[6],
		WindSpeed:                      v[7],
		PotentialTemperature:           v[8],
		EquivalentPotentialTemperature: v[9],
		WetBulbPotentialTemperature:    v[10],
	}
}

// column returns the i-th fixed-width slice of line, clipped to the line.
func column(line string, i int) string {
	start := i * fieldWidth
	if start >= len(line) {
		return ""
	}
	end := start + fieldWidth
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

// parseFloatOrMissing parses a trimmed column, returning nil when it is blank,
// not a number, or not finite.
func parseFloatOrMissing(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// generateID produces a deterministic ID from the station and launch time so
// replays of the same ascent key identically downstream.
func generateID(h SoundingHeader) string {
	input := fmt.Sprintf("%s|%s", h.Station, h.ObservedAt().Format("2006010215"))
	hash := sha256.Sum256([]byte(input))
	return string(h.Station) + "-" + hex.EncodeToString(hash[:8])
}
