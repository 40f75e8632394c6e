package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStation = "47971"
	separator   = "-----------------------------------------------------------------------------"
)

// row right-aligns each column to the 7-character table width.
func row(cols ...string) string {
	var b strings.Builder
	for _, c := range cols {
		fmt.Fprintf(&b, "%7s", c)
	}
	return b.String()
}

func testBody(lines ...string) string {
	header := []string{
		separator,
		row("PRES", "HGHT", "TEMP", "DWPT", "RELH", "MIXR", "DRCT", "SKNT", "THTA", "THTE", "THTV"),
		row("hPa", "m", "C", "C", "%", "g/kg", "deg", "knot", "K", "K", "K"),
		separator,
	}
	return strings.Join(append(header, lines...), "\n")
}

var (
	surfaceLine = row("1007.0", "8", "27.0", "22.4", "76", "17.32", "200", "8", "299.6", "350.3", "302.7")
	level1000   = row("1000.0", "72", "26.4", "21.8", "76", "16.85", "205", "10", "299.6", "349.0", "302.6")
	level100    = row("100.0", "16630", "-76.3", "", "", "", "270", "15", "382.0", "", "382.0")
)

func TestParseRecordLine(t *testing.T) {
	t.Run("all columns present", func(t *testing.T) {
		rec := ParseRecordLine(surfaceLine)

		require.NotNil(t, rec.Pressure)
		assert.Equal(t, 1007.0, *rec.Pressure)
		assert.Equal(t, 8.0, *rec.Height)
		assert.Equal(t, 27.0, *rec.Temperature)
		assert.Equal(t, 22.4, *rec.DewPoint)
		assert.Equal(t, 76.0, *rec.RelativeHumidity)
		assert.Equal(t, 17.32, *rec.MixingRatio)
		assert.Equal(t, 200.0, *rec.WindDirection)
		assert.Equal(t, 8.0, *rec.WindSpeed)
		assert.Equal(t, 299.6, *rec.PotentialTemperature)
		assert.Equal(t, 350.3, *rec.EquivalentPotentialTemperature)
		assert.Equal(t, 302.7, *rec.WetBulbPotentialTemperature)
	})

	t.Run("blank line yields all missing", func(t *testing.T) {
		rec := ParseRecordLine(strings.Repeat(" ", RecordFieldCount*fieldWidth))
		assert.Equal(t, ObservationRecord{}, rec)
	})

	t.Run("empty line yields all missing", func(t *testing.T) {
		assert.Equal(t, ObservationRecord{}, ParseRecordLine(""))
	})

	t.Run("one malformed column", func(t *testing.T) {
		line := surfaceLine[:3*fieldWidth] + "  abc  " + surfaceLine[4*fieldWidth:]
		rec := ParseRecordLine(line)

		assert.Nil(t, rec.DewPoint)
		require.NotNil(t, rec.Temperature)
		assert.Equal(t, 27.0, *rec.Temperature)
		require.NotNil(t, rec.RelativeHumidity)
		assert.Equal(t, 76.0, *rec.RelativeHumidity)
		require.NotNil(t, rec.WetBulbPotentialTemperature)
		assert.Equal(t, 302.7, *rec.WetBulbPotentialTemperature)

		present := 0
		for _, v := range []*float64{
			rec.Pressure, rec.Height, rec.Temperature, rec.DewPoint, rec.RelativeHumidity,
			rec.MixingRatio, rec.WindDirection, rec.WindSpeed, rec.PotentialTemperature,
			rec.EquivalentPotentialTemperature, rec.WetBulbPotentialTemperature,
		} {
			if v != nil {
				present++
			}
		}
		assert.Equal(t, 10, present)
	})

	t.Run("blank upper-air humidity columns", func(t *testing.T) {
		rec := ParseRecordLine(level100)

		assert.Equal(t, 100.0, *rec.Pressure)
		assert.Equal(t, -76.3, *rec.Temperature)
		assert.Nil(t, rec.DewPoint)
		assert.Nil(t, rec.RelativeHumidity)
		assert.Nil(t, rec.MixingRatio)
		assert.Equal(t, 270.0, *rec.WindDirection)
		assert.Nil(t, rec.EquivalentPotentialTemperature)
		assert.Equal(t, 382.0, *rec.WetBulbPotentialTemperature)
	})

	t.Run("truncated line", func(t *testing.T) {
		rec := ParseRecordLine(row("1000.0", "72") + "   2")

		assert.Equal(t, 1000.0, *rec.Pressure)
		assert.Equal(t, 72.0, *rec.Height)
		require.NotNil(t, rec.Temperature)
		assert.Equal(t, 2.0, *rec.Temperature)
		assert.Nil(t, rec.DewPoint)
		assert.Nil(t, rec.WetBulbPotentialTemperature)
	})

	t.Run("non-finite text is missing", func(t *testing.T) {
		rec := ParseRecordLine(row("NaN", "Inf", "-inf"))
		assert.Nil(t, rec.Pressure)
		assert.Nil(t, rec.Height)
		assert.Nil(t, rec.Temperature)
	})
}

func TestParseSoundingBody(t *testing.T) {
	t.Run("skips header lines", func(t *testing.T) {
		records := ParseSoundingBody(testBody(surfaceLine, level1000, level100))

		require.Len(t, records, 3)
		assert.Equal(t, 1007.0, *records[0].Pressure)
		assert.Equal(t, 1000.0, *records[1].Pressure)
		assert.Equal(t, 100.0, *records[2].Pressure)
	})

	t.Run("surrounding whitespace and CRLF", func(t *testing.T) {
		body := "\n\n" + strings.ReplaceAll(testBody(surfaceLine, level1000), "\n", "\r\n") + "\r\n\n"
		records := ParseSoundingBody(body)

		require.Len(t, records, 2)
		assert.Equal(t, 302.6, *records[1].WetBulbPotentialTemperature)
	})

	t.Run("header only", func(t *testing.T) {
		records := ParseSoundingBody(testBody())
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Empty(t, ParseSoundingBody(""))
	})
}

func TestParseRawSounding(t *testing.T) {
	envelope := func(station string) []byte {
		return []byte(fmt.Sprintf(`{"station":%s,"year":2020,"month":8,"day":27,"hour":12,"body":%q}`,
			station, testBody(surfaceLine, level1000)))
	}

	t.Run("numeric station", func(t *testing.T) {
		data := envelope(testStation)
		s, err := ParseRawSounding(RawEvent{Value: data})

		require.NoError(t, err)
		assert.Equal(t, StationID(testStation), s.Station)
		assert.Equal(t, time.Date(2020, 8, 27, 12, 0, 0, 0, time.UTC), s.ObservedAt())
		assert.Len(t, s.Records, 2)
		assert.True(t, strings.HasPrefix(s.ID, testStation+"-"))
		assert.Equal(t, data, s.RawPayload)
		assert.True(t, s.ProcessedAt.IsZero())
	})

	t.Run("string station", func(t *testing.T) {
		s, err := ParseRawSounding(RawEvent{Value: envelope(`"RJTT"`)})
		require.NoError(t, err)
		assert.Equal(t, StationID("RJTT"), s.Station)
	})

	t.Run("deterministic ID", func(t *testing.T) {
		a, err := ParseRawSounding(RawEvent{Value: envelope(testStation)})
		require.NoError(t, err)
		b, err := ParseRawSounding(RawEvent{Value: envelope(testStation)})
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)

		other, err := ParseRawSounding(RawEvent{Value: envelope("47918")})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, other.ID)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawSounding(RawEvent{Value: []byte("{invalid json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw sounding")
	})

	t.Run("fractional station number", func(t *testing.T) {
		_, err := ParseRawSounding(RawEvent{Value: envelope("479.5")})
		require.Error(t, err)
	})

	t.Run("missing station", func(t *testing.T) {
		_, err := ParseRawSounding(RawEvent{Value: []byte(`{"year":2020,"month":8,"day":27,"hour":12}`)})
		require.ErrorIs(t, err, ErrInvalidEnvelope)
	})

	t.Run("invalid observation time", func(t *testing.T) {
		data := []byte(`{"station":"47971","year":2020,"month":13,"day":27,"hour":12,"body":""}`)
		_, err := ParseRawSounding(RawEvent{Value: data})
		require.ErrorIs(t, err, ErrInvalidEnvelope)
	})
}

func TestSoundingJSON(t *testing.T) {
	s, err := ParseRawSounding(RawEvent{Value: []byte(fmt.Sprintf(
		`{"station":47971,"year":2020,"month":8,"day":27,"hour":0,"body":%q}`, testBody(level100)))})
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "47971", decoded["station"])
	assert.Equal(t, float64(2020), decoded["year"])
	assert.NotContains(t, decoded, "RawPayload")

	levels, ok := decoded["data"].([]any)
	require.True(t, ok)
	require.Len(t, levels, 1)
	level := levels[0].(map[string]any)
	assert.Equal(t, 100.0, level["pres"])
	assert.Contains(t, level, "dewt")
	assert.Nil(t, level["dewt"])
}
