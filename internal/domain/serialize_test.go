package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeSounding(t *testing.T) {
	processed := time.Date(2020, time.August, 27, 13, 5, 0, 0, time.UTC)
	s := Sounding{
		ID:             "47971-0011223344556677",
		SoundingHeader: SoundingHeader{Station: testStation, Year: 2020, Month: 8, Day: 27, Hour: 12},
		Records:        ParseSoundingBody(testBody(surfaceLine, level100)),
		ProcessedAt:    processed,
	}

	out, err := SerializeSounding(s)
	require.NoError(t, err)

	assert.Equal(t, []byte(s.ID), out.Key)
	assert.Equal(t, map[string]string{
		"station":      testStation,
		"observed_at":  "2020-08-27T12:00:00Z",
		"processed_at": "2020-08-27T13:05:00Z",
	}, out.Headers)

	var roundtrip Sounding
	require.NoError(t, json.Unmarshal(out.Value, &roundtrip))
	assert.Equal(t, s.ID, roundtrip.ID)
	assert.Equal(t, s.SoundingHeader, roundtrip.SoundingHeader)
	assert.Len(t, roundtrip.Records, 2)
	assert.Nil(t, roundtrip.Records[1].DewPoint)
}

func TestSounding_MissingFields(t *testing.T) {
	s := Sounding{Records: ParseSoundingBody(testBody(surfaceLine, level100))}
	// level100 leaves DWPT, RELH, MIXR, and THTE blank.
	assert.Equal(t, 4, s.MissingFields())

	assert.Equal(t, 0, Sounding{}.MissingFields())
}
