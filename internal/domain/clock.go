package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// stampClock supplies processed_at timestamps for parsed soundings.
var stampClock = clockwork.NewRealClock()

// SetClock replaces the timestamp source, e.g. with clockwork.NewFakeClockAt
// in tests and fixture generators. nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	stampClock = c
}

func now() time.Time {
	return stampClock.Now().UTC()
}
