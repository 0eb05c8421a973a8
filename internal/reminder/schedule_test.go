package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAtTodayWhenStillAhead(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	next := NextAt(now, 19, 30, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 10, 19, 30, 0, 0, time.UTC), next)
}

func TestNextAtTomorrowWhenAlreadyPassed(t *testing.T) {
	now := time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)

	next := NextAt(now, 19, 30, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 11, 19, 30, 0, 0, time.UTC), next)
}

func TestNextAtExactMinuteRollsToTomorrow(t *testing.T) {
	now := time.Date(2025, 6, 10, 19, 30, 0, 0, time.UTC)

	next := NextAt(now, 19, 30, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 11, 19, 30, 0, 0, time.UTC), next)
}

func TestNextAtUsesProfileTimezone(t *testing.T) {
	loc := time.FixedZone("UTC-03:00", -3*3600)
	// 21:00 UTC is 18:00 in UTC-3, so a 19:00 reminder is still ahead today.
	now := time.Date(2025, 6, 10, 21, 0, 0, 0, time.UTC)

	next := NextAt(now, 19, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 10, 19, 0, 0, 0, loc).Unix(), next.Unix())
}

func TestParseTimezoneLocationIANA(t *testing.T) {
	loc, err := ParseTimezoneLocation("America/Sao_Paulo")
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())
}

func TestParseTimezoneLocationUTCAliases(t *testing.T) {
	for _, tz := range []string{"", "UTC", "utc", "GMT", "Etc/UTC"} {
		loc, err := ParseTimezoneLocation(tz)
		require.NoError(t, err, "timezone %q", tz)
		assert.Equal(t, time.UTC, loc)
	}
}

func TestParseTimezoneLocationFixedOffsets(t *testing.T) {
	tests := []struct {
		tz     string
		offset int
	}{
		{"UTC+3", 3 * 3600},
		{"UTC-3", -3 * 3600},
		{"+05:30", 5*3600 + 30*60},
		{"-03:30", -(3*3600 + 30*60)},
		{"UTC+00:00", 0},
	}

	ref := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		loc, err := ParseTimezoneLocation(tt.tz)
		require.NoError(t, err, "timezone %q", tt.tz)
		_, offset := ref.In(loc).Zone()
		assert.Equal(t, tt.offset, offset, "timezone %q", tt.tz)
	}
}

func TestParseTimezoneLocationRejectsGarbage(t *testing.T) {
	for _, tz := range []string{"Atlantis/Central", "UTC+99", "+15:00", "abc+3"} {
		_, err := ParseTimezoneLocation(tz)
		assert.Error(t, err, "timezone %q", tz)
	}
}
