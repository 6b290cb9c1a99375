package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    Clock
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"09:0", 0, true},
		{"", 0, true},
		{"0900", 0, true},
		{"ab:cd", 0, true},
		{"09:00:00", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.input)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestFormatClockRange(t *testing.T) {
	_, err := FormatClock(-1)
	var rerr *RangeError
	require.ErrorAs(t, err, &rerr)

	_, err = FormatClock(MinutesPerDay)
	require.ErrorAs(t, err, &rerr)

	s, err := FormatClock(MinutesPerDay - 1)
	require.NoError(t, err)
	assert.Equal(t, "23:59", s)
}

func TestClockRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		s, err := FormatClock(m)
		require.NoError(t, err)

		got, err := ParseClock(s)
		require.NoError(t, err)
		require.Equal(t, Clock(m), got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2026, Month: time.March, Day: 15}, d)
	assert.Equal(t, "2026-03-15", d.String())

	for _, input := range []string{"2026-02-30", "2026-13-01", "15-03-2026", "2026/03/15", ""} {
		_, err := ParseDate(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestDateWeekday(t *testing.T) {
	// 2026-03-15 is a Sunday.
	d := Date{Year: 2026, Month: time.March, Day: 15}
	assert.Equal(t, time.Sunday, d.Weekday())
	assert.Equal(t, time.Monday, d.AddDays(1).Weekday())
	assert.Equal(t, time.Saturday, d.AddDays(-1).Weekday())
}

func TestTodayRespectsTimezone(t *testing.T) {
	// 22:30 UTC on March 14th is already March 15th in Bahrain (UTC+3).
	// Deriving "today" from the host zone instead of the provider zone is
	// the classic off-by-one-day bug this guards against.
	bahrain, err := time.LoadLocation("Asia/Bahrain")
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, Date{Year: 2026, Month: time.March, Day: 14}, Today(now, time.UTC))
	assert.Equal(t, Date{Year: 2026, Month: time.March, Day: 15}, Today(now, bahrain))
	assert.Equal(t, time.Sunday, Today(now, bahrain).Weekday())
}

func TestDateAt(t *testing.T) {
	bahrain, err := time.LoadLocation("Asia/Bahrain")
	require.NoError(t, err)

	d := Date{Year: 2026, Month: time.March, Day: 15}
	clock, err := ParseClock("09:30")
	require.NoError(t, err)

	instant := d.At(clock, bahrain)
	assert.Equal(t, time.Date(2026, 3, 15, 9, 30, 0, 0, bahrain), instant)
	// 09:30 in Bahrain is 06:30 UTC.
	assert.Equal(t, time.Date(2026, 3, 15, 6, 30, 0, 0, time.UTC).Unix(), instant.Unix())
}

func TestDaysBetween(t *testing.T) {
	a := Date{Year: 2026, Month: time.February, Day: 27}
	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, 2, DaysBetween(a, a.AddDays(2))) // across Feb 28 (2026 is not a leap year)
	assert.Equal(t, -2, DaysBetween(a.AddDays(2), a))
	assert.Equal(t, Date{Year: 2026, Month: time.March, Day: 1}, a.AddDays(2))
}
