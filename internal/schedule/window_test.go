package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

func TestCheckBookingWindow(t *testing.T) {
	// Fixed clock: 2026-03-16 10:00 UTC.
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	today := timeutil.Date{Year: 2026, Month: time.March, Day: 16}

	tests := []struct {
		name        string
		date        timeutil.Date
		start       string
		minHours    int
		maxDays     int
		wantErr     bool
		wantTooSoon bool
	}{
		{
			name:     "same day later with no minimum",
			date:     today,
			start:    "15:00",
			minHours: 0,
			maxDays:  30,
		},
		{
			name:        "exactly 24h ahead passes",
			date:        today.AddDays(1),
			start:       "10:00",
			minHours:    24,
			maxDays:     30,
			wantErr:     false,
			wantTooSoon: false,
		},
		{
			name:        "23h59m ahead fails the minimum",
			date:        today.AddDays(1),
			start:       "09:59",
			minHours:    24,
			maxDays:     30,
			wantErr:     true,
			wantTooSoon: true,
		},
		{
			name:    "at the maximum advance boundary",
			date:    today.AddDays(30),
			start:   "10:00",
			maxDays: 30,
		},
		{
			name:        "one day past the maximum",
			date:        today.AddDays(31),
			start:       "10:00",
			maxDays:     30,
			wantErr:     true,
			wantTooSoon: false,
		},
		{
			name:        "in the past",
			date:        today,
			start:       "09:00",
			minHours:    0,
			maxDays:     30,
			wantErr:     true,
			wantTooSoon: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBookingWindow(tt.date, clk(tt.start), now, time.UTC, tt.minHours, tt.maxDays)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var werr *WindowError
			require.ErrorAs(t, err, &werr)
			assert.Equal(t, tt.wantTooSoon, werr.TooSoon)
		})
	}
}

func TestCheckBookingWindowUsesProviderTimezone(t *testing.T) {
	bahrain, err := time.LoadLocation("Asia/Bahrain")
	require.NoError(t, err)

	// 22:30 UTC on the 14th; in Bahrain it is already 01:30 on the 15th.
	now := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

	// With maxAdvanceDays=1 as seen from Bahrain, the 16th is the last
	// bookable date and the 17th is out.
	ok := timeutil.Date{Year: 2026, Month: time.March, Day: 16}
	tooFar := timeutil.Date{Year: 2026, Month: time.March, Day: 17}

	require.NoError(t, CheckBookingWindow(ok, clk("12:00"), now, bahrain, 0, 1))

	err = CheckBookingWindow(tooFar, clk("12:00"), now, bahrain, 0, 1)
	var werr *WindowError
	require.ErrorAs(t, err, &werr)
	assert.False(t, werr.TooSoon)
}
