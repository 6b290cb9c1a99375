package schedule

import (
	"fmt"
	"time"

	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

// WindowError reports a booking-window violation and which bound failed.
type WindowError struct {
	TooSoon bool // true: under the minimum advance; false: past the maximum
	Limit   int  // hours for TooSoon, days otherwise
}

func (e *WindowError) Error() string {
	if e.TooSoon {
		return fmt.Sprintf("booking must be made at least %d hours in advance", e.Limit)
	}
	return fmt.Sprintf("booking cannot be made more than %d days in advance", e.Limit)
}

// CheckBookingWindow enforces the minimum-advance and maximum-advance rules
// for a candidate start relative to now, resolved in the provider's
// timezone. now is always injected by the caller; it is captured once per
// request so the whole validation chain sees one consistent clock.
//
// A candidate exactly minAdvanceHours ahead passes; one minute less fails.
// The maximum bound compares calendar dates, not instants: a candidate date
// more than maxAdvanceDays days after today (in loc) is out.
func CheckBookingWindow(
	date timeutil.Date,
	start timeutil.Clock,
	now time.Time,
	loc *time.Location,
	minAdvanceHours, maxAdvanceDays int,
) error {
	candidate := date.At(start, loc)

	if candidate.Sub(now) < time.Duration(minAdvanceHours)*time.Hour {
		return &WindowError{TooSoon: true, Limit: minAdvanceHours}
	}

	if timeutil.DaysBetween(timeutil.Today(now, loc), date) > maxAdvanceDays {
		return &WindowError{TooSoon: false, Limit: maxAdvanceDays}
	}

	return nil
}
