package availability

import (
	"net/http"
	"time"

	"github.com/tidemill/bookable-backend/internal/pkg/apperror"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

var (
	ErrRuleNotFound     = apperror.New(http.StatusNotFound, "availability rule not found")
	ErrOverrideNotFound = apperror.New(http.StatusNotFound, "availability override not found")
	ErrOverrideExists   = apperror.New(http.StatusConflict, "an override already exists for this date")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrInvalidSettings  = apperror.New(http.StatusBadRequest, "settings value out of range")
	ErrInvalidTimezone  = apperror.New(http.StatusBadRequest, "unknown timezone")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")

	// Booking-validation taxonomy. Clients branch on Code, messages may be
	// refined per rejection.
	ErrRuleOverlap = apperror.NewCoded(http.StatusConflict, "RULE_OVERLAP",
		"availability rules for the same day must not overlap")
	ErrOutsideBookingWindow = apperror.NewCoded(http.StatusBadRequest, "OUTSIDE_BOOKING_WINDOW",
		"requested time is outside the booking window")
	ErrTimeNotAvailable = apperror.NewCoded(http.StatusConflict, "TIME_NOT_AVAILABLE",
		"requested time is not within the provider's available hours")
	ErrSlotAlreadyBooked = apperror.NewCoded(http.StatusConflict, "SLOT_ALREADY_BOOKED",
		"requested time conflicts with an existing booking")
)

// Rule is a recurring weekly availability window for a provider. Multiple
// rules per day are allowed (e.g., 09:00-12:00 and 14:00-17:00) as long as
// active rules for the same day never overlap.
type Rule struct {
	ID         string // UUID
	ProviderID string
	Weekday    time.Weekday // Sunday = 0 ... Saturday = 6
	Start      timeutil.Clock
	End        timeutil.Clock
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Override is a date-specific exception that supersedes the weekly rules for
// that single date. A blocked override blanks the whole date and never
// carries times; an available override replaces the day's open hours with
// its window, or opens the whole day when no window is given. At most one
// override exists per provider and date (enforced by a unique index).
type Override struct {
	ID         string // UUID
	ProviderID string
	Date       timeutil.Date
	Blocked    bool
	Start      *timeutil.Clock
	End        *timeutil.Clock
	Note       string
	CreatedAt  time.Time
}

// Settings is the per-provider scheduling configuration, created lazily
// with defaults on first read.
type Settings struct {
	ProviderID          string
	Timezone            string // IANA name, e.g. "Asia/Bahrain"
	SlotDurationMinutes int    // used only when an offering has no duration
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	MinAdvanceHours     int
	MaxAdvanceDays      int
	UpdatedAt           time.Time
}

// DefaultSettings returns the settings a provider starts with.
func DefaultSettings(providerID string) *Settings {
	return &Settings{
		ProviderID:          providerID,
		Timezone:            "UTC",
		SlotDurationMinutes: 60,
		BufferBeforeMinutes: 0,
		BufferAfterMinutes:  0,
		MinAdvanceHours:     0,
		MaxAdvanceDays:      30,
	}
}

// Validate checks every numeric field against its documented bounds and the
// timezone against the IANA database.
func (s *Settings) Validate() error {
	checks := []struct {
		value, min, max int
	}{
		{s.SlotDurationMinutes, 15, 480},
		{s.BufferBeforeMinutes, 0, 120},
		{s.BufferAfterMinutes, 0, 120},
		{s.MinAdvanceHours, 0, 168},
		{s.MaxAdvanceDays, 1, 365},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return ErrInvalidSettings
		}
	}

	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return ErrInvalidTimezone
	}
	return nil
}

// Location resolves the provider's timezone. Settings rows are validated on
// write, so a failure here means corrupted stored data.
func (s *Settings) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}
