package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

// MinutesPerDay is the number of wall-clock minutes in a calendar day.
const MinutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseError reports a malformed time or date string.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// RangeError reports a numeric value outside its documented bounds.
type RangeError struct {
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %d out of range [%d, %d]", e.Value, e.Min, e.Max)
}

// Clock is a wall-clock time of day expressed as minutes since midnight.
// It carries no date and no timezone; it is interpreted through the owning
// provider's configured timezone when compared to an instant.
type Clock int

// ParseClock parses an "HH:MM" string into a Clock.
func ParseClock(s string) (Clock, error) {
	if !clockPattern.MatchString(s) {
		return 0, &ParseError{Input: s, Reason: "expected HH:MM"}
	}

	var hour, minute int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hour, &minute); err != nil {
		return 0, &ParseError{Input: s, Reason: "expected HH:MM"}
	}
	if hour > 23 {
		return 0, &ParseError{Input: s, Reason: "hour out of range"}
	}
	if minute > 59 {
		return 0, &ParseError{Input: s, Reason: "minute out of range"}
	}

	return Clock(hour*60 + minute), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
// Minutes outside [0, MinutesPerDay) yield a RangeError.
func FormatClock(minutes int) (string, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", &RangeError{Value: minutes, Min: 0, Max: MinutesPerDay - 1}
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// String renders the clock as "HH:MM". An exclusive end of day renders
// as "24:00"; callers are expected to hold valid clocks.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Valid reports whether the clock falls within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < MinutesPerDay
}

// Date is a calendar date with no time component and no timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &ParseError{Input: s, Reason: "expected YYYY-MM-DD"}
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String renders the date as "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Weekday returns the day of week for the date (Sunday = 0 ... Saturday = 6,
// matching time.Weekday). The weekday of a calendar date does not depend on
// a timezone; timezone only matters when deriving a Date from an instant,
// which DateOf handles.
func (d Date) Weekday() time.Weekday {
	return d.midnightUTC().Weekday()
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	t := d.midnightUTC().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Compare returns -1, 0 or +1 comparing d against o in calendar order.
func (d Date) Compare(o Date) int {
	return d.midnightUTC().Compare(o.midnightUTC())
}

// Before reports whether d falls before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d falls after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// At returns the instant at which the given wall-clock time occurs on this
// date in the given location.
func (d Date) At(c Clock, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, int(c)/60, int(c)%60, 0, 0, loc)
}

func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DateOf returns the calendar date of the instant in the instant's location.
// Convert first (t.In(loc)) to get the date as seen in a provider's timezone:
// the same instant can fall on different calendar days in different zones.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current calendar date as observed in loc.
func Today(now time.Time, loc *time.Location) Date {
	return DateOf(now.In(loc))
}

// DaysBetween returns the number of whole calendar days from a to b
// (negative when b precedes a).
func DaysBetween(a, b Date) int {
	return int(b.midnightUTC().Sub(a.midnightUTC()) / (24 * time.Hour))
}
