// Package schedule implements the availability and booking-conflict engine:
// per-date resolution of weekly rules and overrides, slot tiling, buffered
// conflict detection and booking-window checks.
//
// Everything in this package is a pure computation over its inputs. There is
// no I/O and no shared state, so any function here can be re-executed inside
// a database transaction for the authoritative pre-commit recheck.
package schedule

import (
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

// Clock aliases the shared wall-clock minute type for brevity.
type Clock = timeutil.Clock

// Range is a half-open wall-clock interval [Start, End) within one day,
// in minutes since midnight. End may be 1440 ("24:00") for a full day.
type Range struct {
	Start timeutil.Clock
	End   timeutil.Clock
}

// Valid reports whether the range is well-formed (Start < End, within a day).
func (r Range) Valid() bool {
	return r.Start >= 0 && r.Start < r.End && r.End <= timeutil.MinutesPerDay
}

// Duration returns the length of the range in minutes.
func (r Range) Duration() int {
	return int(r.End - r.Start)
}

// Expand widens the range by before minutes on the left and after minutes on
// the right. The result may extend past the day boundary; that is fine for
// comparison purposes and must not be rendered as a clock time.
func (r Range) Expand(before, after int) Range {
	return Range{
		Start: r.Start - timeutil.Clock(before),
		End:   r.End + timeutil.Clock(after),
	}
}

// Contains reports whether o lies fully within r.
func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Overlaps is the core conflict predicate: two half-open ranges overlap iff
// each starts before the other ends. Touching endpoints (one range ending
// exactly when the other starts) do not overlap.
func Overlaps(a, b Range) bool {
	return a.Start < b.End && b.Start < a.End
}
