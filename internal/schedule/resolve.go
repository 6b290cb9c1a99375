package schedule

import (
	"sort"
	"time"

	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

// ResolutionKind tags how a date's open intervals were decided. Keeping the
// precedence order as an explicit resolution step (instead of nested branches
// inside slot generation) makes it auditable and testable in isolation.
type ResolutionKind int

const (
	// KindClosed means no override and no matching weekly rule: the date is
	// closed. Not an error.
	KindClosed ResolutionKind = iota
	// KindFullDayBlocked means a blocking override blanks the whole date,
	// regardless of weekly rules.
	KindFullDayBlocked
	// KindOverrideWindow means an available override fully replaces the
	// weekly rules with a single open window.
	KindOverrideWindow
	// KindWeeklyRules means the date's open intervals come from the active
	// weekly rules for its day of week.
	KindWeeklyRules
)

// DayOverride is a date-specific exception as seen by the engine.
// Blocked overrides never carry a window; available overrides carry a window
// for partial-day availability, or nil for the whole day.
type DayOverride struct {
	Blocked bool
	Window  *Range
}

// DayResolution is the outcome of resolving one date.
type DayResolution struct {
	Kind ResolutionKind
	Open []Range
}

// IsOpen reports whether the date has any bookable time at all.
func (r DayResolution) IsOpen() bool {
	return len(r.Open) > 0
}

// ResolveDay applies the override-precedence rules for a single date.
// rules are the active weekly windows for the date's day of week; they are
// expected to be mutually non-overlapping (enforced at rule-authoring time).
// Overlapping stored rules are a data-integrity bug and are emitted as-is,
// never silently merged.
func ResolveDay(rules []Range, ov *DayOverride) DayResolution {
	if ov != nil {
		if ov.Blocked {
			return DayResolution{Kind: KindFullDayBlocked}
		}
		window := Range{Start: 0, End: timeutil.MinutesPerDay}
		if ov.Window != nil {
			window = *ov.Window
		}
		return DayResolution{Kind: KindOverrideWindow, Open: []Range{window}}
	}

	if len(rules) == 0 {
		return DayResolution{Kind: KindClosed}
	}

	open := make([]Range, len(rules))
	copy(open, rules)
	sort.Slice(open, func(i, j int) bool { return open[i].Start < open[j].Start })

	return DayResolution{Kind: KindWeeklyRules, Open: open}
}

// DateAvailability is the materialized availability of one date, before any
// booking subtraction.
type DateAvailability struct {
	Date timeutil.Date
	Open []Range
}

// IsOpen reports whether the date has at least one open interval.
func (d DateAvailability) IsOpen() bool {
	return len(d.Open) > 0
}

// MaterializeRange resolves every date in the inclusive range [from, to].
// rulesByWeekday holds the active weekly windows per day of week; overrides
// maps exact dates to their exception. Overrides for dates outside the range
// are never consulted. Callers are responsible for capping the range by the
// provider's booking window on public paths.
func MaterializeRange(
	from, to timeutil.Date,
	rulesByWeekday map[time.Weekday][]Range,
	overrides map[timeutil.Date]DayOverride,
) []DateAvailability {
	var out []DateAvailability

	for d := from; !d.After(to); d = d.AddDays(1) {
		var ov *DayOverride
		if o, ok := overrides[d]; ok {
			o := o
			ov = &o
		}

		res := ResolveDay(rulesByWeekday[d.Weekday()], ov)
		out = append(out, DateAvailability{Date: d, Open: res.Open})
	}

	return out
}
