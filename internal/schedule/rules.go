package schedule

import (
	"fmt"
	"time"
)

// WeeklyRule is a recurring availability window on one day of week, as seen
// by the rule-overlap validator.
type WeeklyRule struct {
	ID      string
	Weekday time.Weekday
	Window  Range
}

// RuleOverlapError reports two weekly windows on the same day that overlap.
type RuleOverlapError struct {
	Weekday time.Weekday
	A, B    Range
}

func (e *RuleOverlapError) Error() string {
	return fmt.Sprintf("availability rules overlap on %s: %s-%s and %s-%s",
		e.Weekday, e.A.Start, e.A.End, e.B.Start, e.B.End)
}

// ValidateRuleSet checks an entire rule batch pairwise for same-day
// overlaps, using the core overlap predicate on [start, end) pairs. Touching
// windows (one ending exactly when the next starts) are fine. The check is
// all-or-nothing: the first offending pair fails the whole batch.
func ValidateRuleSet(rules []WeeklyRule) error {
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			if rules[i].Weekday != rules[j].Weekday {
				continue
			}
			if Overlaps(rules[i].Window, rules[j].Window) {
				return &RuleOverlapError{
					Weekday: rules[i].Weekday,
					A:       rules[i].Window,
					B:       rules[j].Window,
				}
			}
		}
	}
	return nil
}

// ValidateRuleAgainst checks a single candidate rule against the existing
// active rules for its provider. Rules sharing an ID with the candidate are
// skipped so that editing a rule does not collide with itself.
func ValidateRuleAgainst(existing []WeeklyRule, candidate WeeklyRule) error {
	for _, r := range existing {
		if r.Weekday != candidate.Weekday {
			continue
		}
		if candidate.ID != "" && r.ID == candidate.ID {
			continue
		}
		if Overlaps(r.Window, candidate.Window) {
			return &RuleOverlapError{
				Weekday: candidate.Weekday,
				A:       r.Window,
				B:       candidate.Window,
			}
		}
	}
	return nil
}
