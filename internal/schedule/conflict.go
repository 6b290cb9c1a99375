package schedule

// Occupied is an existing blocking booking's occupied window on the same
// date as the candidate being checked. Cancelled and otherwise non-blocking
// bookings must be filtered out before reaching the engine.
type Occupied struct {
	ID     string
	Window Range
}

// FindConflict checks a candidate occupied range against existing bookings,
// expanding both sides by the provider's buffers. Buffers are symmetric
// obligations of the schedule: the candidate's window is expanded, and so is
// each existing booking's. The first conflicting booking's ID is returned;
// callers never need the full set.
func FindConflict(candidate Range, existing []Occupied, bufferBefore, bufferAfter int) (string, bool) {
	expanded := candidate.Expand(bufferBefore, bufferAfter)

	for _, b := range existing {
		if Overlaps(expanded, b.Window.Expand(bufferBefore, bufferAfter)) {
			return b.ID, true
		}
	}
	return "", false
}

// WithinOpenIntervals reports whether the candidate range lies fully inside
// at least one open interval. Partial containment fails: a slot may not
// straddle the boundary between an open interval and a closed gap.
func WithinOpenIntervals(candidate Range, open []Range) bool {
	for _, interval := range open {
		if interval.Contains(candidate) {
			return true
		}
	}
	return false
}
