package schedule

// Slot is a discrete bookable time window sized to a service duration.
// Available starts true and is finalized by the conflict detector.
type Slot struct {
	Window    Range
	Available bool
}

// TileSlots subdivides each open interval into fixed-stride, non-overlapping
// slots of the given duration in minutes. A trailing remainder shorter than
// the duration is dropped. Buffers are deliberately not baked into the slot
// boundaries: the visible grid reflects actual bookable start times, and
// buffer time is reserved at conflict-check time instead.
func TileSlots(open []Range, duration int) []Slot {
	if duration <= 0 {
		return nil
	}

	var slots []Slot
	for _, interval := range open {
		for cursor := interval.Start; int(cursor)+duration <= int(interval.End); cursor += Clock(duration) {
			slots = append(slots, Slot{
				Window:    Range{Start: cursor, End: cursor + Clock(duration)},
				Available: true,
			})
		}
	}
	return slots
}

// MarkConflicts finalizes the Available flag on each slot against the
// existing blocking bookings, applying buffer expansion on both sides.
func MarkConflicts(slots []Slot, existing []Occupied, bufferBefore, bufferAfter int) {
	for i := range slots {
		if _, conflict := FindConflict(slots[i].Window, existing, bufferBefore, bufferAfter); conflict {
			slots[i].Available = false
		}
	}
}
