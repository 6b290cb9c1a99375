package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

func clk(s string) timeutil.Clock {
	c, err := timeutil.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func rng(start, end string) Range {
	return Range{Start: clk(start), End: clk(end)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{"identical", rng("09:00", "10:00"), rng("09:00", "10:00"), true},
		{"partial overlap", rng("09:00", "10:00"), rng("09:30", "10:30"), true},
		{"contained", rng("09:00", "12:00"), rng("10:00", "11:00"), true},
		{"touching end-to-start", rng("09:00", "10:00"), rng("10:00", "11:00"), false},
		{"touching start-to-end", rng("10:00", "11:00"), rng("09:00", "10:00"), false},
		{"disjoint", rng("09:00", "10:00"), rng("14:00", "15:00"), false},
		{"one-minute overlap", rng("09:00", "10:01"), rng("10:00", "11:00"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			// Overlap is symmetric.
			assert.Equal(t, Overlaps(tt.a, tt.b), Overlaps(tt.b, tt.a))
		})
	}
}

func TestRangeValid(t *testing.T) {
	assert.True(t, rng("09:00", "17:00").Valid())
	assert.True(t, Range{Start: 0, End: timeutil.MinutesPerDay}.Valid())
	assert.False(t, rng("17:00", "09:00").Valid())
	assert.False(t, rng("09:00", "09:00").Valid())
	assert.False(t, Range{Start: -10, End: 60}.Valid())
}

func TestRangeExpandAndContains(t *testing.T) {
	r := rng("10:00", "11:00")

	expanded := r.Expand(15, 30)
	assert.Equal(t, clk("09:45"), expanded.Start)
	assert.Equal(t, clk("11:30"), expanded.End)

	assert.True(t, rng("09:00", "17:00").Contains(rng("09:00", "10:00")))
	assert.True(t, rng("09:00", "17:00").Contains(rng("16:00", "17:00")))
	assert.False(t, rng("09:00", "17:00").Contains(rng("16:30", "17:30")))
	assert.False(t, rng("09:00", "12:00").Contains(rng("11:00", "14:00")))
}
