package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileSlots(t *testing.T) {
	tests := []struct {
		name      string
		open      []Range
		duration  int
		wantCount int
		wantFirst Range
		wantLast  Range
	}{
		{
			name:      "full work day in 30 minute slots",
			open:      []Range{rng("09:00", "17:00")},
			duration:  30,
			wantCount: 16,
			wantFirst: rng("09:00", "09:30"),
			wantLast:  rng("16:30", "17:00"),
		},
		{
			name:      "remainder shorter than duration is dropped",
			open:      []Range{rng("09:00", "10:45")},
			duration:  30,
			wantCount: 3,
			wantFirst: rng("09:00", "09:30"),
			wantLast:  rng("10:00", "10:30"),
		},
		{
			name:      "interval shorter than duration yields nothing",
			open:      []Range{rng("09:00", "09:20")},
			duration:  30,
			wantCount: 0,
		},
		{
			name:      "interval exactly one duration",
			open:      []Range{rng("09:00", "10:00")},
			duration:  60,
			wantCount: 1,
			wantFirst: rng("09:00", "10:00"),
			wantLast:  rng("09:00", "10:00"),
		},
		{
			name:      "split morning and afternoon",
			open:      []Range{rng("09:00", "12:00"), rng("14:00", "17:00")},
			duration:  60,
			wantCount: 6,
			wantFirst: rng("09:00", "10:00"),
			wantLast:  rng("16:00", "17:00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := TileSlots(tt.open, tt.duration)
			require.Len(t, slots, tt.wantCount)
			if tt.wantCount == 0 {
				return
			}

			assert.Equal(t, tt.wantFirst, slots[0].Window)
			assert.Equal(t, tt.wantLast, slots[len(slots)-1].Window)

			for i, s := range slots {
				assert.True(t, s.Available, "slot %d should start available", i)
				assert.Equal(t, tt.duration, s.Window.Duration(), "slot %d duration", i)
			}
			// Slots within the same interval never overlap each other.
			for i := 1; i < len(slots); i++ {
				assert.False(t, Overlaps(slots[i-1].Window, slots[i].Window))
			}
		})
	}
}

func TestTileSlotsInvalidDuration(t *testing.T) {
	assert.Nil(t, TileSlots([]Range{rng("09:00", "17:00")}, 0))
	assert.Nil(t, TileSlots([]Range{rng("09:00", "17:00")}, -15))
}

func TestMarkConflicts(t *testing.T) {
	slots := TileSlots([]Range{rng("09:00", "12:00")}, 60)
	require.Len(t, slots, 3)

	existing := []Occupied{{ID: "b1", Window: rng("10:00", "11:00")}}

	MarkConflicts(slots, existing, 0, 0)
	assert.True(t, slots[0].Available)  // 09:00-10:00, touching only
	assert.False(t, slots[1].Available) // 10:00-11:00
	assert.True(t, slots[2].Available)  // 11:00-12:00

	// With a 15 minute after-buffer the 11:00 slot falls into the buffer zone.
	slots = TileSlots([]Range{rng("09:00", "12:00")}, 60)
	MarkConflicts(slots, existing, 0, 15)
	assert.False(t, slots[1].Available)
	assert.False(t, slots[2].Available)
}
