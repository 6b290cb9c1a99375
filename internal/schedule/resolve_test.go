package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

func TestResolveDay(t *testing.T) {
	weekly := []Range{rng("09:00", "17:00")}

	tests := []struct {
		name     string
		rules    []Range
		override *DayOverride
		wantKind ResolutionKind
		wantOpen []Range
	}{
		{
			name:     "no rules and no override is closed",
			wantKind: KindClosed,
		},
		{
			name:     "weekly rules pass through",
			rules:    weekly,
			wantKind: KindWeeklyRules,
			wantOpen: weekly,
		},
		{
			name:     "split rules come out sorted by start",
			rules:    []Range{rng("14:00", "17:00"), rng("09:00", "12:00")},
			wantKind: KindWeeklyRules,
			wantOpen: []Range{rng("09:00", "12:00"), rng("14:00", "17:00")},
		},
		{
			name:     "blocked override blanks the date regardless of rules",
			rules:    weekly,
			override: &DayOverride{Blocked: true},
			wantKind: KindFullDayBlocked,
		},
		{
			name:     "partial available override replaces the rules entirely",
			rules:    weekly,
			override: &DayOverride{Window: &Range{Start: clk("10:00"), End: clk("12:00")}},
			wantKind: KindOverrideWindow,
			wantOpen: []Range{rng("10:00", "12:00")},
		},
		{
			name:     "all-day available override opens the whole day",
			override: &DayOverride{},
			wantKind: KindOverrideWindow,
			wantOpen: []Range{{Start: 0, End: timeutil.MinutesPerDay}},
		},
		{
			name:     "available override on an otherwise closed day",
			override: &DayOverride{Window: &Range{Start: clk("18:00"), End: clk("21:00")}},
			wantKind: KindOverrideWindow,
			wantOpen: []Range{rng("18:00", "21:00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ResolveDay(tt.rules, tt.override)
			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, tt.wantOpen, res.Open)
			assert.Equal(t, len(tt.wantOpen) > 0, res.IsOpen())
		})
	}
}

func TestResolveDayDoesNotMutateRules(t *testing.T) {
	rules := []Range{rng("14:00", "17:00"), rng("09:00", "12:00")}
	_ = ResolveDay(rules, nil)
	assert.Equal(t, []Range{rng("14:00", "17:00"), rng("09:00", "12:00")}, rules)
}

func TestMaterializeRange(t *testing.T) {
	// 2026-03-16 is a Monday.
	monday := timeutil.Date{Year: 2026, Month: time.March, Day: 16}

	rules := map[time.Weekday][]Range{
		time.Monday:    {rng("09:00", "17:00")},
		time.Wednesday: {rng("09:00", "12:00"), rng("14:00", "17:00")},
	}
	overrides := map[timeutil.Date]DayOverride{
		// Tuesday gets special evening hours despite having no weekly rule.
		monday.AddDays(1): {Window: &Range{Start: clk("18:00"), End: clk("20:00")}},
		// Wednesday is blanked.
		monday.AddDays(2): {Blocked: true},
	}

	days := MaterializeRange(monday, monday.AddDays(3), rules, overrides)
	require.Len(t, days, 4)

	assert.Equal(t, monday, days[0].Date)
	assert.True(t, days[0].IsOpen())
	assert.Equal(t, []Range{rng("09:00", "17:00")}, days[0].Open)

	assert.True(t, days[1].IsOpen())
	assert.Equal(t, []Range{rng("18:00", "20:00")}, days[1].Open)

	assert.False(t, days[2].IsOpen(), "blocked override must win over weekly rules")

	assert.False(t, days[3].IsOpen(), "Thursday has no rule and no override")
}

func TestMaterializeRangeSingleDay(t *testing.T) {
	monday := timeutil.Date{Year: 2026, Month: time.March, Day: 16}
	rules := map[time.Weekday][]Range{time.Monday: {rng("09:00", "17:00")}}

	days := MaterializeRange(monday, monday, rules, nil)
	require.Len(t, days, 1)
	assert.Equal(t, []Range{rng("09:00", "17:00")}, days[0].Open)
}
