package availability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemill/bookable-backend/internal/catalog"
	"github.com/tidemill/bookable-backend/internal/pkg/apperror"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
	"github.com/tidemill/bookable-backend/internal/schedule"
)

const (
	testProviderID = "11111111-1111-1111-1111-111111111111"
	testOfferingID = "22222222-2222-2222-2222-222222222222"
	testOwnerID    = "33333333-3333-3333-3333-333333333333"
)

type fakeRepo struct {
	rules     map[string]*Rule
	overrides map[string]*Override
	settings  *Settings
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rules:     map[string]*Rule{},
		overrides: map[string]*Override{},
		settings:  DefaultSettings(testProviderID),
	}
}

func (f *fakeRepo) id() string {
	f.nextID++
	return fmt.Sprintf("rule-%d", f.nextID)
}

func (f *fakeRepo) CreateRule(_ context.Context, r *Rule) error {
	r.ID = f.id()
	f.rules[r.ID] = r
	return nil
}

func (f *fakeRepo) GetRule(_ context.Context, id string) (*Rule, error) {
	r, ok := f.rules[id]
	if !ok {
		return nil, ErrRuleNotFound
	}
	return r, nil
}

func (f *fakeRepo) ListRules(_ context.Context, providerID string) ([]*Rule, error) {
	var out []*Rule
	for _, r := range f.rules {
		if r.ProviderID == providerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListActiveRules(_ context.Context, providerID string) ([]*Rule, error) {
	var out []*Rule
	for _, r := range f.rules {
		if r.ProviderID == providerID && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateRule(_ context.Context, r *Rule) error {
	if _, ok := f.rules[r.ID]; !ok {
		return ErrRuleNotFound
	}
	f.rules[r.ID] = r
	return nil
}

func (f *fakeRepo) DeleteRule(_ context.Context, id string) error {
	if _, ok := f.rules[id]; !ok {
		return ErrRuleNotFound
	}
	delete(f.rules, id)
	return nil
}

func (f *fakeRepo) ReplaceRules(_ context.Context, providerID string, rules []*Rule) error {
	for id, r := range f.rules {
		if r.ProviderID == providerID {
			delete(f.rules, id)
		}
	}
	for _, r := range rules {
		r.ID = f.id()
		f.rules[r.ID] = r
	}
	return nil
}

func (f *fakeRepo) CreateOverride(_ context.Context, o *Override) error {
	for _, existing := range f.overrides {
		if existing.ProviderID == o.ProviderID && existing.Date == o.Date {
			return ErrOverrideExists
		}
	}
	o.ID = f.id()
	f.overrides[o.ID] = o
	return nil
}

func (f *fakeRepo) GetOverride(_ context.Context, providerID string, date timeutil.Date) (*Override, error) {
	for _, o := range f.overrides {
		if o.ProviderID == providerID && o.Date == date {
			return o, nil
		}
	}
	return nil, ErrOverrideNotFound
}

func (f *fakeRepo) GetOverrideByID(_ context.Context, id string) (*Override, error) {
	o, ok := f.overrides[id]
	if !ok {
		return nil, ErrOverrideNotFound
	}
	return o, nil
}

func (f *fakeRepo) ListOverridesInRange(_ context.Context, providerID string, from, to timeutil.Date) ([]*Override, error) {
	var out []*Override
	for _, o := range f.overrides {
		if o.ProviderID == providerID && !o.Date.Before(from) && !o.Date.After(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteOverride(_ context.Context, id string) error {
	if _, ok := f.overrides[id]; !ok {
		return ErrOverrideNotFound
	}
	delete(f.overrides, id)
	return nil
}

func (f *fakeRepo) GetSettings(_ context.Context, providerID string) (*Settings, error) {
	if f.settings.ProviderID != providerID {
		return DefaultSettings(providerID), nil
	}
	return f.settings, nil
}

func (f *fakeRepo) UpdateSettings(_ context.Context, s *Settings) error {
	f.settings = s
	return nil
}

type fakeOfferings struct {
	offering *catalog.Offering
	err      error
}

func (f *fakeOfferings) GetBookable(_ context.Context, id string) (*catalog.Offering, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.offering == nil || f.offering.ID != id {
		return nil, catalog.ErrNotFound
	}
	return f.offering, nil
}

type fakeBookings struct {
	occupied map[timeutil.Date][]schedule.Occupied
}

func (f *fakeBookings) ListOccupied(_ context.Context, _ string, _, _ timeutil.Date) (map[timeutil.Date][]schedule.Occupied, error) {
	if f.occupied == nil {
		return map[timeutil.Date][]schedule.Occupied{}, nil
	}
	return f.occupied, nil
}

type fakeGuard struct {
	owner bool
}

func (f *fakeGuard) IsOwner(_ context.Context, _, _ string) (bool, error) {
	return f.owner, nil
}

type fixture struct {
	repo      *fakeRepo
	offerings *fakeOfferings
	bookings  *fakeBookings
	service   Service
}

func newFixture() *fixture {
	repo := newFakeRepo()
	offerings := &fakeOfferings{offering: &catalog.Offering{
		ID:              testOfferingID,
		ProviderID:      testProviderID,
		Name:            "Deep Tissue Massage",
		DurationMinutes: 60,
		IsActive:        true,
	}}
	bookings := &fakeBookings{}
	return &fixture{
		repo:      repo,
		offerings: offerings,
		bookings:  bookings,
		service:   NewService(repo, offerings, bookings, &fakeGuard{owner: true}),
	}
}

func clk(t *testing.T, s string) timeutil.Clock {
	t.Helper()
	c, err := timeutil.ParseClock(s)
	require.NoError(t, err)
	return c
}

func dt(t *testing.T, s string) timeutil.Date {
	t.Helper()
	d, err := timeutil.ParseDate(s)
	require.NoError(t, err)
	return d
}

// 2026-09-07 is a Monday.
var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func (f *fixture) addRule(t *testing.T, weekday time.Weekday, start, end string) *Rule {
	t.Helper()
	rule, err := f.service.CreateRule(context.Background(), testProviderID, RuleInput{
		Weekday:  weekday,
		Start:    clk(t, start),
		End:      clk(t, end),
		IsActive: true,
	}, testOwnerID)
	require.NoError(t, err)
	return rule
}

func TestCreateRule_RejectsOverlap(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "12:00")

	_, err := f.service.CreateRule(context.Background(), testProviderID, RuleInput{
		Weekday:  time.Monday,
		Start:    clk(t, "11:00"),
		End:      clk(t, "14:00"),
		IsActive: true,
	}, testOwnerID)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RULE_OVERLAP", appErr.Code)
}

func TestCreateRule_TouchingWindowsAllowed(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "12:00")

	_, err := f.service.CreateRule(context.Background(), testProviderID, RuleInput{
		Weekday:  time.Monday,
		Start:    clk(t, "12:00"),
		End:      clk(t, "14:00"),
		IsActive: true,
	}, testOwnerID)
	assert.NoError(t, err)
}

func TestCreateRule_InactiveSkipsOverlapCheck(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "12:00")

	_, err := f.service.CreateRule(context.Background(), testProviderID, RuleInput{
		Weekday: time.Monday,
		Start:   clk(t, "10:00"),
		End:     clk(t, "11:00"),
	}, testOwnerID)
	assert.NoError(t, err)
}

func TestReplaceRules_AllOrNothing(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "12:00")

	_, err := f.service.ReplaceRules(context.Background(), testProviderID, []RuleInput{
		{Weekday: time.Tuesday, Start: clk(t, "09:00"), End: clk(t, "12:00"), IsActive: true},
		{Weekday: time.Tuesday, Start: clk(t, "11:00"), End: clk(t, "14:00"), IsActive: true},
	}, testOwnerID)
	require.Error(t, err)

	// The existing set must be untouched after a rejected replacement.
	rules, err := f.repo.ListRules(context.Background(), testProviderID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, time.Monday, rules[0].Weekday)
}

func TestCreateOverride_BlockedWithTimesRejected(t *testing.T) {
	f := newFixture()
	start := clk(t, "09:00")

	_, err := f.service.CreateOverride(context.Background(), testProviderID, OverrideInput{
		Date:    dt(t, "2026-09-07"),
		Blocked: true,
		Start:   &start,
	}, testOwnerID)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateOverride_DuplicateDateConflicts(t *testing.T) {
	f := newFixture()
	in := OverrideInput{Date: dt(t, "2026-09-07"), Blocked: true}

	_, err := f.service.CreateOverride(context.Background(), testProviderID, in, testOwnerID)
	require.NoError(t, err)

	_, err = f.service.CreateOverride(context.Background(), testProviderID, in, testOwnerID)
	assert.ErrorIs(t, err, ErrOverrideExists)
}

func TestMutations_RequireOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeOfferings{}, &fakeBookings{}, &fakeGuard{owner: false})

	_, err := svc.CreateRule(context.Background(), testProviderID, RuleInput{
		Weekday: time.Monday, Start: clk(t, "09:00"), End: clk(t, "12:00"), IsActive: true,
	}, testOwnerID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.GetSettings(context.Background(), testProviderID, testOwnerID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateSettings_RejectsOutOfRange(t *testing.T) {
	f := newFixture()
	bad := 10 // below the slot duration floor

	_, err := f.service.UpdateSettings(context.Background(), testProviderID, SettingsPatch{
		SlotDurationMinutes: &bad,
	}, testOwnerID)
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestUpdateSettings_RejectsUnknownTimezone(t *testing.T) {
	f := newFixture()
	tz := "Mars/Olympus_Mons"

	_, err := f.service.UpdateSettings(context.Background(), testProviderID, SettingsPatch{
		Timezone: &tz,
	}, testOwnerID)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestGetAvailableDates_OverridePrecedence(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "17:00")

	// Blocked override beats the weekly rule.
	_, err := f.service.CreateOverride(context.Background(), testProviderID, OverrideInput{
		Date:    dt(t, "2026-09-07"),
		Blocked: true,
	}, testOwnerID)
	require.NoError(t, err)

	dates, tz, err := f.service.GetAvailableDates(
		context.Background(), testProviderID, dt(t, "2026-09-07"), dt(t, "2026-09-08"), testNow)
	require.NoError(t, err)
	assert.Equal(t, "UTC", tz)
	require.Len(t, dates, 2)

	assert.False(t, dates[0].HasAvailability, "blocked Monday")
	assert.False(t, dates[1].HasAvailability, "Tuesday has no rule")
}

func TestGetAvailableDates_AvailableOverrideOpensClosedDay(t *testing.T) {
	f := newFixture()
	start, end := clk(t, "10:00"), clk(t, "12:00")

	// No weekly rules at all; the override alone opens the date.
	_, err := f.service.CreateOverride(context.Background(), testProviderID, OverrideInput{
		Date:  dt(t, "2026-09-08"),
		Start: &start,
		End:   &end,
	}, testOwnerID)
	require.NoError(t, err)

	dates, _, err := f.service.GetAvailableDates(
		context.Background(), testProviderID, dt(t, "2026-09-08"), dt(t, "2026-09-08"), testNow)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.True(t, dates[0].HasAvailability)
}

func TestGetAvailableDates_ClampsToBookingWindow(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "17:00")

	// Default max advance is 30 days; a huge range comes back clamped.
	dates, _, err := f.service.GetAvailableDates(
		context.Background(), testProviderID, dt(t, "2026-01-01"), dt(t, "2027-01-01"), testNow)
	require.NoError(t, err)
	require.Len(t, dates, 31)
	assert.Equal(t, dt(t, "2026-09-01"), dates[0].Date)
	assert.Equal(t, dt(t, "2026-10-01"), dates[len(dates)-1].Date)
}

func TestGetAvailableSlots_TilesOfferingDuration(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "17:00")

	slots, tz, err := f.service.GetAvailableSlots(
		context.Background(), testProviderID, testOfferingID, dt(t, "2026-09-07"), testNow)
	require.NoError(t, err)
	assert.Equal(t, "UTC", tz)
	require.Len(t, slots, 8)

	assert.Equal(t, clk(t, "09:00"), slots[0].Start)
	assert.Equal(t, clk(t, "10:00"), slots[0].End)
	assert.Equal(t, clk(t, "16:00"), slots[7].Start)
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestGetAvailableSlots_MarksBookedAndBuffered(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "17:00")
	f.repo.settings.BufferAfterMinutes = 15

	date := dt(t, "2026-09-07")
	f.bookings.occupied = map[timeutil.Date][]schedule.Occupied{
		date: {{ID: "b1", Window: schedule.Range{Start: clk(t, "10:00"), End: clk(t, "11:00")}}},
	}

	slots, _, err := f.service.GetAvailableSlots(
		context.Background(), testProviderID, testOfferingID, date, testNow)
	require.NoError(t, err)
	require.Len(t, slots, 8)

	// Buffers expand the candidate too: 09:00-10:00 needs 15 clear minutes
	// after it, which the 10:00 booking denies.
	assert.False(t, slots[0].Available, "09:00 would leave no gap before the booking")
	assert.False(t, slots[1].Available, "10:00 is booked")
	assert.False(t, slots[2].Available, "11:00 falls inside the 15-minute buffer")
	assert.True(t, slots[3].Available, "12:00 is clear")
}

func TestGetAvailableSlots_PastDateReturnsEmpty(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "17:00")

	slots, _, err := f.service.GetAvailableSlots(
		context.Background(), testProviderID, testOfferingID, dt(t, "2026-08-31"), testNow)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailableSlots_InactiveOfferingRejected(t *testing.T) {
	f := newFixture()
	f.offerings.err = catalog.ErrNotAvailable

	_, _, err := f.service.GetAvailableSlots(
		context.Background(), testProviderID, testOfferingID, dt(t, "2026-09-07"), testNow)
	assert.ErrorIs(t, err, catalog.ErrNotAvailable)
}

func TestValidateBookingRequest_Success(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "17:00")

	cand, err := f.service.ValidateBookingRequest(
		context.Background(), testProviderID, testOfferingID, dt(t, "2026-09-07"), clk(t, "10:00"), testNow)
	require.NoError(t, err)
	assert.Equal(t, schedule.Range{Start: clk(t, "10:00"), End: clk(t, "11:00")}, cand.Window)
	assert.Equal(t, testProviderID, cand.ProviderID)
}

func TestValidateBookingRequest_ErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, f *fixture)
		date     string
		start    string
		now      time.Time
		wantCode string
	}{
		{
			name: "too soon",
			setup: func(t *testing.T, f *fixture) {
				f.repo.settings.MinAdvanceHours = 24
			},
			date:     "2026-09-01",
			start:    "10:00",
			now:      testNow, // 08:00 the same day
			wantCode: "OUTSIDE_BOOKING_WINDOW",
		},
		{
			name:     "too far ahead",
			setup:    func(t *testing.T, f *fixture) {},
			date:     "2026-12-01",
			start:    "10:00",
			now:      testNow,
			wantCode: "OUTSIDE_BOOKING_WINDOW",
		},
		{
			name:     "outside open hours",
			setup:    func(t *testing.T, f *fixture) {},
			date:     "2026-09-07",
			start:    "18:00",
			now:      testNow,
			wantCode: "TIME_NOT_AVAILABLE",
		},
		{
			name: "straddles closing time",
			setup: func(t *testing.T, f *fixture) {
			},
			date:     "2026-09-07",
			start:    "16:30", // 60-minute offering runs past 17:00
			now:      testNow,
			wantCode: "TIME_NOT_AVAILABLE",
		},
		{
			name: "conflicts with existing booking",
			setup: func(t *testing.T, f *fixture) {
				f.bookings.occupied = map[timeutil.Date][]schedule.Occupied{
					dt(t, "2026-09-07"): {{ID: "b1", Window: schedule.Range{
						Start: clk(t, "10:30"), End: clk(t, "11:30"),
					}}},
				}
			},
			date:     "2026-09-07",
			start:    "10:00",
			now:      testNow,
			wantCode: "SLOT_ALREADY_BOOKED",
		},
		{
			name: "buffer collision",
			setup: func(t *testing.T, f *fixture) {
				f.repo.settings.BufferAfterMinutes = 15
				f.bookings.occupied = map[timeutil.Date][]schedule.Occupied{
					dt(t, "2026-09-07"): {{ID: "b1", Window: schedule.Range{
						Start: clk(t, "09:00"), End: clk(t, "10:00"),
					}}},
				}
			},
			date:     "2026-09-07",
			start:    "10:00", // clear of the booking, inside its trailing buffer
			now:      testNow,
			wantCode: "SLOT_ALREADY_BOOKED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.addRule(t, time.Monday, "09:00", "17:00")
			f.addRule(t, time.Tuesday, "09:00", "17:00")
			tt.setup(t, f)

			_, err := f.service.ValidateBookingRequest(
				context.Background(), testProviderID, testOfferingID, dt(t, tt.date), clk(t, tt.start), tt.now)
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestValidateBookingRequest_OfferingFromAnotherProvider(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "17:00")
	f.offerings.offering.ProviderID = "99999999-9999-9999-9999-999999999999"

	_, err := f.service.ValidateBookingRequest(
		context.Background(), testProviderID, testOfferingID, dt(t, "2026-09-07"), clk(t, "10:00"), testNow)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestValidateBookingRequest_Idempotent(t *testing.T) {
	f := newFixture()
	f.addRule(t, time.Monday, "09:00", "17:00")

	first, err := f.service.ValidateBookingRequest(
		context.Background(), testProviderID, testOfferingID, dt(t, "2026-09-07"), clk(t, "10:00"), testNow)
	require.NoError(t, err)

	second, err := f.service.ValidateBookingRequest(
		context.Background(), testProviderID, testOfferingID, dt(t, "2026-09-07"), clk(t, "10:00"), testNow)
	require.NoError(t, err)
	assert.Equal(t, first.Window, second.Window)
	assert.Equal(t, first.Date, second.Date)
}
