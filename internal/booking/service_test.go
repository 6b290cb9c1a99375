package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidemill/bookable-backend/internal/availability"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
	"github.com/tidemill/bookable-backend/internal/schedule"
)

const (
	testProviderID = "11111111-1111-1111-1111-111111111111"
	testServiceID  = "22222222-2222-2222-2222-222222222222"
	testCustomerID = "33333333-3333-3333-3333-333333333333"
	testOwnerID    = "44444444-4444-4444-4444-444444444444"
)

type fakeRepo struct {
	bookings map[string]*Booking
	nextID   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[string]*Booking{}}
}

func (f *fakeRepo) CreateSerialized(_ context.Context, b *Booking, recheck func(existing []schedule.Occupied) error) error {
	var existing []schedule.Occupied
	for _, other := range f.bookings {
		if other.ProviderID == b.ProviderID && other.Date == b.Date && other.Status.Blocks() {
			existing = append(existing, schedule.Occupied{
				ID:     other.ID,
				Window: schedule.Range{Start: other.Start, End: other.End},
			})
		}
	}
	if err := recheck(existing); err != nil {
		return err
	}

	f.nextID++
	b.ID = fmt.Sprintf("booking-%d", f.nextID)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if filter.ProviderID != "" && b.ProviderID != filter.ProviderID {
			continue
		}
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeRepo) ListOccupied(_ context.Context, providerID string, from, to timeutil.Date) (map[timeutil.Date][]schedule.Occupied, error) {
	occupied := map[timeutil.Date][]schedule.Occupied{}
	for _, b := range f.bookings {
		if b.ProviderID != providerID || !b.Status.Blocks() {
			continue
		}
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		occupied[b.Date] = append(occupied[b.Date], schedule.Occupied{
			ID:     b.ID,
			Window: schedule.Range{Start: b.Start, End: b.End},
		})
	}
	return occupied, nil
}

// fakeValidator approves any request inside 09:00-17:00 and hands back the
// default settings, mimicking the availability gate without its storage.
type fakeValidator struct {
	err      error
	settings *availability.Settings
}

func (f *fakeValidator) ValidateBookingRequest(_ context.Context, providerID, offeringID string, date timeutil.Date, start timeutil.Clock, _ time.Time) (*availability.BookingCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	window := schedule.Range{Start: start, End: start + 60}
	if !schedule.WithinOpenIntervals(window, []schedule.Range{{Start: 9 * 60, End: 17 * 60}}) {
		return nil, availability.ErrTimeNotAvailable
	}
	settings := f.settings
	if settings == nil {
		settings = availability.DefaultSettings(providerID)
	}
	return &availability.BookingCandidate{
		ProviderID: providerID,
		OfferingID: offeringID,
		Date:       date,
		Window:     window,
		Settings:   settings,
	}, nil
}

type fakeGuard struct {
	ownerID string
}

func (f *fakeGuard) IsOwner(_ context.Context, _, userID string) (bool, error) {
	return userID == f.ownerID, nil
}

type fixture struct {
	repo      *fakeRepo
	validator *fakeValidator
	service   Service
}

func newFixture() *fixture {
	repo := newFakeRepo()
	validator := &fakeValidator{}
	return &fixture{
		repo:      repo,
		validator: validator,
		service:   NewService(repo, validator, &fakeGuard{ownerID: testOwnerID}, zap.NewNop()),
	}
}

func dt(t *testing.T, s string) timeutil.Date {
	t.Helper()
	d, err := timeutil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func clk(t *testing.T, s string) timeutil.Clock {
	t.Helper()
	c, err := timeutil.ParseClock(s)
	require.NoError(t, err)
	return c
}

func TestCreate_Succeeds(t *testing.T) {
	f := newFixture()

	b, err := f.service.Create(context.Background(), CreateRequest{
		ProviderID: testProviderID,
		ServiceID:  testServiceID,
		Date:       dt(t, "2026-09-07"),
		Start:      clk(t, "10:00"),
	}, testCustomerID)
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, clk(t, "11:00"), b.End)
	assert.Equal(t, testCustomerID, b.UserID)
}

func TestCreate_ValidationFailurePropagates(t *testing.T) {
	f := newFixture()
	f.validator.err = availability.ErrOutsideBookingWindow

	_, err := f.service.Create(context.Background(), CreateRequest{
		ProviderID: testProviderID,
		ServiceID:  testServiceID,
		Date:       dt(t, "2026-09-07"),
		Start:      clk(t, "10:00"),
	}, testCustomerID)
	assert.ErrorIs(t, err, availability.ErrOutsideBookingWindow)
	assert.Empty(t, f.repo.bookings)
}

func TestCreate_RecheckCatchesRace(t *testing.T) {
	f := newFixture()
	req := CreateRequest{
		ProviderID: testProviderID,
		ServiceID:  testServiceID,
		Date:       dt(t, "2026-09-07"),
		Start:      clk(t, "10:00"),
	}

	// The validator sees an empty calendar both times; only the
	// in-transaction recheck can reject the second request.
	_, err := f.service.Create(context.Background(), req, testCustomerID)
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), req, "another-user")
	assert.ErrorIs(t, err, availability.ErrSlotAlreadyBooked)
	assert.Len(t, f.repo.bookings, 1)
}

func TestCreate_RecheckAppliesBuffers(t *testing.T) {
	f := newFixture()
	f.validator.settings = &availability.Settings{
		ProviderID:          testProviderID,
		Timezone:            "UTC",
		SlotDurationMinutes: 60,
		BufferAfterMinutes:  30,
		MaxAdvanceDays:      30,
	}

	_, err := f.service.Create(context.Background(), CreateRequest{
		ProviderID: testProviderID,
		ServiceID:  testServiceID,
		Date:       dt(t, "2026-09-07"),
		Start:      clk(t, "10:00"),
	}, testCustomerID)
	require.NoError(t, err)

	// 11:00 starts right when the first booking ends, inside its buffer.
	_, err = f.service.Create(context.Background(), CreateRequest{
		ProviderID: testProviderID,
		ServiceID:  testServiceID,
		Date:       dt(t, "2026-09-07"),
		Start:      clk(t, "11:00"),
	}, "another-user")
	assert.ErrorIs(t, err, availability.ErrSlotAlreadyBooked)

	// 11:30 clears the 30-minute buffer.
	_, err = f.service.Create(context.Background(), CreateRequest{
		ProviderID: testProviderID,
		ServiceID:  testServiceID,
		Date:       dt(t, "2026-09-07"),
		Start:      clk(t, "11:30"),
	}, "another-user")
	assert.NoError(t, err)
}

func TestCreate_CancelledBookingFreesSlot(t *testing.T) {
	f := newFixture()
	req := CreateRequest{
		ProviderID: testProviderID,
		ServiceID:  testServiceID,
		Date:       dt(t, "2026-09-07"),
		Start:      clk(t, "10:00"),
	}

	b, err := f.service.Create(context.Background(), req, testCustomerID)
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), b.ID, testCustomerID)
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), req, "another-user")
	assert.NoError(t, err)
}

func TestCancel_Authorization(t *testing.T) {
	f := newFixture()
	b, err := f.service.Create(context.Background(), CreateRequest{
		ProviderID: testProviderID,
		ServiceID:  testServiceID,
		Date:       dt(t, "2026-09-07"),
		Start:      clk(t, "10:00"),
	}, testCustomerID)
	require.NoError(t, err)

	// A stranger cannot cancel.
	_, err = f.service.Cancel(context.Background(), b.ID, "stranger")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The provider owner can.
	_, err = f.service.Cancel(context.Background(), b.ID, testOwnerID)
	assert.NoError(t, err)

	// Cancelling twice conflicts.
	_, err = f.service.Cancel(context.Background(), b.ID, testCustomerID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestGetByID_Authorization(t *testing.T) {
	f := newFixture()
	b, err := f.service.Create(context.Background(), CreateRequest{
		ProviderID: testProviderID,
		ServiceID:  testServiceID,
		Date:       dt(t, "2026-09-07"),
		Start:      clk(t, "10:00"),
	}, testCustomerID)
	require.NoError(t, err)

	_, err = f.service.GetByID(context.Background(), b.ID, testCustomerID)
	assert.NoError(t, err)

	_, err = f.service.GetByID(context.Background(), b.ID, testOwnerID)
	assert.NoError(t, err)

	_, err = f.service.GetByID(context.Background(), b.ID, "stranger")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestListForProvider_RequiresOwnership(t *testing.T) {
	f := newFixture()

	_, _, err := f.service.ListForProvider(context.Background(), ListRequest{
		ProviderID: testProviderID,
	}, testCustomerID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = f.service.ListForProvider(context.Background(), ListRequest{
		ProviderID: testProviderID,
	}, testOwnerID)
	assert.NoError(t, err)
}
