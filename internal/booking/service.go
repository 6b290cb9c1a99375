package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tidemill/bookable-backend/internal/availability"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
	"github.com/tidemill/bookable-backend/internal/schedule"
)

// ProviderGuard answers ownership questions for provider-side access.
// Satisfied by provider.Service.
type ProviderGuard interface {
	IsOwner(ctx context.Context, providerID, userID string) (bool, error)
}

// AvailabilityValidator is the schedule-side gate a booking must pass
// before it is committed. Satisfied by availability.Service.
type AvailabilityValidator interface {
	ValidateBookingRequest(ctx context.Context, providerID, offeringID string, date timeutil.Date, start timeutil.Clock, now time.Time) (*availability.BookingCandidate, error)
}

type CreateRequest struct {
	ProviderID string
	ServiceID  string
	Date       timeutil.Date
	Start      timeutil.Clock
	Note       string
}

type ListRequest struct {
	ProviderID string
	Status     Status
	FromDate   *timeutil.Date
	ToDate     *timeutil.Date
	Page       int
	PageSize   int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest, userID string) (*Booking, error)
	GetByID(ctx context.Context, id string, userID string) (*Booking, error)
	ListMine(ctx context.Context, req ListRequest, userID string) ([]*Booking, int, error)
	ListForProvider(ctx context.Context, req ListRequest, userID string) ([]*Booking, int, error)
	Cancel(ctx context.Context, id string, userID string) (*Booking, error)
	Confirm(ctx context.Context, id string, userID string) (*Booking, error)
}

type service struct {
	repo    Repository
	avail   AvailabilityValidator
	guard   ProviderGuard
	logger  *zap.Logger
	timeNow func() time.Time
}

func NewService(repo Repository, avail AvailabilityValidator, guard ProviderGuard, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		avail:   avail,
		guard:   guard,
		logger:  logger,
		timeNow: time.Now,
	}
}

// Create validates the request against the provider's schedule and commits
// it under the provider lock. The conflict check runs twice: once up front
// for a fast rejection, and again inside the transaction against the
// bookings visible there, so two concurrent requests for the same slot
// cannot both succeed.
func (s *service) Create(ctx context.Context, req CreateRequest, userID string) (*Booking, error) {
	now := s.timeNow()

	cand, err := s.avail.ValidateBookingRequest(ctx, req.ProviderID, req.ServiceID, req.Date, req.Start, now)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ProviderID: cand.ProviderID,
		ServiceID:  cand.OfferingID,
		UserID:     userID,
		Date:       cand.Date,
		Start:      cand.Window.Start,
		End:        cand.Window.End,
		Status:     StatusConfirmed,
		Note:       req.Note,
	}

	settings := cand.Settings
	err = s.repo.CreateSerialized(ctx, b, func(existing []schedule.Occupied) error {
		if _, conflict := schedule.FindConflict(
			cand.Window, existing, settings.BufferBeforeMinutes, settings.BufferAfterMinutes,
		); conflict {
			return availability.ErrSlotAlreadyBooked
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("provider_id", b.ProviderID),
		zap.String("service_id", b.ServiceID),
		zap.String("date", b.Date.String()),
		zap.String("start", b.Start.String()),
	)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string, userID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, b, userID); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListMine(ctx context.Context, req ListRequest, userID string) ([]*Booking, int, error) {
	return s.repo.List(ctx, Filter{
		UserID:   userID,
		Status:   req.Status,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

func (s *service) ListForProvider(ctx context.Context, req ListRequest, userID string) ([]*Booking, int, error) {
	isOwner, err := s.guard.IsOwner(ctx, req.ProviderID, userID)
	if err != nil {
		return nil, 0, err
	}
	if !isOwner {
		return nil, 0, ErrPermissionDenied
	}

	return s.repo.List(ctx, Filter{
		ProviderID: req.ProviderID,
		Status:     req.Status,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
}

func (s *service) Cancel(ctx context.Context, id string, userID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, b, userID); err != nil {
		return nil, err
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled

	s.logger.Info("booking cancelled",
		zap.String("booking_id", b.ID),
		zap.String("provider_id", b.ProviderID),
	)
	return b, nil
}

// Confirm moves a pending booking to confirmed. Only the provider owner may
// confirm.
func (s *service) Confirm(ctx context.Context, id string, userID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner, err := s.guard.IsOwner(ctx, b.ProviderID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, ErrPermissionDenied
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusConfirmed); err != nil {
		return nil, err
	}
	b.Status = StatusConfirmed
	return b, nil
}

// authorize grants access to the booking's customer and the provider owner.
func (s *service) authorize(ctx context.Context, b *Booking, userID string) error {
	if b.UserID == userID {
		return nil
	}
	isOwner, err := s.guard.IsOwner(ctx, b.ProviderID, userID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrPermissionDenied
	}
	return nil
}
