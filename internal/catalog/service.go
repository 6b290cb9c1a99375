package catalog

import (
	"context"
	"strings"

	"github.com/tidemill/bookable-backend/internal/provider"
)

const (
	minDurationMinutes = 5
	maxDurationMinutes = 480
)

type CreateRequest struct {
	ProviderID      string
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int
}

type UpdateRequest struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	PriceCents      *int
	IsActive        *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest, creatorUserID string) (*Offering, error)
	GetByID(ctx context.Context, id string) (*Offering, error)
	List(ctx context.Context, filter Filter) ([]*Offering, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Offering, error)
	Delete(ctx context.Context, id string, deleterUserID string) error

	// GetBookable returns the offering only if it exists and is active, with
	// the taxonomy errors the booking path expects.
	GetBookable(ctx context.Context, id string) (*Offering, error)
}

type service struct {
	repo        Repository
	provService provider.Service
}

func NewService(repo Repository, provService provider.Service) Service {
	return &service{
		repo:        repo,
		provService: provService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest, creatorUserID string) (*Offering, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.DurationMinutes < minDurationMinutes || req.DurationMinutes > maxDurationMinutes {
		return nil, ErrInvalidDuration
	}

	isOwner, err := s.provService.IsOwner(ctx, req.ProviderID, creatorUserID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, ErrPermissionDenied
	}

	o := &Offering{
		ProviderID:      req.ProviderID,
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Offering, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Offering, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner, err := s.provService.IsOwner(ctx, o.ProviderID, updaterUserID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		o.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		o.Description = strings.TrimSpace(*req.Description)
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < minDurationMinutes || *req.DurationMinutes > maxDurationMinutes {
			return nil, ErrInvalidDuration
		}
		o.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		o.PriceCents = *req.PriceCents
	}
	if req.IsActive != nil {
		o.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Delete(ctx context.Context, id string, deleterUserID string) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	isOwner, err := s.provService.IsOwner(ctx, o.ProviderID, deleterUserID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrPermissionDenied
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) GetBookable(ctx context.Context, id string) (*Offering, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.IsActive {
		return nil, ErrNotAvailable
	}
	return o, nil
}
