package provider

import (
	"context"
	"strings"
)

type CreateRequest struct {
	OwnerUserID string
	Name        string
	Description string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	IsActive    *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Provider, error)
	GetByID(ctx context.Context, id string) (*Provider, error)
	List(ctx context.Context, filter Filter) ([]*Provider, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string, isSysAdmin bool) (*Provider, error)
	Delete(ctx context.Context, id string, deleterUserID string, isSysAdmin bool) error

	// IsOwner reports whether the user owns the provider. Used by the
	// availability and catalog modules to gate mutations.
	IsOwner(ctx context.Context, providerID, userID string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Provider, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	p := &Provider{
		OwnerUserID: req.OwnerUserID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Provider, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Provider, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string, isSysAdmin bool) (*Provider, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isSysAdmin && p.OwnerUserID != updaterUserID {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string, deleterUserID string, isSysAdmin bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isSysAdmin && p.OwnerUserID != deleterUserID {
		return ErrPermissionDenied
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) IsOwner(ctx context.Context, providerID, userID string) (bool, error) {
	p, err := s.repo.GetByID(ctx, providerID)
	if err != nil {
		return false, err
	}
	return p.OwnerUserID == userID, nil
}
