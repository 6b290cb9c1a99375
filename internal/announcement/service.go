package announcement

import (
	"context"
	"strings"
)

// ProviderGuard answers ownership questions for mutation endpoints.
// Satisfied by provider.Service.
type ProviderGuard interface {
	IsOwner(ctx context.Context, providerID, userID string) (bool, error)
}

type CreateRequest struct {
	ProviderID string
	Title      string
	Content    string
}

type UpdateRequest struct {
	Title   *string
	Content *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest, userID string) (*Announcement, error)
	GetByID(ctx context.Context, id string) (*Announcement, error)
	List(ctx context.Context, filter Filter) ([]*Announcement, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, userID string) (*Announcement, error)
	Delete(ctx context.Context, id string, userID string) error
}

type service struct {
	repo  Repository
	guard ProviderGuard
}

func NewService(repo Repository, guard ProviderGuard) Service {
	return &service{repo: repo, guard: guard}
}

func (s *service) requireOwner(ctx context.Context, providerID, userID string) error {
	isOwner, err := s.guard.IsOwner(ctx, providerID, userID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrPermissionDenied
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest, userID string) (*Announcement, error) {
	if err := s.requireOwner(ctx, req.ProviderID, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}

	a := &Announcement{
		ProviderID: req.ProviderID,
		Title:      req.Title,
		Content:    req.Content,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Announcement, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Announcement, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, userID string) (*Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, a.ProviderID, userID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		a.Title = *req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, ErrContentRequired
		}
		a.Content = *req.Content
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id string, userID string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, a.ProviderID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
