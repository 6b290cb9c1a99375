package http

import (
	"time"

	"github.com/tidemill/bookable-backend/internal/pkg/request"
	"github.com/tidemill/bookable-backend/internal/provider"
)

type CreateProviderRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// Validate performs custom validation for CreateProviderRequest.
func (r *CreateProviderRequest) Validate() error {
	return nil
}

type UpdateProviderRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

type ListProvidersRequest struct {
	request.ListParams
	Keyword string `form:"keyword" binding:"omitempty,max=200"`
	Owner   string `form:"owner" binding:"omitempty,uuid"`
}

type ProviderResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoFileID  *string   `json:"logo_file_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProviderResponse(p *provider.Provider) ProviderResponse {
	return ProviderResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		LogoFileID:  p.LogoFileID,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProviderTag is the minimal provider reference embedded in other responses.
type ProviderTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
