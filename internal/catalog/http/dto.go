package http

import (
	"time"

	"github.com/tidemill/bookable-backend/internal/catalog"
	"github.com/tidemill/bookable-backend/internal/pkg/request"
)

type CreateOfferingRequest struct {
	ProviderID      string `json:"provider_id" binding:"required,uuid"`
	Name            string `json:"name" binding:"required,max=200"`
	Description     string `json:"description" binding:"omitempty,max=2000"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=5,max=480"`
	PriceCents      int    `json:"price_cents" binding:"omitempty,min=0"`
}

type UpdateOfferingRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=200"`
	Description     *string `json:"description" binding:"omitempty,max=2000"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=5,max=480"`
	PriceCents      *int    `json:"price_cents" binding:"omitempty,min=0"`
	IsActive        *bool   `json:"is_active"`
}

type ListOfferingsRequest struct {
	request.ListParams
	ProviderID string `form:"provider_id" binding:"omitempty,uuid"`
}

type OfferingResponse struct {
	ID              string    `json:"id"`
	ProviderID      string    `json:"provider_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int       `json:"price_cents"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewOfferingResponse(o *catalog.Offering) OfferingResponse {
	return OfferingResponse{
		ID:              o.ID,
		ProviderID:      o.ProviderID,
		Name:            o.Name,
		Description:     o.Description,
		DurationMinutes: o.DurationMinutes,
		PriceCents:      o.PriceCents,
		IsActive:        o.IsActive,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
