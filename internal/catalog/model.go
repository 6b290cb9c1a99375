package catalog

import (
	"net/http"
	"time"

	"github.com/tidemill/bookable-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NewCoded(http.StatusNotFound, "SERVICE_NOT_FOUND", "service not found")
	ErrNotAvailable     = apperror.NewCoded(http.StatusConflict, "SERVICE_NOT_AVAILABLE", "service is not available for booking")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "service name is required")
	ErrInvalidDuration  = apperror.New(http.StatusBadRequest, "duration must be between 5 and 480 minutes")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Offering is a bookable service listed by a provider (e.g., "60-minute
// deep-tissue massage"). Its duration sizes the slots and bookings made
// against it.
type Offering struct {
	ID              string // UUID
	ProviderID      string
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing offerings.
type Filter struct {
	ProviderID string
	IsActive   *bool
	Page       int
	PageSize   int
}
