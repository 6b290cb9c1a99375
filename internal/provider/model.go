package provider

import (
	"net/http"
	"time"

	"github.com/tidemill/bookable-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "provider not found")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "provider name is required")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Provider is a vendor on the marketplace. One provider owns one booking
// timeline; all availability rules, overrides, settings and bookings hang
// off a provider.
type Provider struct {
	ID          string // UUID
	OwnerUserID string
	Name        string
	Description string
	LogoFileID  *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing providers.
type Filter struct {
	OwnerUserID string
	Keyword     string
	IsActive    *bool
	Page        int
	PageSize    int
}
