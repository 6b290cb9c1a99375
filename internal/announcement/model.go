package announcement

import (
	"net/http"
	"time"

	"github.com/tidemill/bookable-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "announcement not found")
	ErrTitleRequired    = apperror.New(http.StatusBadRequest, "title is required")
	ErrContentRequired  = apperror.New(http.StatusBadRequest, "content is required")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Announcement is a provider-published notice, e.g. holiday hours or a
// temporary closure heads-up, shown on the provider's public page.
type Announcement struct {
	ID         string
	ProviderID string
	Title      string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Filter struct {
	ProviderID string
	Keyword    string
	Page       int
	PageSize   int
}
