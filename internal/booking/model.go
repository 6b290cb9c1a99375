package booking

import (
	"net/http"
	"time"

	"github.com/tidemill/bookable-backend/internal/pkg/apperror"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrAlreadyCancelled = apperror.New(http.StatusConflict, "booking is already cancelled")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Blocks reports whether a booking in this status occupies the timeline.
// Everything except a cancelled booking blocks.
func (s Status) Blocks() bool {
	return s != StatusCancelled
}

type Booking struct {
	ID         string // UUID
	ProviderID string
	ServiceID  string
	UserID     string
	Date       timeutil.Date
	Start      timeutil.Clock
	End        timeutil.Clock
	Status     Status
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
