package http

import (
	"time"

	"github.com/tidemill/bookable-backend/internal/booking"
	"github.com/tidemill/bookable-backend/internal/pkg/request"
	"github.com/tidemill/bookable-backend/internal/pkg/timeutil"
)

type CreateBookingRequest struct {
	ProviderID string `json:"provider_id" binding:"required,uuid"`
	ServiceID  string `json:"service_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	Note       string `json:"note" binding:"omitempty,max=500"`
}

func (r CreateBookingRequest) toServiceRequest() (booking.CreateRequest, error) {
	date, err := timeutil.ParseDate(r.Date)
	if err != nil {
		return booking.CreateRequest{}, err
	}
	start, err := timeutil.ParseClock(r.StartTime)
	if err != nil {
		return booking.CreateRequest{}, err
	}
	return booking.CreateRequest{
		ProviderID: r.ProviderID,
		ServiceID:  r.ServiceID,
		Date:       date,
		Start:      start,
		Note:       r.Note,
	}, nil
}

type ListBookingsRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	From   string `form:"from"`
	To     string `form:"to"`
}

func (r ListBookingsRequest) toServiceRequest() (booking.ListRequest, error) {
	req := booking.ListRequest{
		Status:   booking.Status(r.Status),
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if r.From != "" {
		from, err := timeutil.ParseDate(r.From)
		if err != nil {
			return booking.ListRequest{}, err
		}
		req.FromDate = &from
	}
	if r.To != "" {
		to, err := timeutil.ParseDate(r.To)
		if err != nil {
			return booking.ListRequest{}, err
		}
		req.ToDate = &to
	}
	return req, nil
}

type BookingResponse struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	ServiceID  string    `json:"service_id"`
	UserID     string    `json:"user_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		UserID:     b.UserID,
		Date:       b.Date.String(),
		StartTime:  b.Start.String(),
		EndTime:    b.End.String(),
		Status:     string(b.Status),
		Note:       b.Note,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
