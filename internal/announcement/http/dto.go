package http

import (
	"time"

	"github.com/tidemill/bookable-backend/internal/announcement"
	"github.com/tidemill/bookable-backend/internal/pkg/request"
)

type CreateAnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required,max=5000"`
}

type UpdateAnnouncementRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Content *string `json:"content" binding:"omitempty,max=5000"`
}

type ListAnnouncementsRequest struct {
	request.ListParams
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

type AnnouncementResponse struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewAnnouncementResponse(a *announcement.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:         a.ID,
		ProviderID: a.ProviderID,
		Title:      a.Title,
		Content:    a.Content,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
