package http

import (
	"time"

	"github.com/tidemill/bookable-backend/internal/media"
)

type FileResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewFileResponse(f *media.File) FileResponse {
	resp := FileResponse{
		ID:          f.ID,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		URL:         media.FileURL(f.ID),
		CreatedAt:   f.CreatedAt,
	}
	if f.ThumbnailPath != nil {
		u := media.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &u
	}
	return resp
}
