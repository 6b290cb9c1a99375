package media

import (
	"net/http"
	"time"

	"github.com/tidemill/bookable-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "file not found")
	ErrUnsupportedType = apperror.New(http.StatusBadRequest, "only image uploads are accepted")
	ErrTooLarge        = apperror.New(http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
	ErrNoThumbnail     = apperror.New(http.StatusNotFound, "no thumbnail for this file")
)

// File is an uploaded image (provider logos and gallery shots). Storage
// paths stay internal; clients address files through their URLs.
type File struct {
	ID            string
	UserID        string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	SizeBytes     int64
	CreatedAt     time.Time
}

func FileURL(id string) string {
	return "/files/" + id
}

func ThumbnailURL(id string) string {
	return "/files/" + id + "/thumbnail"
}
