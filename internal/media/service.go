package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tidemill/bookable-backend/internal/pkg/storage"
)

// maxUploadBytes caps uploads at 5 MiB; logos and gallery shots never need
// more.
const maxUploadBytes = 5 << 20

const thumbnailEdge = 300

type Service interface {
	Upload(ctx context.Context, header *multipart.FileHeader, userID string) (*File, error)
	Get(ctx context.Context, id string) (*File, error)
	Delete(ctx context.Context, id string, userID string) error
	Download(ctx context.Context, id string) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error)
}

type service struct {
	repo   Repository
	store  storage.Storage
	thumbs *storage.Thumbnailer
	logger *zap.Logger
}

func NewService(repo Repository, store storage.Storage, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		store:  store,
		thumbs: storage.NewThumbnailer(thumbnailEdge, thumbnailEdge),
		logger: logger,
	}
}

func (s *service) Upload(ctx context.Context, header *multipart.FileHeader, userID string) (*File, error) {
	if header.Size > maxUploadBytes {
		return nil, ErrTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedType
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	// Buffered so the content can be read twice: once for storage, once
	// for the thumbnail.
	content, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded file failed: %w", err)
	}
	if int64(len(content)) > maxUploadBytes {
		return nil, ErrTooLarge
	}

	fileID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	shard := fileID[:2]
	storagePath := fmt.Sprintf("upload/%s/%s%s", shard, fileID, ext)

	if err := s.store.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("save file failed: %w", err)
	}

	// A failed thumbnail never fails the upload.
	var thumbnailPath *string
	if small, err := s.thumbs.Generate(bytes.NewReader(content)); err != nil {
		s.logger.Warn("thumbnail generation failed",
			zap.String("file_id", fileID), zap.Error(err))
	} else {
		tp := fmt.Sprintf("upload/%s/%s_thumb.jpg", shard, fileID)
		if err := s.store.Save(ctx, tp, small); err != nil {
			s.logger.Warn("thumbnail save failed",
				zap.String("file_id", fileID), zap.Error(err))
		} else {
			thumbnailPath = &tp
		}
	}

	f := &File{
		ID:            fileID,
		UserID:        userID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		SizeBytes:     int64(len(content)),
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		_ = s.store.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.store.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}
	return f, nil
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string, userID string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f.UserID != userID {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, f.StoragePath); err != nil {
		s.logger.Warn("file cleanup failed", zap.String("file_id", id), zap.Error(err))
	}
	if f.ThumbnailPath != nil {
		_ = s.store.Delete(ctx, *f.ThumbnailPath)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.store.Get(ctx, f.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("retrieve file failed: %w", err)
	}
	return stream, f, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.store.Get(ctx, *f.ThumbnailPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNoThumbnail
		}
		return nil, nil, fmt.Errorf("retrieve thumbnail failed: %w", err)
	}
	return stream, f, nil
}
