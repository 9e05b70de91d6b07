package image

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gallery/internal/storage"
	"gallery/internal/thumbnail"
)

// UploadInput is the boundary contract for an upload: the decoded file
// payload plus the form fields. The buffer has already passed the size
// ceiling at the HTTP layer.
type UploadInput struct {
	Data         []byte
	MimeType     string
	OriginalName string
	Title        string
	Description  string
	Tags         string
}

// Service orchestrates the upload and deletion pipelines over a storage
// backend and the image record store. It is backend-agnostic: all
// local-vs-remote differences live behind storage.Backend.
type Service struct {
	repo    Repository
	backend storage.Backend
	thumbs  *thumbnail.Generator
	log     *zap.Logger
}

func NewService(repo Repository, backend storage.Backend, thumbs *thumbnail.Generator, log *zap.Logger) *Service {
	return &Service{repo: repo, backend: backend, thumbs: thumbs, log: log}
}

// Upload validates the input, derives the thumbnail and dimensions, stores
// both assets and creates the record. If record creation fails after storage
// succeeded, the stored assets are removed again so no orphan survives the
// call. Validation and decoding happen before any side effect.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Image, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if !strings.HasPrefix(in.MimeType, "image/") {
		return nil, ErrInvalidFileType
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	tags := ParseTags(in.Tags)

	th, err := s.thumbs.Generate(in.Data)
	if err != nil {
		s.log.Debug("thumbnail generation failed", zap.String("filename", in.OriginalName), zap.Error(err))
		return nil, ErrUnsupportedImage
	}

	// A client disconnect must not strand a half-committed pair: once
	// storage begins the operation either completes or rolls back fully.
	ctx = context.WithoutCancel(ctx)

	asset, err := s.backend.Store(ctx, in.Data, th.Data, in.OriginalName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageBackend, err)
	}

	// Compensating cleanup: the stored pair is released on every exit path
	// until the record commit succeeds.
	committed := false
	defer func() {
		if committed {
			return
		}
		if rmErr := s.backend.Remove(ctx, asset.URL, asset.ThumbnailURL); rmErr != nil {
			s.log.Warn("orphan cleanup failed after aborted upload",
				zap.String("filename", asset.Filename), zap.Error(rmErr))
		}
	}()

	img := &Image{
		Title:        title,
		Description:  in.Description,
		Filename:     asset.Filename,
		URL:          asset.URL,
		ThumbnailURL: asset.ThumbnailURL,
		Tags:         tags,
		Size:         asset.Size,
		Width:        th.Width,
		Height:       th.Height,
	}
	if err := s.repo.Create(ctx, img); err != nil {
		return nil, fmt.Errorf("create image record: %w", err)
	}
	committed = true

	return img, nil
}

// Delete removes the stored assets and then the record. Storage removal is
// best-effort: a failure there is logged but does not abort, because the
// record deletion is what the caller can meaningfully retry against. Only
// the record deletion decides the outcome.
func (s *Service) Delete(ctx context.Context, id int64) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.backend.Remove(ctx, img.URL, img.ThumbnailURL); err != nil {
		s.log.Warn("storage removal failed, deleting record anyway",
			zap.Int64("id", id), zap.String("filename", img.Filename), zap.Error(err))
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Image, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Image, error) {
	return s.repo.List(ctx)
}
