package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	imagesURLPrefix     = "/images/"
	thumbnailsURLPrefix = "/thumbnails/"
)

// Local stores assets under two fixed directories on disk. The HTTP layer is
// expected to map /images and /thumbnails onto them. Filenames are UUIDs with
// the original extension preserved, so concurrent stores never collide.
type Local struct {
	imagesDir     string
	thumbnailsDir string
}

func NewLocal(imagesDir, thumbnailsDir string) *Local {
	return &Local{imagesDir: imagesDir, thumbnailsDir: thumbnailsDir}
}

func (l *Local) Store(ctx context.Context, original, thumbnail []byte, originalName string) (*StoredAsset, error) {
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".bin"
	}
	filename := id + ext
	thumbName := id + ".jpg" // thumbnails are always JPEG

	origPath := filepath.Join(l.imagesDir, filename)
	if err := os.WriteFile(origPath, original, 0o644); err != nil {
		return nil, fmt.Errorf("write original: %w", err)
	}

	thumbPath := filepath.Join(l.thumbnailsDir, thumbName)
	if err := os.WriteFile(thumbPath, thumbnail, 0o644); err != nil {
		// Keep the pair atomic: never leave an original without its thumbnail.
		_ = os.Remove(origPath)
		return nil, fmt.Errorf("write thumbnail: %w", err)
	}

	return &StoredAsset{
		Filename:     filename,
		URL:          imagesURLPrefix + filename,
		ThumbnailURL: thumbnailsURLPrefix + thumbName,
		Size:         int64(len(original)),
	}, nil
}

func (l *Local) Remove(ctx context.Context, url, thumbnailURL string) error {
	var errs []error
	if p := l.localPath(url); p != "" {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove original: %w", err))
		}
	}
	if p := l.localPath(thumbnailURL); p != "" {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove thumbnail: %w", err))
		}
	}
	return errors.Join(errs...)
}

// localPath maps a root-relative asset URL back onto disk. Only the basename
// is used, so a stored locator can never escape the two asset directories.
func (l *Local) localPath(url string) string {
	switch {
	case strings.HasPrefix(url, imagesURLPrefix):
		return filepath.Join(l.imagesDir, path.Base(url))
	case strings.HasPrefix(url, thumbnailsURLPrefix):
		return filepath.Join(l.thumbnailsDir, path.Base(url))
	default:
		return ""
	}
}
