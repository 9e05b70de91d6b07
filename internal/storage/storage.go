package storage

import "context"

// StoredAsset describes where a Store call put the original and its thumbnail.
// URL and ThumbnailURL are root-relative paths for the local backend and
// absolute URLs for the remote one.
type StoredAsset struct {
	Filename     string
	URL          string
	ThumbnailURL string
	Size         int64
}

// Backend persists image assets. Implementations must tolerate concurrent
// callers; uniqueness comes from collision-free naming, not locking.
//
// Store is atomic from the caller's view: either both assets are retrievable
// afterwards or the call fails with nothing retrievable.
//
// Remove is best-effort deletion of both assets. Deleting an asset that is
// already gone is not an error.
type Backend interface {
	Store(ctx context.Context, original, thumbnail []byte, originalName string) (*StoredAsset, error)
	Remove(ctx context.Context, url, thumbnailURL string) error
}
