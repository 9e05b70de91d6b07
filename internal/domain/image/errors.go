package image

import "errors"

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrEmptyFile        = errors.New("file is empty")
	ErrInvalidFileType  = errors.New("file is not an image")
	ErrTitleRequired    = errors.New("title is required")
	ErrUnsupportedImage = errors.New("image format is not supported")
	ErrStorageBackend   = errors.New("storage backend failure")
)
