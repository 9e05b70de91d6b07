package image

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gallery/internal/pkg/response"
)

// Handler exposes the gallery over HTTP. Listing and fetching are public;
// upload and deletion sit behind the auth middleware.
type Handler struct {
	service     *Service
	maxFileSize int64
}

func NewHandler(service *Service, maxFileSize int64) *Handler {
	return &Handler{service: service, maxFileSize: maxFileSize}
}

func (h *Handler) List(c *gin.Context) {
	images, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "DATABASE_ERROR", "Unable to fetch images")
		return
	}
	response.Success(c, http.StatusOK, images)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	img, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
			return
		}
		response.Error(c, http.StatusServiceUnavailable, "DATABASE_ERROR", "Unable to fetch image")
		return
	}
	response.Success(c, http.StatusOK, img)
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No file uploaded")
		return
	}
	// Size ceiling is a boundary concern: the pipeline receives an
	// already-checked buffer.
	if fileHeader.Size > h.maxFileSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to read uploaded file")
		return
	}

	img, err := h.service.Upload(c.Request.Context(), UploadInput{
		Data:         data,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		OriginalName: fileHeader.Filename,
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Tags:         c.PostForm("tags"),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidFileType):
			response.Error(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only image files are allowed")
		case errors.Is(err, ErrTitleRequired):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Title is required")
		case errors.Is(err, ErrUnsupportedImage):
			response.Error(c, http.StatusBadRequest, "UNSUPPORTED_IMAGE_FORMAT", "Image format is not supported")
		case errors.Is(err, ErrStorageBackend):
			response.Error(c, http.StatusBadGateway, "UPLOAD_BACKEND_ERROR", "Failed to store image")
		default:
			response.Error(c, http.StatusServiceUnavailable, "DATABASE_ERROR", "Failed to save image record")
		}
		return
	}

	// Public projection only; internal fields stay server-side.
	response.Success(c, http.StatusCreated, gin.H{
		"id":           img.ID,
		"url":          img.URL,
		"thumbnailUrl": img.ThumbnailURL,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
			return
		}
		response.Error(c, http.StatusServiceUnavailable, "DATABASE_ERROR", "Failed to delete image")
		return
	}

	response.Message(c, http.StatusOK, "Image deleted successfully")
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid image ID")
		return 0, false
	}
	return id, true
}
