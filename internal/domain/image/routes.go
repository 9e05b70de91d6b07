package image

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the gallery endpoints. Reads are public, writes go
// under the protected group.
func RegisterRoutes(public, protected *gin.RouterGroup, h *Handler) {
	images := public.Group("/images")
	{
		images.GET("", h.List)
		images.GET("/:id", h.GetByID)
	}

	writes := protected.Group("/images")
	{
		writes.POST("", h.Upload)
		writes.DELETE("/:id", h.Delete)
	}
}
