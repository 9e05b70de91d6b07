package auth

import "github.com/gin-gonic/gin"

func RegisterRoutes(public, protected *gin.RouterGroup, h *Handler) {
	authGroup := public.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	users := protected.Group("/users")
	{
		users.GET("/me", h.GetMe)
	}
}
