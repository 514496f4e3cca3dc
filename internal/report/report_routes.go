package report

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the report endpoints behind the bearer secret guard.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, secretGuard gin.HandlerFunc) {
	api := r.Group("/api/report")
	api.Use(secretGuard)
	{
		api.POST("/send", h.Send)
		api.GET("/preview", h.Preview)
	}
}
