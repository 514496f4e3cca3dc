package ledger

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the machine endpoints. secretGuard is the bearer
// shared-secret check; extra middleware (idempotency) applies to the push
// endpoint only.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, secretGuard gin.HandlerFunc, pushExtra ...gin.HandlerFunc) {
	api := r.Group("/api")
	api.Use(secretGuard)
	{
		push := append([]gin.HandlerFunc{}, pushExtra...)
		push = append(push, h.PushEvent)
		api.POST("/clock-event", push...)
		api.GET("/timesheet", h.Timesheet)
		api.GET("/summary", h.Summary)
	}
}
