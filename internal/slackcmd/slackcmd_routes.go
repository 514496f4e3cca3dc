package slackcmd

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, verify gin.HandlerFunc) {
	cmds := r.Group("/slack")
	cmds.Use(verify)
	{
		cmds.POST("/clockin", h.ClockIn)
		cmds.POST("/clockout", h.ClockOut)
		cmds.POST("/hours", h.Hours)
	}
}
