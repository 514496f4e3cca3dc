package dashboard

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/ishuesiah/time-tracker-sevalla/internal/middleware"
	"github.com/ishuesiah/time-tracker-sevalla/internal/rbac"
)

// RegisterRoutes mounts the dashboard under /dashboard. The page and the
// JSON endpoints require a session cookie; the auth endpoints do not.
func RegisterRoutes(r *gin.Engine, h *Handler, ah *AuthHandler, sessionSecret string, enforcer *casbin.Enforcer) {
	auth := r.Group("/dashboard")
	auth.GET("/login", ah.LoginPage)
	auth.GET("/auth/google", ah.Begin)
	auth.GET("/auth/callback", ah.Callback)
	auth.GET("/logout", ah.Logout)

	page := r.Group("/dashboard", middleware.SessionGuard(sessionSecret, true))
	page.GET("", h.Page)

	api := r.Group("/dashboard", middleware.SessionGuard(sessionSecret, false))
	api.GET("/data", rbac.Authorize(enforcer, "summary", "read"), h.Data)
	api.GET("/today", rbac.Authorize(enforcer, "activity", "read"), h.Today)
	api.GET("/day", rbac.Authorize(enforcer, "entries", "read"), h.Day)
	api.GET("/entry", rbac.Authorize(enforcer, "entries", "read"), h.Entry)
	api.POST("/adjust", rbac.Authorize(enforcer, "entries", "adjust"), h.Adjust)
	api.GET("/download", rbac.Authorize(enforcer, "export", "read"), h.Download)
	api.GET("/audit", rbac.Authorize(enforcer, "audit", "read"), h.AuditLog)
	api.DELETE("/audit/:id", rbac.Authorize(enforcer, "audit", "delete"), h.DeleteAuditEntry)
}
