package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	db *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

// Check pings the database and reports a degraded string instead of
// failing the request when it is unreachable.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	dbStatus := "connected"
	if h.db == nil {
		dbStatus = "error: not configured"
	} else if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "error: " + err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"service":  "time-tracker-api",
	})
}

// Index lists the public endpoints.
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Time Tracker API",
		"endpoints": gin.H{
			"/slack/clockin":      "POST - Slack clock in command",
			"/slack/clockout":     "POST - Slack clock out command",
			"/slack/hours":        "POST - Slack hours command",
			"/api/clock-event":    "POST - Push clock event from laptop",
			"/api/timesheet":      "GET - Get timesheet data",
			"/api/summary":        "GET - Get hours summary",
			"/api/report/send":    "POST - Send timesheet report email",
			"/api/report/preview": "GET - Preview timesheet report",
			"/dashboard":          "GET - HTML dashboard",
			"/health":             "GET - Health check",
		},
	})
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/health", h.Check)
}
