package ledger

import (
	"net/http"
	"time"

	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/apperror"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	loc     *time.Location
	logger  *zap.Logger
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  zap.L().Named("ledger.handler"),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("ledger request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Message)
}

// PushEvent receives clock events pushed by the laptop's WiFi tracker.
func (h *Handler) PushEvent(c *gin.Context) {
	var req PushEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	if err := h.service.Push(c.Request.Context(), req); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.OK(c)
}

// Timesheet returns raw events for a date range.
func (h *Handler) Timesheet(c *gin.Context) {
	start, end, ok := h.bindDateRange(c)
	if !ok {
		return
	}

	events, err := h.service.Timesheet(c.Request.Context(), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if events == nil {
		events = []EventResponse{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Summary returns the per-employee aggregate for a date range.
func (h *Handler) Summary(c *gin.Context) {
	start, end, ok := h.bindDateRange(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if summary == nil {
		summary = []SummaryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// bindDateRange parses start/end query params (YYYY-MM-DD) into a half-open
// range covering both days in the display zone.
func (h *Handler) bindDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" || endStr == "" {
		response.Error(c, http.StatusBadRequest, "Missing start or end date")
		return time.Time{}, time.Time{}, false
	}

	start, err1 := time.ParseInLocation("2006-01-02", startStr, h.loc)
	end, err2 := time.ParseInLocation("2006-01-02", endStr, h.loc)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "Invalid date format")
		return time.Time{}, time.Time{}, false
	}
	return start, end.AddDate(0, 0, 1), true
}
