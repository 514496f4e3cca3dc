package dashboard

import (
	"fmt"
	"net/http"
	"strconv"
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
		logger:  zap.L().Named("dashboard.handler"),
	}
}

func sessionFrom(c *gin.Context) Session {
	return Session{
		Email:   c.GetString("session_email"),
		Name:    c.GetString("session_name"),
		IsAdmin: c.GetBool("session_is_admin"),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("dashboard request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Message)
}

// Page serves the dashboard HTML shell.
func (h *Handler) Page(c *gin.Context) {
	sess := sessionFrom(c)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, renderPage(sess))
}

// Data answers the dashboard's main summary fetch. Defaults to the past
// two weeks when no range is supplied or the dates are malformed.
func (h *Handler) Data(c *gin.Context) {
	sess := sessionFrom(c)
	start, end := h.rangeOrDefault(c.Query("start"), c.Query("end"))

	data, err := h.service.Data(c.Request.Context(), sess, c.Query("employee"), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// Today renders the live activity view including open sessions.
func (h *Handler) Today(c *gin.Context) {
	rows, err := h.service.Today(c.Request.Context(), sessionFrom(c), time.Now())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if rows == nil {
		rows = []ActivityRow{}
	}
	c.JSON(http.StatusOK, gin.H{"activity": rows})
}

func (h *Handler) Day(c *gin.Context) {
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.loc)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid date format")
		return
	}
	events, err := h.service.Day(c.Request.Context(), sessionFrom(c), date)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if events == nil {
		events = []DayEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *Handler) Entry(c *gin.Context) {
	employee := c.Query("employee")
	if employee == "" {
		response.Error(c, http.StatusBadRequest, "Missing employee")
		return
	}
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.loc)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid date format")
		return
	}
	entry, err := h.service.Entry(c.Request.Context(), sessionFrom(c), employee, date)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}
	res, err := h.service.Adjust(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Download(c *gin.Context) {
	sess := sessionFrom(c)
	start, end := h.rangeOrDefault(c.Query("start"), c.Query("end"))
	employee := c.Query("employee")

	base := fmt.Sprintf("timesheet_%s_to_%s",
		start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"))

	if c.Query("format") == "xlsx" {
		content, err := h.service.ExportXLSX(c.Request.Context(), sess, employee, start, end)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+base+".xlsx")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
		return
	}

	content, err := h.service.ExportCSV(c.Request.Context(), sess, employee, start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+base+".csv")
	c.Data(http.StatusOK, "text/csv", content)
}

func (h *Handler) AuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.service.AuditLog(c.Request.Context(), limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) DeleteAuditEntry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid audit entry id")
		return
	}
	if err := h.service.DeleteAuditEntry(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.OK(c)
}

// rangeOrDefault parses start/end (YYYY-MM-DD) into a half-open local
// range, falling back to the past two weeks on missing or bad input.
func (h *Handler) rangeOrDefault(startStr, endStr string) (time.Time, time.Time) {
	if startStr != "" && endStr != "" {
		start, err1 := time.ParseInLocation("2006-01-02", startStr, h.loc)
		end, err2 := time.ParseInLocation("2006-01-02", endStr, h.loc)
		if err1 == nil && err2 == nil {
			return start, end.AddDate(0, 0, 1)
		}
	}
	now := time.Now().In(h.loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc).AddDate(0, 0, 1)
	return end.AddDate(0, 0, -15), end
}
