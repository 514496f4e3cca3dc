package report

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/apperror"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
		logger:  zap.L().Named("report.handler"),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("report request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Message)
}

type sendRequest struct {
	Weeks int      `json:"weeks"`
	To    []string `json:"to"`
}

// Send builds the report for the last completed period and emails it.
// The response says whether delivery succeeded; nothing is retried.
func (h *Handler) Send(c *gin.Context) {
	var req sendRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	res, err := h.service.Send(c.Request.Context(), req.Weeks, req.To)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Preview renders the report without sending anything.
func (h *Handler) Preview(c *gin.Context) {
	weeks := 1
	if raw := c.Query("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(c, http.StatusBadRequest, "Invalid weeks parameter")
			return
		}
		weeks = n
	}

	rep, err := h.service.Build(c.Request.Context(), weeks)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":   rep.Start.Format("2006-01-02"),
		"end":     rep.End.Format("2006-01-02"),
		"subject": rep.Subject,
		"text":    rep.Text,
		"csv":     string(rep.CSV),
	})
}
