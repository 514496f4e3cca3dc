package slackcmd

import (
	"strings"
	"time"

	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
		logger:  zap.L().Named("slackcmd.handler"),
	}
}

// Chat responses stay ephemeral even on failure; Slack users should see a
// short message, not an error body.
func (h *Handler) writeServiceError(c *gin.Context, command string, err error) {
	h.logger.Error("slash command failed", zap.String("command", command), zap.Error(err))
	response.Ephemeral(c, "Something went wrong, please try again.")
}

func (h *Handler) ClockIn(c *gin.Context) {
	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		response.Error(c, 400, "Invalid slash command payload")
		return
	}

	text, err := h.service.ClockIn(c.Request.Context(), cmd.UserID, cmd.UserName, strings.TrimSpace(cmd.Text), time.Now())
	if err != nil {
		h.writeServiceError(c, "/clockin", err)
		return
	}
	response.Ephemeral(c, text)
}

func (h *Handler) ClockOut(c *gin.Context) {
	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		response.Error(c, 400, "Invalid slash command payload")
		return
	}

	text, err := h.service.ClockOut(c.Request.Context(), cmd.UserID, time.Now())
	if err != nil {
		h.writeServiceError(c, "/clockout", err)
		return
	}
	response.Ephemeral(c, text)
}

func (h *Handler) Hours(c *gin.Context) {
	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		response.Error(c, 400, "Invalid slash command payload")
		return
	}

	text, err := h.service.Hours(c.Request.Context(), cmd.UserID, time.Now())
	if err != nil {
		h.writeServiceError(c, "/hours", err)
		return
	}
	response.Ephemeral(c, text)
}
