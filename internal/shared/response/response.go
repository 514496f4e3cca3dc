package response

import (
	"github.com/gin-gonic/gin"
)

// Bodies follow the tracker's wire format: machine endpoints answer
// {"status":"ok"} or {"error":"..."}; richer payloads are plain JSON.

func OK(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// AbortError is Error plus gin abort, for use inside middleware.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// Ephemeral answers a Slack slash command with a private text message.
func Ephemeral(c *gin.Context, text string) {
	c.JSON(200, gin.H{
		"response_type": "ephemeral",
		"text":          text,
	})
}
