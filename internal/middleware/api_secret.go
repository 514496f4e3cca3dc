package middleware

import (
	"net/http"

	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APISecret guards machine-to-machine endpoints with a static bearer
// secret. An empty secret disables the check entirely (accept everything);
// that is an intentional deployment mode for local testing and is logged
// loudly so it cannot go unnoticed in production.
func APISecret(secret string) gin.HandlerFunc {
	if secret == "" {
		zap.L().Warn("API_SECRET not set - machine endpoints are UNAUTHENTICATED")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	expected := "Bearer " + secret
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != expected {
			response.AbortError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}
