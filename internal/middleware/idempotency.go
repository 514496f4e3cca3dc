package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// idempotencyStore is the slice of the redis client the middleware needs;
// *redis.Client satisfies it.
type idempotencyStore interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Idempotency suppresses duplicate machine pushes. The WiFi tracker
// retries on flaky uplinks; when it supplies an Idempotency-Key we remember
// it in Redis for a day and answer replays with the original success body
// instead of inserting a second ledger row. Without Redis or without the
// header, requests pass straight through.
//
// The key is recorded only after the handler answered successfully. A push
// that failed must stay retryable: claiming the key up front would answer
// the retry with a fake success while the ledger never got the row.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return idempotencyWith(rdb)
}

func idempotencyWith(store idempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s", c.FullPath(), key)
		seen, err := store.Exists(c.Request.Context(), cacheKey).Result()
		if err != nil {
			// Redis being down must not block the ledger path.
			zap.L().Warn("idempotency check skipped", zap.Error(err))
			c.Next()
			return
		}
		if seen > 0 {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			// Background context: the client may already be gone.
			if err := store.Set(context.Background(), cacheKey, "1", 24*time.Hour).Err(); err != nil {
				zap.L().Warn("idempotency key not recorded", zap.Error(err))
			}
		}
	}
}
