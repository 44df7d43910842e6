package stub

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// replayEntry is a cached mutation response, replayed when the same
// Idempotency-Key shows up again.
type replayEntry struct {
	status int
	body   []byte
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// replayIdempotent makes mutating requests safe to resubmit: the first
// response for a given Idempotency-Key is cached and handed back
// verbatim on a duplicate, instead of creating a second record.
func (s *Server) replayIdempotent() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		s.mu.Lock()
		cached, seen := s.replays[key]
		s.mu.Unlock()
		if seen {
			c.Data(cached.status, "application/json", cached.body)
			c.Abort()
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if writer.Status() < 500 {
			s.mu.Lock()
			s.replays[key] = replayEntry{status: writer.Status(), body: writer.buf.Bytes()}
			s.mu.Unlock()
		}
	}
}

// reportRateLimiter caps report submissions per user per day, counted
// in Redis with a rolling TTL on the first increment.
func (s *Server) reportRateLimiter(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			fail(c, http.StatusUnauthorized, "User not authenticated")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		key := "report-limit:" + userID

		count, err := s.redis.Incr(ctx, key).Result()
		if err != nil {
			fail(c, http.StatusInternalServerError, "Rate limiter unavailable")
			c.Abort()
			return
		}
		if count == 1 {
			if err := s.redis.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
				fail(c, http.StatusInternalServerError, "Rate limiter unavailable")
				c.Abort()
				return
			}
		}
		if count > int64(limit) {
			retryAfter, _ := s.redis.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":     "Daily report limit reached",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
