package accesslog

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/statichq/webstand/internal/server/middlewares"
)

// Middleware records every completed request into the access log.
func (l *Logger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		details, _ := json.Marshal(Details{
			Query:     c.Request.URL.RawQuery,
			Referer:   c.Request.Referer(),
			RequestID: middlewares.GetRequestID(c),
		})

		l.Record(&Entry{
			TS:        start.UnixMilli(),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			LatencyMs: time.Since(start).Milliseconds(),
			Details:   string(details),
		})
	}
}
