package httpx

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gunvolt24/orders_ingest/pkg/ctxmeta"
)

// RequestLogger пишет одну JSON-запись на запрос:
// method, path, status, latency_ms, ts (+ request_id/trace_id, если есть).
// /metrics не логируется.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.FullPath() == "/metrics" {
			return
		}

		fields := append([]zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		}, ctxmeta.Fields(c.Request.Context())...)

		log.Info("request", fields...)
	}
}
