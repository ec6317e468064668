package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"leadconversion/internal/pkg/consts"
	"leadconversion/internal/pkg/logger"
)

// AttachRequestID reuses an inbound X-Request-ID or generates one, stores it
// on the request context for logging and echoes it on the response.
func AttachRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(consts.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(consts.HeaderRequestID, requestID)

		start := time.Now()
		c.Next()

		logger.CtxInfo(ctx, "Request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
