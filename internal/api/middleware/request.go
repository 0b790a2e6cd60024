package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joincivil/civil-newsroom-plugin/pkg/metrics"
	"go.uber.org/zap"
)

type RequestMiddleware struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewRequestMiddleware(logger *zap.Logger, m *metrics.Metrics) *RequestMiddleware {
	return &RequestMiddleware{
		logger:  logger,
		metrics: m,
	}
}

func (rm *RequestMiddleware) ProcessRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		if rm.metrics != nil {
			rm.metrics.HTTPRequestsTotal.
				WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
				Inc()
			rm.metrics.HTTPRequestDuration.
				WithLabelValues(c.Request.Method, path).
				Observe(duration.Seconds())
		}

		rm.logger.Info("Request completed",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()))
	}
}

func (rm *RequestMiddleware) RecoverPanic() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := c.GetString("request_id")
				rm.logger.Error("Panic recovered",
					zap.String("request_id", requestID),
					zap.Any("error", err),
					zap.Stack("stack"))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal-error",
					"message": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
