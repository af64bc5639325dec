package middleware

import (
	"fmt"
	"time"

	"github.com/JonnyWalker81/habitual/internal/apierror"
	"github.com/JonnyWalker81/habitual/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the correlation id in and out.
const RequestIDHeader = "X-Request-ID"

// RequestID reuses the inbound X-Request-ID or generates one, echoes it on
// the response and attaches a request-scoped logger to the context.
func RequestID(base logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.WithRequestID(c.Request.Context(), c.GetHeader(RequestIDHeader))
		requestID := logger.RequestIDFromContext(ctx)

		ctx = logger.WithLogger(ctx, base.With(logger.String("request_id", requestID)))
		c.Request = c.Request.WithContext(ctx)
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// Logger writes one structured entry per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", status),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		log := logger.FromContext(c.Request.Context())
		switch {
		case status >= 500:
			log.Error("request completed", fields...)
		case status >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 problem response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error("handler panicked",
			logger.String("panic", fmt.Sprint(recovered)),
			logger.String("path", c.Request.URL.Path),
		)
		apierror.AbortWithProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
	})
}
