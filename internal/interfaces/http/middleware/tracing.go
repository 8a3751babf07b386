package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/shopscout/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDLength bounds the request id copied onto spans
const maxRequestIDLength = 128

// Tracing wraps otelgin and tags the server span with the request id.
// Returns a pass-through handler when disabled.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return otelgin.Middleware(serviceName)
}

// SpanRequestID copies the request id onto the active span. It must run after
// both the tracing and the logging middleware.
func SpanRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := logger.GetGinRequestID(c); id != "" && len(id) <= maxRequestIDLength {
				span.SetAttributes(attribute.String("http.request_id", id))
			}
		}
		c.Next()
	}
}
