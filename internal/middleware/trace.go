package middleware

import (
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceHeader carries the trace id across service boundaries.
const TraceHeader = "X-Trace-Id"

// TraceID propagates the trace id from the request header, generating
// one when absent, and echoes it back on the response.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(response.TraceIDKey, traceID)
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}
