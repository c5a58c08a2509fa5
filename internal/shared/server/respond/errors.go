package respond

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

var redactDetails atomic.Bool

// RedactDetails hides the error detail string from clients when enabled.
func RedactDetails(enabled bool) {
	redactDetails.Store(enabled)
}

// Error logs and sends a failure envelope. code is only used for logs.
func Error(c *gin.Context, status int, code, message, detail string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if detail != "" {
		fields["detail"] = detail
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	body := Envelope{Success: false, Message: message}
	if !redactDetails.Load() {
		body.Error = detail
	}
	c.AbortWithStatusJSON(status, body)
}
