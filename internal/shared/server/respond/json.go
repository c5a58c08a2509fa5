package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body shape shared by every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Success writes a successful envelope carrying data.
func Success(c *gin.Context, status int, message string, data any) {
	JSON(c, status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a successful envelope for a collection, including its size.
func List[T any](c *gin.Context, message string, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	JSON(c, http.StatusOK, Envelope{Success: true, Message: message, Data: items, Count: &n})
}
