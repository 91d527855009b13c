package utils

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Send writes the envelope with the given status. A nil data omits the field.
func Send(c *gin.Context, status int, success bool, message string, data any) {
	c.JSON(status, Envelope{Success: success, Message: message, Data: data})
}
