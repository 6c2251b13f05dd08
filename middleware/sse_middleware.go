package middleware

import (
	"github.com/gin-gonic/gin"
)

// SetSSEHeaders prepares the response for a text/event-stream body. Call it
// only once the handler knows it will stream.
func SetSSEHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
}
