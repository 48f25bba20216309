package session

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderKey carries the client session id.
	HeaderKey  = "X-Session-ID"
	contextKey = "session_id"
	maxIDLen   = 128
)

// Middleware resolves the session id from the request header, generating one
// when absent or malformed, and echoes it on the response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderKey))
		if id == "" || len(id) > maxIDLen || strings.ContainsAny(id, " \t/:") {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Writer.Header().Set(HeaderKey, id)
		c.Next()
	}
}

// Value returns the session id stored on the context.
func Value(c *gin.Context) string {
	if v, exists := c.Get(contextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
