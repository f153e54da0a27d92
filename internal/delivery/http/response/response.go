package response

import (
	"go-jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Response documents the envelope. Payload keys (user, job, jobs, ...) are
// spread next to these fields rather than nested.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Payload holds the top-level keys added to a success envelope.
type Payload map[string]interface{}

func envelope(c *gin.Context, success bool, message string) gin.H {
	body := gin.H{
		"success": success,
		"message": message,
	}
	if reqID := c.GetString(string(domain.KeyRequestID)); reqID != "" {
		body["request_id"] = reqID
	}
	return body
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, payload Payload) {
	body := envelope(c, true, message)
	for k, v := range payload {
		if _, reserved := body[k]; !reserved {
			body[k] = v
		}
	}
	c.JSON(code, body)
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, err interface{}) {
	body := envelope(c, false, message)
	if err != nil {
		body["error"] = err
	}
	c.JSON(code, body)
}
