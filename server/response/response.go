package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes the uniform response envelope. err, when present, is surfaced
// as its message only; store internals never reach the client.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	body := gin.H{
		"message": message,
		"data":    data,
		"status":  http.StatusText(status),
	}
	if err != nil {
		body["errors"] = err.Error()
	}
	c.JSON(status, body)
}
