package errors

import (
	"net/http"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error carries the HTTP status a failure should surface as. Handlers pass
// these straight to response.JSON; anything else collapses to a 500.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrUnauthorized         = New("Unauthorized", http.StatusUnauthorized)
	ErrNotParticipant       = New("not a participant of this conversation", http.StatusForbidden)
	ErrSelfConversation     = New("cannot message your own listing", http.StatusBadRequest)
	ErrConversationNotFound = New("conversation not found", http.StatusNotFound)
	ErrListingNotFound      = New("listing not found", http.StatusNotFound)
	ErrEmptyMessageBody     = New("message content required", http.StatusBadRequest)
	ErrInternalServerError  = New("internal server error", http.StatusInternalServerError)
)

// ErrorHandler is plugged into the gin-rate-limit middleware.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": "too many requests, try again later",
		"status":  http.StatusTooManyRequests,
	})
	c.Abort()
}
