package utils

import (
	"github.com/gin-gonic/gin"
)

// Keys of the error envelope.
const (
	ErrNotFound      = "Not Found"
	ErrForbidden     = "Forbidden"
	ErrBadRequest    = "Bad Request"
	ErrConflict      = "Conflict"
	ErrInternalError = "Internal Server Error"
)

// RespondSuccess writes {"response": {"success": message}}.
func RespondSuccess(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"response": gin.H{"success": message},
	})
}

// RespondError writes {"error": {kind: message}}.
func RespondError(c *gin.Context, code int, kind, message string) {
	c.JSON(code, gin.H{
		"error": gin.H{kind: message},
	})
}

// AbortWithError is RespondError for middlewares.
func AbortWithError(c *gin.Context, code int, kind, message string) {
	RespondError(c, code, kind, message)
	c.Abort()
}
