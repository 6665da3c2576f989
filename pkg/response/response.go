package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The dashboard and engineer clients expect a handful of fixed JSON shapes
// rather than a uniform envelope, so the helpers here mirror those shapes.

// OK sends a 200 response with the given payload as-is.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Success sends `{"success": true}`.
func Success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// FailMessage sends `{"success": false, "message": ...}` with the given status.
// Used by login and logout style endpoints.
func FailMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// FailError sends `{"success": false, "error": ...}` with the given status.
// Used by the engineer registration endpoint.
func FailError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// Forbidden sends a 403 with a bare `{"message": ...}` body, the shape the
// chat edit/delete endpoints return when the mutation window has expired.
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{"message": message})
}

// NotFound sends a 404 with a bare `{"message": ...}` body.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message})
}

// BadRequest sends a 400 with a bare `{"message": ...}` body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

// InternalError sends a 500 with a generic message. Details stay server-side.
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
