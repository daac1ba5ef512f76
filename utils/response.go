package utils

import "github.com/gin-gonic/gin"

// RespondWithError aborts the request with {"error": message}.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithErrorDetails aborts with {"error": message} plus extra fields.
func RespondWithErrorDetails(c *gin.Context, status int, message string, details gin.H) {
	body := gin.H{"error": message}
	for k, v := range details {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}
