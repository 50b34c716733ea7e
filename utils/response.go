package utils

import "github.com/gin-gonic/gin"

// JSONError writes the structured error envelope used by every handler.
func JSONError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// JSONFieldErrors writes a validation error with per-field messages.
func JSONFieldErrors(c *gin.Context, status int, message string, fields map[string]string) {
	body := gin.H{"code": "error.validation", "message": message}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(status, gin.H{"error": body})
}

func JSONMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
