package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
    c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
    c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONValidation renders a validation result unwrapped so the booking
// form reads conflicts/warnings/errors at the top level.
func JSONValidation(c *gin.Context, code int, v interface{}) {
    c.JSON(code, v)
}
