package middleware

import (
	"net/http"

	"insta-automation/internal/logger"
	"insta-automation/utils"

	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware turns a handler panic into the generic 500 envelope
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered", "panic", recovered, "path", c.Request.URL.Path,
			"request_id", GetRequestID(c))
		utils.AbortWithError(c, http.StatusInternalServerError, "Internal server error")
	})
}
