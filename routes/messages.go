package routes

import (
	"insta-automation/internal/logger"
	"insta-automation/middleware"
	"insta-automation/models"
	"insta-automation/services"
	"insta-automation/utils"

	"github.com/gin-gonic/gin"
)

// SetupMessageRoutes exposes inbound message simulation and a manual reply cycle.
func SetupMessageRoutes(router *gin.Engine, manager *services.AutomationManager, instagram *services.InstagramService) {
	messages := router.Group("/messages")

	messages.POST("/simulate", func(c *gin.Context) {
		var req models.SimulateMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Both from and message are required")
			return
		}

		msg := instagram.SimulateIncomingMessage(req.From, req.Message)
		utils.RespondWithSuccess(c, gin.H{"message": msg})
	})

	messages.POST("/check", func(c *gin.Context) {
		if !manager.IsActive() {
			utils.RespondWithBadRequest(c, msgNotRunning)
			return
		}

		report, err := manager.CheckAndReplyToMessages(c.Request.Context())
		if err != nil {
			logger.Error("Message check error", "error", err, "replied", report.Replied,
				"request_id", middleware.GetRequestID(c))
			if services.KindOf(err) == services.KindInvalidState {
				utils.RespondWithBadRequest(c, msgNotRunning)
				return
			}
			utils.RespondWithInternalError(c, "Failed to check messages")
			return
		}

		utils.RespondWithSuccess(c, gin.H{
			"pending": report.Pending,
			"replied": report.Replied,
			"failed":  report.Failed,
		})
	})
}
