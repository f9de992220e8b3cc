package routes

import (
	"errors"
	"fmt"
	"net/http"

	"insta-automation/internal/logger"
	"insta-automation/middleware"
	"insta-automation/models"
	"insta-automation/services"
	"insta-automation/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultPostingInterval = 4
	recentPostsLimit       = 20

	msgNotRunning = "Automation is not running. Please start automation first."
)

// SetupAutomationRoutes registers the dashboard control surface.
func SetupAutomationRoutes(router *gin.Engine, manager *services.AutomationManager, instagram *services.InstagramService) {
	automation := router.Group("/automation")

	automation.POST("/start", func(c *gin.Context) {
		var req models.StartAutomationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body")
			return
		}

		if req.Username == "" {
			utils.RespondWithBadRequest(c, "Instagram username is required")
			return
		}

		interval := defaultPostingInterval
		if req.PostingInterval != nil && *req.PostingInterval != 0 {
			interval = *req.PostingInterval
		}
		// The interval only drives the posting trigger.
		if req.AutoPost && (interval < 1 || interval > 24) {
			utils.RespondWithBadRequest(c, "Posting interval must be between 1 and 24 hours")
			return
		}

		err := manager.Start(c.Request.Context(), models.AutomationConfig{
			Username:        req.Username,
			AutoPost:        req.AutoPost,
			PostingInterval: interval,
		})
		if err != nil {
			logger.Error("Start automation error", "error", err, "request_id", middleware.GetRequestID(c))
			switch {
			case errors.Is(err, services.ErrAlreadyRunning):
				utils.RespondWithBadRequest(c, "Automation is already running")
			case services.KindOf(err) == services.KindValidation:
				utils.RespondWithBadRequest(c, fmt.Sprintf("Invalid automation settings: %v", errors.Unwrap(err)))
			default:
				utils.RespondWithInternalError(c, "Failed to start automation")
			}
			return
		}

		utils.RespondWithSuccess(c, gin.H{"message": "Automation started successfully"})
	})

	automation.POST("/stop", func(c *gin.Context) {
		if err := manager.Stop(); err != nil {
			if services.KindOf(err) == services.KindInvalidState {
				utils.RespondWithBadRequest(c, "Automation was not running")
				return
			}
			logger.Error("Stop automation error", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Internal server error")
			return
		}

		utils.RespondWithSuccess(c, gin.H{"message": "Automation stopped successfully"})
	})

	router.POST("/post/generate", func(c *gin.Context) {
		if !manager.IsActive() {
			utils.RespondWithBadRequest(c, msgNotRunning)
			return
		}

		post, err := manager.CreateAndPost(c.Request.Context())
		if err != nil {
			logger.Error("Generate post error", "error", err, "request_id", middleware.GetRequestID(c))
			if services.KindOf(err) == services.KindInvalidState {
				utils.RespondWithBadRequest(c, msgNotRunning)
				return
			}
			utils.RespondWithInternalError(c, "Failed to create or publish post")
			return
		}

		utils.RespondWithSuccess(c, gin.H{
			"message": "Post created and published successfully",
			"post":    post,
		})
	})

	router.GET("/status", func(c *gin.Context) {
		status := manager.GetStatus()

		state := "stopped"
		if status.IsRunning {
			state = "running"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":            state,
			"config":            status.Config,
			"recentPosts":       instagram.GetRecentPosts(recentPostsLimit),
			"recentMessages":    instagram.GetMessages(true),
			"instagram":         status.Instagram,
			"nextPost":          status.NextPost,
			"nextScheduledPost": status.NextScheduledPost,
		})
	})
}
