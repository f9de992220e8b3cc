package routes

import (
	"insta-automation/internal/logger"
	"insta-automation/internal/render"
	"insta-automation/models"
	"insta-automation/services"
	"insta-automation/utils"

	"github.com/gin-gonic/gin"
)

// SetupPreviewRoutes renders placeholder artwork for the dashboard.
func SetupPreviewRoutes(router *gin.Engine, content *services.ContentGenerator) {
	router.GET("/preview", func(c *gin.Context) {
		category := models.Category(c.DefaultQuery("type", string(models.CategoryUIDesign)))
		if !category.Valid() {
			utils.RespondWithBadRequest(c, "type must be ui-design or logo")
			return
		}

		description := c.Query("description")
		if description == "" {
			description = content.TrendFor(category)
		}

		image, template, err := render.RenderDataURL(render.Options{Type: category, Description: description}, nil)
		if err != nil {
			logger.Error("Preview render error", "error", err, "type", category)
			utils.RespondWithInternalError(c, "Failed to render preview")
			return
		}

		utils.RespondWithSuccess(c, gin.H{
			"type":        category,
			"description": description,
			"template":    template,
			"image":       image,
		})
	})
}
