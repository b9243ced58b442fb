package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/festa/internal/helpers"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/services"
)

func ListTimeline(s *services.TimelineService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.List(c.Request.Context())
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(items, len(items)))
	}
}

func CreateTimelineItem(s *services.TimelineService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.TimelineInput
		if err := c.ShouldBindJSON(&in); err != nil {
			helpers.BadRequest(c, "", "invalid timeline item: "+err.Error())
			return
		}

		item, err := s.Create(c.Request.Context(), helpers.GrantFrom(c), in)
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(item, "Timeline item created"))
	}
}

func UpdateTimelineItem(s *services.TimelineService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch map[string]any
		if err := c.ShouldBindJSON(&patch); err != nil {
			helpers.BadRequest(c, "", "invalid timeline update: "+err.Error())
			return
		}

		item, err := s.Update(c.Request.Context(), helpers.GrantFrom(c), c.Param("id"), patch)
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(item, "Timeline item updated"))
	}
}

func DeleteTimelineItem(s *services.TimelineService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Delete(c.Request.Context(), helpers.GrantFrom(c), c.Param("id")); err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Timeline item deleted"))
	}
}
