package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/festa/internal/helpers"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/services"
)

func SubmitRSVP(s *services.RSVPService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.RSVPInput
		if err := c.ShouldBindJSON(&in); err != nil {
			helpers.BadRequest(c, "", "invalid RSVP: "+err.Error())
			return
		}

		guest, err := s.Submit(c.Request.Context(), in)
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(guest, "RSVP received"))
	}
}

func ListRSVPs(s *services.RSVPService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := s.Report(c.Request.Context(), helpers.GrantFrom(c))
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(report, ""))
	}
}

func DeleteRSVP(s *services.RSVPService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Delete(c.Request.Context(), helpers.GrantFrom(c), c.Param("id")); err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "RSVP deleted"))
	}
}
