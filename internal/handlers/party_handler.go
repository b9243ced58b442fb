package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/festa/internal/helpers"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/services"
)

func GetParty(s *services.PartyService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := s.Current(c.Request.Context())
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		if info == nil {
			res := models.ErrorResponse("party info has not been published yet")
			res.RequestID = helpers.RequestID(c)
			c.JSON(http.StatusNotFound, res)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(info, ""))
	}
}

func SaveParty(s *services.PartyService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.PartyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			helpers.BadRequest(c, "", "invalid party info: "+err.Error())
			return
		}

		info, err := s.Save(c.Request.Context(), helpers.GrantFrom(c), in)
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(info, "Party info saved"))
	}
}
