package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/festa/internal/helpers"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/services"
)

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

func ChatGreeting(s *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"greeting": s.Greeting()}, ""))
	}
}

// Ask answers one question. A fallback reply is still a 200; the client shows
// it like any other reply.
func Ask(s *services.ChatService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.BadRequest(c, "question", "question is required")
			return
		}

		answer, err := s.Ask(c.Request.Context(), req.Question)
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		// client went away; nobody is left to read the reply
		if c.Request.Context().Err() != nil {
			c.Abort()
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(answer, ""))
	}
}
