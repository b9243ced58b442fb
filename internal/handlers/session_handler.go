package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/helpers"
	"github.com/joshua-takyi/festa/internal/middleware"
	"github.com/joshua-takyi/festa/internal/models"
)

type sessionRequest struct {
	Secret   string `json:"secret"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OpenSession trades credentials for a capability token. The token is
// returned in the body and set as an http-only cookie.
func OpenSession(gate *auth.Gate, secureCookies bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				helpers.BadRequest(c, "", "invalid session request: "+err.Error())
				return
			}
		}

		session, err := gate.Open(c.Request.Context(), auth.Credentials{
			IdentityToken: middleware.BearerToken(c),
			Email:         req.Email,
			Password:      req.Password,
			Secret:        req.Secret,
		})
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}

		maxAge := int(time.Until(session.ExpiresAt).Seconds())
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(middleware.AdminCookie, session.Token, maxAge, "/", "", secureCookies, true)
		c.JSON(http.StatusOK, models.SuccessResponse(session, "Admin session opened"))
	}
}

// CloseSession clears the cookie. Tokens are not revocable; they expire.
func CloseSession(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(middleware.AdminCookie, "", -1, "/", "", secureCookies, true)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}
