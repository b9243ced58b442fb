package helpers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/models"
)

const (
	GrantKey     = "grant"
	RequestIDKey = "request_id"
)

var (
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasNumber  = regexp.MustCompile(`\d`)
	hasSpecial = regexp.MustCompile(`[@$!%*?&]`)
)

// IsPasswordStrong reports whether a shared secret is at least eight
// characters and mixes case, digits and a symbol.
func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	return hasLower.MatchString(password) &&
		hasUpper.MatchString(password) &&
		hasNumber.MatchString(password) &&
		hasSpecial.MatchString(password)
}

// GrantFrom returns the capability the AdminOnly middleware verified for this
// request, or the zero Grant.
func GrantFrom(c *gin.Context) auth.Grant {
	v, ok := c.Get(GrantKey)
	if !ok {
		return auth.Grant{}
	}
	grant, _ := v.(auth.Grant)
	return grant
}

func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// StatusFor maps a domain error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case models.IsNotFound(err):
		return http.StatusNotFound
	case models.IsAuthorization(err):
		return http.StatusUnauthorized
	case models.IsExternalService(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err in the ApiResponse envelope. Internal errors are
// logged and replaced by a generic message.
func WriteError(c *gin.Context, logger *slog.Logger, err error) {
	status := StatusFor(err)
	res := models.ErrorResponse(err.Error())
	res.RequestID = RequestID(c)

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		res.Field = verr.Field
	}

	switch status {
	case http.StatusInternalServerError:
		logger.Error("Request failed", "request_id", res.RequestID, "error", err)
		res.Error = "Internal server error"
	case http.StatusBadGateway:
		logger.Warn("External service failed", "request_id", res.RequestID, "error", err)
		res.Error = "A required service is unavailable, please try again later"
	}

	c.AbortWithStatusJSON(status, res)
}

func BadRequest(c *gin.Context, field, message string) {
	res := models.ErrorResponse(message)
	res.Field = field
	res.RequestID = RequestID(c)
	c.AbortWithStatusJSON(http.StatusBadRequest, res)
}
