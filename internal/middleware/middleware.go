package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/helpers"
)

// AdminCookie carries the capability token for browser clients.
const AdminCookie = "admin_token"

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(helpers.RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		attrs := []any{
			"request_id", helpers.RequestID(c),
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if grant := helpers.GrantFrom(c); grant.IsAdmin() {
			attrs = append(attrs, "admin", grant.Subject())
		}
		logger.Info("HTTP Request", attrs...)
	}
}

// ErrorHandler turns errors attached with c.Error into a 500 response when
// the handler has not written anything itself.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID := helpers.RequestID(c)

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}
		// Don't return error details in production
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": requestID,
		})
	}
}

// AdminOnly verifies the capability token from the Authorization header or
// the admin cookie and stores the resulting grant on the request.
func AdminOnly(issuer *auth.Issuer, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		grant, err := issuer.Verify(CapabilityToken(c))
		if err != nil {
			logger.Debug("Admin request rejected",
				"request_id", helpers.RequestID(c),
				"path", c.Request.URL.Path,
				"error", err,
			)
			helpers.WriteError(c, logger, err)
			return
		}

		c.Set(helpers.GrantKey, grant)
		c.Next()
	}
}

// CapabilityToken extracts the admin token, preferring the bearer header.
func CapabilityToken(c *gin.Context) string {
	if token := BearerToken(c); token != "" {
		return token
	}
	token, err := c.Cookie(AdminCookie)
	if err != nil {
		return ""
	}
	return token
}

func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
