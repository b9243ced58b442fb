package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/festa/internal/container"
	"github.com/joshua-takyi/festa/internal/handlers"
	"github.com/joshua-takyi/festa/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	origins := container.Origins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := gin.New()
	r.MaxMultipartMemory = handlers.MaxPhotoBytes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	log := container.Logger

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "festa-api",
			})
		})

		v1.POST("/rsvps", handlers.SubmitRSVP(container.RSVPService, log))

		v1.GET("/photos", handlers.ListGallery(container.PhotoService, log))
		v1.POST("/photos", handlers.SubmitPhoto(container.PhotoService, log))

		v1.GET("/timeline", handlers.ListTimeline(container.TimelineService, log))
		v1.GET("/party", handlers.GetParty(container.PartyService, log))

		v1.GET("/chat/greeting", handlers.ChatGreeting(container.ChatService))
		v1.POST("/chat", handlers.Ask(container.ChatService, log))

		v1.POST("/admin/session", handlers.OpenSession(container.Gate, container.SecureCookies, log))
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.AdminOnly(container.Issuer, log))
	{
		admin.DELETE("/session", handlers.CloseSession(container.SecureCookies))

		admin.GET("/rsvps", handlers.ListRSVPs(container.RSVPService, log))
		admin.DELETE("/rsvps/:id", handlers.DeleteRSVP(container.RSVPService, log))

		admin.GET("/photos/pending", handlers.ListPendingPhotos(container.PhotoService, log))
		admin.GET("/photos/approved", handlers.ListApprovedPhotos(container.PhotoService, log))
		admin.POST("/photos/:id/approve", handlers.ApprovePhoto(container.PhotoService, log))
		admin.DELETE("/photos/:id", handlers.DeletePhoto(container.PhotoService, log))

		admin.PUT("/party", handlers.SaveParty(container.PartyService, log))

		admin.POST("/timeline", handlers.CreateTimelineItem(container.TimelineService, log))
		admin.PATCH("/timeline/:id", handlers.UpdateTimelineItem(container.TimelineService, log))
		admin.DELETE("/timeline/:id", handlers.DeleteTimelineItem(container.TimelineService, log))
	}

	return r
}
