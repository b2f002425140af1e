package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sharecal-dev/sharecal/internal/handlers"
	"github.com/sharecal-dev/sharecal/internal/middleware"
	"github.com/sharecal-dev/sharecal/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/new", handlers.CreateUser)
			auth.POST("", handlers.LoginUser)
			auth.GET("/renew", middleware.AuthMiddleware(), handlers.RenewToken)
			auth.PUT("/password", middleware.AuthMiddleware(), handlers.ChangePassword)
		}

		calendars := api.Group("/calendars", middleware.AuthMiddleware())
		{
			calendars.GET("", handlers.ListCalendars)
			calendars.POST("", handlers.CreateCalendar)
			calendars.PUT("/:id", handlers.UpdateCalendar)
			calendars.DELETE("/:id", handlers.DeleteCalendar)

			calendars.GET("/:id/participants", handlers.GetParticipants)

			// Share credentials and join workflow
			calendars.POST("/:id/share", handlers.IssueShare)
			calendars.GET("/:id/share", handlers.GetShareInfo)
			calendars.POST("/:id/share/invite", handlers.SendShareInvite)
			calendars.POST("/join/:id", handlers.JoinCalendar)

			// Editor grants
			calendars.POST("/:id/permissions", handlers.GrantEditor)
			calendars.DELETE("/:id/permissions", handlers.RevokeEditor)
			calendars.PUT("/:id/permissions/bulk", handlers.BulkUpdatePermissions)
		}

		events := api.Group("/events", middleware.AuthMiddleware())
		{
			events.GET("", handlers.ListEvents)
			events.POST("", handlers.CreateEvent)
			events.PUT("/:id", handlers.UpdateEvent)
			events.DELETE("/:id", handlers.DeleteEvent)
		}
	}

	return r
}
