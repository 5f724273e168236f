package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventradar/internal/container"
	"github.com/joshua-takyi/eventradar/internal/handlers"
	"github.com/joshua-takyi/eventradar/internal/middleware"
	"github.com/joshua-takyi/eventradar/internal/models"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.Recovery(c.Logger))
	r.Use(middleware.OptionalAuth(c.Verifier, c.UserService, c.Logger))

	r.GET("/health", handlers.Health())

	es := c.EventService
	events := r.Group("/events")
	{
		events.GET("", handlers.ListEvents(es, c.Logger))
		events.POST("", handlers.CreateEvent(es, c.Logger))
		events.GET("/:id", handlers.GetEvent(es, c.Logger))
		events.PUT("/:id", handlers.UpdateEvent(es, c.Logger))
		events.DELETE("/:id", handlers.DeleteEvent(es, c.Logger))
		events.POST("/:id/join", handlers.JoinEvent(es, c.Logger))
		events.DELETE("/:id/leave", handlers.LeaveEvent(es, c.Logger))
		events.GET("/:id/attendees", handlers.ListAttendees(es, c.Logger))
		if es.TracksViews() {
			events.GET("/:id/stats", handlers.EventStats(es, c.Logger))
		}
	}

	us := c.UserService
	if us.AuthEnabled() {
		cookies := handlers.CookieSettings{Secure: c.Config.IsProduction()}
		auth := r.Group("/auth")
		{
			auth.POST("/signup", handlers.Signup(us, c.Logger))
			auth.POST("/login", handlers.Login(us, cookies, c.Logger))
			auth.POST("/refresh", handlers.Refresh(us, cookies, c.Logger))
			auth.POST("/logout", handlers.Logout(us, cookies, c.Logger))
		}
	}

	profiles := r.Group("/profiles")
	{
		profiles.GET("/:id", handlers.GetProfile(us, c.Logger))
		profiles.PATCH("/:id", handlers.UpdateProfile(us, c.Logger))
	}

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, models.ErrorResponse("Route not found"))
	})

	return r
}
