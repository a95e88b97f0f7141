package routes

import (
	"net/http"
	"time"

	"hireloop/handlers"
	"hireloop/middleware"
	"hireloop/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterScheduleRoutes registers the scheduling engine endpoints. Everything
// here mutates or inspects bookings, so the whole group requires an actor.
func RegisterScheduleRoutes(r *gin.Engine, h *handlers.SchedulingHandler, ph *handlers.ParticipantHandler) {
	api := r.Group("/api")
	{
		api.Use(middleware.ActorMiddleware())
		api.POST("/schedule", h.Schedule)
		api.POST("/schedule/suggest", h.Suggest)
		api.GET("/participants/:id/availability", h.GetAvailability)
		api.PUT("/participants/:id", ph.UpsertParticipant)
		api.PUT("/participants/:id/windows", ph.ReplaceWindows)
		api.GET("/candidates/:id/alerts", ph.ListAlerts)
		api.GET("/bookings/:id", h.GetBooking)
		api.PATCH("/bookings/:id", h.UpdateBooking)
		api.DELETE("/bookings/:id", h.CancelBooking)
	}
}

// RegisterHealthRoute registers a liveness endpoint with the latest
// dependency snapshot.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.SchedulingHandler, ph *handlers.ParticipantHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterScheduleRoutes(r, h, ph)
}
