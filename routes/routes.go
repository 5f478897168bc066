// File: routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tutorhive/handlers"
	"tutorhive/middleware"
	"tutorhive/models"
	"tutorhive/realtime"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	User         *handlers.UserHandler
	Booking      *handlers.BookingHandler
	Schedule     *handlers.ScheduleHandler
	LeaveNotice  *handlers.LeaveNoticeHandler
	Wallet       *handlers.WalletHandler
	Notification *handlers.NotificationHandler
	Calendar     *handlers.CalendarHandler
	Gateway      *realtime.Gateway
}

// RegisterRoutes wires the full HTTP surface.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	registerHealthRoute(r)

	users := r.Group("/api/users")
	{
		users.POST("/register", h.User.RegisterHandler)
		users.POST("/login", h.User.LoginHandler)

		users.Use(middleware.JWTAuth())
		users.PUT("/fcm-token", h.User.UpdateFCMTokenHandler)
	}

	lessons := r.Group("/api/flexible-lessons")
	{
		lessons.POST("", middleware.JWTAuth(models.RoleStudent), h.Booking.CreateBookingHandler)
		lessons.GET("", middleware.JWTAuth(models.RoleStudent, models.RoleTutor, models.RoleStaff), h.Booking.ListLessonsHandler)
	}

	schedules := r.Group("/api/schedules")
	schedules.Use(middleware.JWTAuth())
	{
		schedules.GET("", h.Schedule.GetScheduleHandler)
		schedules.GET("/detail-schedule", h.Schedule.DetailScheduleHandler)
		schedules.GET("/tutor-available-schedule", h.Schedule.AvailabilityHandler)
		schedules.POST("/tutor-available-schedule", middleware.JWTAuth(models.RoleTutor), h.Schedule.DeclareAvailabilityHandler)
		schedules.DELETE("/tutor-available-schedule", middleware.JWTAuth(models.RoleTutor), h.Schedule.RemoveAvailabilityHandler)
	}

	notices := r.Group("/api/leave-notices")
	notices.Use(middleware.JWTAuth(models.RoleStudent, models.RoleTutor))
	{
		notices.POST("", h.LeaveNotice.CreateLeaveNoticeHandler)
		notices.GET("", h.LeaveNotice.ListLeaveNoticesHandler)
	}

	wallet := r.Group("/api/wallet")
	wallet.Use(middleware.JWTAuth(models.RoleStudent))
	{
		wallet.GET("", h.Wallet.GetWalletHandler)
		wallet.POST("/top-up", h.Wallet.CreateTopUpHandler)
		wallet.POST("/top-up/confirm", h.Wallet.ConfirmTopUpHandler)
	}

	notifications := r.Group("/api/notifications")
	notifications.Use(middleware.JWTAuth())
	{
		notifications.GET("", h.Notification.ListNotificationsHandler)
		notifications.PATCH("/:id/seen", h.Notification.MarkSeenHandler)
	}

	calendar := r.Group("/api/calendar")
	{
		calendar.GET("/auth-url", middleware.JWTAuth(models.RoleTutor), h.Calendar.AuthURLHandler)
		// The provider redirects here without our bearer token.
		calendar.GET("/callback", h.Calendar.CallbackHandler)
	}

	r.GET("/ws", middleware.JWTAuth(), h.Gateway.AttachHandler)
}

// registerHealthRoute registers a health-check endpoint.
func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "tutorhive up"})
	})
}
