package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"psicocitas-web/internal/handlers"
	"psicocitas-web/internal/middleware"
	"psicocitas-web/internal/session"
)

// Handlers groups the request handlers mounted by SetupRoutes.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Profile     *handlers.ProfileHandler
	Dashboard   *handlers.DashboardHandler
	Appointment *handlers.AppointmentHandler
	Referral    *handlers.ReferralHandler
	Report      *handlers.ReportHandler
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, sessions *session.Manager, h Handlers) {
	// Public routes (no session required)
	router.GET("/", h.Auth.Root)
	router.GET("/login", h.Auth.Login)
	router.GET("/auth/callback", h.Auth.Callback)
	router.POST("/logout", h.Auth.Logout)

	// The profile editor also serves users still in the pending sign-in state,
	// so it resolves its user itself.
	profileRoutes := router.Group("/api/profile")
	{
		profileRoutes.GET("", h.Profile.GetProfile)
		profileRoutes.POST("/evaluate", h.Profile.EvaluateProfile)
		profileRoutes.PUT("", h.Profile.UpdateProfile)
	}

	// Authenticated routes
	private := router.Group("/api")
	private.Use(middleware.SessionMiddleware(sessions))
	{
		private.GET("/session", h.Auth.Session)

		dashboardRoutes := private.Group("/dashboard")
		{
			dashboardRoutes.GET("", h.Dashboard.GetDay)
			dashboardRoutes.GET("/stream", h.Dashboard.Stream)
		}

		citaRoutes := private.Group("/citas")
		{
			citaRoutes.GET("/:id", h.Appointment.GetAppointment)
			citaRoutes.POST("/:id/evaluate", h.Appointment.EvaluateAppointment)
			citaRoutes.PUT("/:id/atencion", h.Appointment.SubmitAttention)
		}
		private.GET("/horarios", h.Appointment.GetSlots)

		studentRoutes := private.Group("/estudiantes")
		{
			studentRoutes.GET("", h.Referral.SearchStudent)
			studentRoutes.POST("", h.Referral.CreateStudent)
		}

		referralRoutes := private.Group("/derivaciones")
		{
			referralRoutes.POST("/evaluate", h.Referral.EvaluateReferral)
			referralRoutes.POST("", h.Referral.SubmitReferral)
		}

		reportRoutes := private.Group("/reporte")
		{
			reportRoutes.GET("", h.Report.GetReport)
			reportRoutes.GET("/export", h.Report.ExportReport)
			reportRoutes.POST("/fecha", h.Report.UpdateDateFilter)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
