package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Agenda-Right-Time/agenda-api/internal/audit"
	"github.com/Agenda-Right-Time/agenda-api/internal/config"
	"github.com/Agenda-Right-Time/agenda-api/internal/events"
	"github.com/Agenda-Right-Time/agenda-api/internal/handlers"
	"github.com/Agenda-Right-Time/agenda-api/internal/janitor"
	"github.com/Agenda-Right-Time/agenda-api/internal/middleware"
	"github.com/Agenda-Right-Time/agenda-api/internal/payment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, bus events.Bus, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	pixProvider := payment.NewMercadoPago()
	lifecycleJanitor := janitor.New(cfg)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db)

	publicHandler := handlers.NewPublicHandler(db, bus, cfg, pixProvider, auditDispatcher)

	appointmentHandler := handlers.NewAppointmentHandler(db, bus, auditDispatcher)
	dashboardHandler := handlers.NewDashboardHandler(db, bus, lifecycleJanitor)

	serviceHandler := handlers.NewServiceHandler(db)
	professionalHandler := handlers.NewProfessionalHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	calendarHandler := handlers.NewCalendarHandler(db)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	eventsHandler := handlers.NewEventsHandler(bus)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA (tela de reserva)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/professionals", publicHandler.ListProfessionals)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateBooking)
			publicAPI.POST("/:slug/appointments/:id/pix", publicHandler.RequestPayment)
			publicAPI.GET("/:slug/appointments/:id/watch", publicHandler.WatchAppointment)
			publicAPI.GET("/:slug/payments/:id/status", publicHandler.PaymentStatus)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA (painel)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", profileHandler.Get)
			secured.PATCH("/me", profileHandler.Update)

			secured.GET("/me/dashboard", dashboardHandler.Load)
			secured.GET("/me/events", eventsHandler.Stream)

			secured.GET("/me/clients", clientHandler.List)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/professionals", professionalHandler.List)
			secured.POST("/me/professionals", professionalHandler.Create)
			secured.PATCH("/me/professionals/:id", professionalHandler.Update)

			secured.GET("/me/calendar", calendarHandler.GetSettings)
			secured.PUT("/me/calendar", calendarHandler.UpsertSettings)
			secured.GET("/me/calendar/closed-dates", calendarHandler.ListClosedDates)
			secured.POST("/me/calendar/closed-dates", calendarHandler.CreateClosedDate)
			secured.DELETE("/me/calendar/closed-dates/:id", calendarHandler.DeleteClosedDate)
			secured.GET("/me/calendar/closed-slots", calendarHandler.ListClosedTimeSlots)
			secured.POST("/me/calendar/closed-slots", calendarHandler.CreateClosedTimeSlot)
			secured.DELETE("/me/calendar/closed-slots/:id", calendarHandler.DeleteClosedTimeSlot)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.List)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
