package routes

import (
	"clinic-app-server/internal/config"
	"clinic-app-server/internal/handlers"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, svc *scheduling.Service) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db, svc)
	availabilityHandler := handlers.NewAvailabilityHandler(db)
	timeOffHandler := handlers.NewTimeOffHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, svc)

	adminOnly := middleware.RoleAuthMiddleware(models.RoleAdmin)

	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		userRoutes := private.Group("/users", adminOnly)
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.PATCH("/:id", userHandler.UpdateUser)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
		}

		// Ownership checks for patients live in the handler.
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleAdmin), patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatient)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.PATCH("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", adminOnly, patientHandler.DeletePatient)
		}

		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), doctorHandler.CreateDoctor)
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctor)
			doctorRoutes.GET("/:id/slots", doctorHandler.GetAvailableSlots)
			doctorRoutes.GET("/:id/patients", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), doctorHandler.GetDoctorPatients)
			doctorRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), doctorHandler.UpdateDoctor)
			doctorRoutes.PATCH("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), doctorHandler.UpdateDoctor)
			doctorRoutes.DELETE("/:id", adminOnly, doctorHandler.DeleteDoctor)
		}

		scheduleWriters := middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin)

		availabilityRoutes := private.Group("/availability")
		{
			availabilityRoutes.GET("", availabilityHandler.GetAvailability)
			availabilityRoutes.GET("/:id", availabilityHandler.GetAvailabilityByID)
			availabilityRoutes.POST("", scheduleWriters, availabilityHandler.CreateAvailability)
			availabilityRoutes.PUT("/:id", scheduleWriters, availabilityHandler.UpdateAvailability)
			availabilityRoutes.PATCH("/:id", scheduleWriters, availabilityHandler.UpdateAvailability)
			availabilityRoutes.DELETE("/:id", scheduleWriters, availabilityHandler.DeleteAvailability)
		}

		timeOffRoutes := private.Group("/time-off")
		{
			timeOffRoutes.GET("", timeOffHandler.GetTimeOff)
			timeOffRoutes.GET("/:id", timeOffHandler.GetTimeOffByID)
			timeOffRoutes.POST("", scheduleWriters, timeOffHandler.CreateTimeOff)
			timeOffRoutes.PUT("/:id", scheduleWriters, timeOffHandler.UpdateTimeOff)
			timeOffRoutes.PATCH("/:id", scheduleWriters, timeOffHandler.UpdateTimeOff)
			timeOffRoutes.DELETE("/:id", scheduleWriters, timeOffHandler.DeleteTimeOff)
		}

		// Involvement checks (patient, doctor, admin) happen in the handler.
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.UpdateAppointment)
			appointmentRoutes.PATCH("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.UpdateAppointment)
			appointmentRoutes.POST("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.DELETE("/:id", adminOnly, appointmentHandler.DeleteAppointment)
		}
	}

	router.GET("/health", handlers.Health(db))
}
