package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/srikiran1905s/FEDF/authentication"
	"github.com/srikiran1905s/FEDF/configuration"
	"github.com/srikiran1905s/FEDF/controllers"
	"github.com/srikiran1905s/FEDF/models"
	"gorm.io/gorm"
)

// SetupRouter wires every endpoint to its controller and middleware.
func SetupRouter(cfg *configuration.Config, db *gorm.DB, cache *configuration.Cache, mail *controllers.Mailer, tokens *authentication.TokenManager) *gin.Engine {
	r := gin.Default()

	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		r.Use(cors.New(corsConfig))
	} else {
		r.Use(cors.Default())
	}

	authController := controllers.NewAuthController(db, tokens, cache, mail)
	patientController := controllers.NewPatientController(db, cache, mail)
	doctorController := controllers.NewDoctorController(db, cache, mail)
	publicController := controllers.NewPublicController(db, cache)

	api := r.Group("/api")

	api.GET("/health", publicController.Health)
	api.GET("/doctors", publicController.ListDoctors)

	limiter := authentication.NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthRateBurst)
	auth := api.Group("/auth")
	auth.Use(limiter.Middleware())
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/signin", authController.Signin)
		auth.POST("/logout",
			authentication.RequireRole(tokens, models.RolePatient, models.RoleDoctor),
			authController.Logout)
	}

	patient := api.Group("/patient")
	patient.Use(authentication.RequireRole(tokens, models.RolePatient))
	{
		patient.GET("/profile", patientController.Profile)
		patient.GET("/vitals", patientController.ListVitals)
		patient.GET("/vitals/latest", patientController.LatestVitals)
		patient.POST("/vitals", patientController.AddVitals)
		patient.GET("/appointments", patientController.ListAppointments)
		patient.POST("/appointments", patientController.BookAppointment)
		patient.POST("/appointments/:id/cancel", patientController.CancelAppointment)
		patient.GET("/health-records", patientController.ListHealthRecords)
		patient.GET("/prescriptions", patientController.ListPrescriptions)
		patient.GET("/prescriptions/:id/pdf", patientController.PrescriptionPDF)
	}

	doctor := api.Group("/doctor")
	doctor.Use(authentication.RequireRole(tokens, models.RoleDoctor))
	{
		doctor.GET("/profile", doctorController.Profile)
		doctor.GET("/appointments", doctorController.Appointments)
		doctor.PATCH("/appointments/:id/status", doctorController.UpdateAppointmentStatus)
		doctor.POST("/prescriptions", doctorController.AddPrescription)
		doctor.POST("/health-records", doctorController.AddHealthRecord)
		doctor.GET("/patients/:id/vitals", doctorController.PatientVitals)
	}

	if cfg.StaticDir != "" {
		r.Static("/app", cfg.StaticDir)
	}

	return r
}
