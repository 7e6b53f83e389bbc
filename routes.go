package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/ariebrainware/clinic-appointment/endpoint"
	"github.com/ariebrainware/clinic-appointment/metrics"
	"github.com/ariebrainware/clinic-appointment/middleware"
	"github.com/ariebrainware/clinic-appointment/model"
)

type routerDeps struct {
	AppName   string
	DB        *gorm.DB
	Stores    middleware.Stores
	Metrics   *metrics.Collector
	RateLimit middleware.RateLimitConfig
}

func setupRouter(deps routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestMetrics(deps.Metrics))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(deps.DB))
	router.Use(middleware.StoreMiddleware(deps.Stores))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", deps.AppName),
		})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limited := middleware.RateLimiter(deps.RateLimit)
	router.POST("/signup", limited, endpoint.Signup)
	router.POST("/login", limited, endpoint.Login)

	auth := router.Group("/", middleware.ValidateLoginToken())
	auth.DELETE("/logout", endpoint.Logout)
	auth.GET("/token/validate", endpoint.ValidateToken)
	auth.GET("/me", endpoint.GetMe)
	auth.GET("/doctor", endpoint.ListDoctors)
	auth.GET("/doctor/:id", endpoint.GetDoctor)

	patient := auth.Group("/", middleware.RequireRole(model.RolePatient))
	patient.POST("/appointment", endpoint.CreateAppointment)
	patient.GET("/appointment", endpoint.ListPatientAppointments)

	doctor := auth.Group("/", middleware.RequireRole(model.RoleDoctor))
	doctor.GET("/doctor/appointment", endpoint.DoctorWorklist)
	doctor.GET("/patient/:id", endpoint.GetPatient)
	doctor.PATCH("/appointment/:id/accept", endpoint.AcceptAppointment)
	doctor.PATCH("/appointment/:id/decline", endpoint.DeclineAppointment)
	doctor.PATCH("/appointment/:id/complete", endpoint.CompleteAppointment)

	return router
}
