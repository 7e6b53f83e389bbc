// main.go
package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ariebrainware/clinic-appointment/config"
	_ "github.com/ariebrainware/clinic-appointment/docs"
	"github.com/ariebrainware/clinic-appointment/endpoint"
	"github.com/ariebrainware/clinic-appointment/metrics"
	"github.com/ariebrainware/clinic-appointment/middleware"
	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/store"
	"github.com/ariebrainware/clinic-appointment/util"
)

// @title           Clinic Appointment API
// @version         1.0
// @description     Patients request consultations; doctors review, accept, decline and complete them.
// @BasePath        /
// @securityDefinitions.apikey SessionToken
// @in header
// @name session-token
func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	logger, err := util.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWTSECRET must be set")
	}
	util.SetJWTSecret(cfg.JWTSecret)
	endpoint.SetSessionTTL(cfg.SessionTTL)

	db, err := config.ConnectMySQL()
	if err != nil {
		logger.Fatal("error connecting to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&model.Patient{}, &model.Doctor{}, &model.Appointment{}, &model.Session{}, &model.SecurityLog{}); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	if _, err := config.ConnectRedis(); err != nil {
		// sessions fall back to the database and rate limiting is disabled
		logger.Warn("redis unavailable", zap.Error(err))
	}
	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		logger.Warn("geoip disabled", zap.Error(err))
	}
	defer util.CloseGeoIP()
	util.SetSecurityLoggerDB(db)

	stores := middleware.Stores{
		Accounts: store.NewAccountStore(db, store.AccountStoreConfig{
			PatientCacheSize: cfg.PatientCacheSize,
			DoctorCacheTTL:   cfg.DoctorCacheTTL,
		}),
		Appointments: store.NewAppointmentStore(db),
	}
	collector := metrics.NewCollector("clinic", prometheus.DefaultRegisterer, prometheus.DefaultGatherer)

	// Set Gin mode from config
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := setupRouter(routerDeps{
		AppName: cfg.AppName,
		DB:      db,
		Stores:  stores,
		Metrics: collector,
	})

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	logger.Info("starting server", zap.String("address", address))
	if err := router.Run(address); err != nil {
		logger.Fatal("error starting server", zap.Error(err))
	}
}
