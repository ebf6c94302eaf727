// File: studiobook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studiobook/config"
	"studiobook/cron"
	"studiobook/database"
	blackoutRepo "studiobook/database/repository/blackout"
	ledgerRepo "studiobook/database/repository/ledger"
	occupancyRepo "studiobook/database/repository/occupancy"
	"studiobook/handlers"
	"studiobook/middleware"
	"studiobook/routes"
	"studiobook/services/importer"
	"studiobook/services/notification"
	"studiobook/services/scheduling"
	"studiobook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// The canonical grid never changes within a deployment; bad parameters
	// are fatal here, before anything is served.
	grid, err := scheduling.GenerateGrid(
		config.AppConfig.GridStartMinute,
		config.AppConfig.GridEndMinute,
		config.AppConfig.GridStepMinutes,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid slot grid configuration: %v", err)
	}

	// repositories.
	ledger := ledgerRepo.NewMongoLedgerRepo()
	occupancy := occupancyRepo.NewMongoOccupancyRepo()
	blackouts := blackoutRepo.NewMongoBlackoutRepo()
	if err := ledger.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if err := occupancy.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if err := blackouts.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// services.
	availabilityService := &scheduling.DefaultAvailabilityService{
		Ledger:    ledger,
		Blackouts: blackouts,
		Grid:      grid,
		Cache:     utils.GetCacheClient(),
		CacheTTL:  time.Duration(config.AppConfig.AvailabilityCacheTTLSeconds) * time.Second,
		Logger:    logger,
	}
	schedulingService := &scheduling.DefaultService{
		Ledger:       ledger,
		Occupancy:    occupancy,
		Blackouts:    blackouts,
		Grid:         grid,
		Availability: availabilityService,
		Logger:       logger,
	}
	reconciler := &scheduling.Reconciler{
		Ledger:    ledger,
		Occupancy: occupancy,
		Blackouts: blackouts,
		Logger:    logger,
	}
	importService := &importer.DefaultImportService{
		Scheduling: schedulingService,
		Plans: &importer.RedisPlanStore{
			Client: utils.GetCacheClient(),
			TTL:    time.Duration(config.AppConfig.ImportPlanTTLMinutes) * time.Minute,
		},
		Grid:   grid,
		Logger: logger,
	}

	// The watcher turns the store's change feed into outbound events and
	// push-driven availability recomputes.
	watcherCtx, stopWatcher := context.WithCancel(context.Background())
	watcher := &notification.Watcher{
		Feed:         ledger,
		Sink:         &notification.LogSink{Logger: logger},
		Availability: availabilityService,
		Logger:       logger,
	}
	go watcher.Run(watcherCtx)

	cron.InitReconcileWorker(reconciler)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	reservationHandler := handlers.NewReservationHandler(schedulingService, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, logger)
	blackoutHandler := handlers.NewBlackoutHandler(schedulingService, logger)
	importHandler := handlers.NewImportHandler(importService, logger)
	reconcileHandler := handlers.NewReconcileHandler(reconciler, logger)

	routes.RegisterRoutes(router, reservationHandler, availabilityHandler, blackoutHandler, importHandler, reconcileHandler)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on :%s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	stopWatcher()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
}
