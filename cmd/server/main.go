package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seacargos-service/internal/infrastructure/config"
	"seacargos-service/internal/infrastructure/persistence"
	"seacargos-service/internal/interface/carrier"
	"seacargos-service/internal/interface/httpapi"
	mongoRepo "seacargos-service/internal/interface/repository"
	"seacargos-service/internal/usecase"
	"seacargos-service/pkg/logger"
	"seacargos-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Seacargos Tracking Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cfg.CarrierURL == "" {
		log.Fatal("ONE_URL environment variable is not available")
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories and carrier client
	trackingRepo := mongoRepo.NewMongoTrackingRepository(mongoClient, db)
	lineRepo := mongoRepo.NewGormCarrierLineRepository(gormDB)
	carrierClient := carrier.NewONEClient(cfg.CarrierURL, cfg.CarrierTimeout, log)

	// Set up metrics and usecases
	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer, "seacargos")
	reconciler := usecase.NewScheduleReconciler(carrierClient, trackingRepo, log, appMetrics)
	pipeline := usecase.NewTrackingPipeline(carrierClient, trackingRepo, lineRepo, log, appMetrics)
	presenter := usecase.NewDashboardPresenter(trackingRepo, lineRepo, log)

	// Schedule the bulk update; the default cron job runner is serial,
	// so a long run cannot overlap the next one.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.BulkUpdateCron, func() {
		log.Info("Start bulk schedule update")
		if err := reconciler.RunBulkUpdate(ctx); err != nil {
			log.Error("Bulk schedule update failed", "error", err)
			return
		}
		log.Info("Bulk schedule update completed")
	})
	if err != nil {
		log.Fatal("Invalid bulk update cron expression", "cron", cfg.BulkUpdateCron, "error", err)
	}
	scheduler.Start()

	// Set up HTTP server for the tracking API and metrics
	mux := http.NewServeMux()
	httpapi.NewHandler(pipeline, reconciler, presenter, log).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	// Stop the scheduler and wait for a running update to finish
	<-scheduler.Stop().Done()

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(ctx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Seacargos Tracking Service stopped")
}
