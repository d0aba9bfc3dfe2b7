// One-shot bulk schedule update, meant to be invoked periodically by an
// external scheduler such as crontab.
package main

import (
	"context"
	"os"

	"seacargos-service/internal/infrastructure/config"
	"seacargos-service/internal/infrastructure/persistence"
	"seacargos-service/internal/interface/carrier"
	mongoRepo "seacargos-service/internal/interface/repository"
	"seacargos-service/internal/usecase"
	"seacargos-service/pkg/logger"
	"seacargos-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.NewLogger()
	defer log.Sync()
	log.Info("Start bulk schedule update")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		return 1
	}
	if cfg.CarrierURL == "" {
		log.Error("ONE_URL environment variable is not available")
		return 1
	}

	ctx := context.Background()
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Error("Failed to connect to MongoDB", "error", err)
		return 1
	}
	defer mongoClient.Disconnect(ctx)

	trackingRepo := mongoRepo.NewMongoTrackingRepository(mongoClient, db)
	carrierClient := carrier.NewONEClient(cfg.CarrierURL, cfg.CarrierTimeout, log)
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry(), "seacargos")
	reconciler := usecase.NewScheduleReconciler(carrierClient, trackingRepo, log, appMetrics)

	if err := reconciler.RunBulkUpdate(ctx); err != nil {
		log.Error("Bulk schedule update failed", "error", err)
		return 1
	}

	log.Info("Bulk schedule update completed")
	return 0
}
