// The worker binary consumes batch registration jobs from Kafka and runs
// them against the inventory, recording live progress in Redis.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/ChemReg-Ledger/internal/application/batch"
	"github.com/turtacn/ChemReg-Ledger/internal/application/inventory"
	"github.com/turtacn/ChemReg-Ledger/internal/application/lookup"
	"github.com/turtacn/ChemReg-Ledger/internal/config"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/database/postgres"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/registry"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/registry/keco"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/registry/kosha"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/search/opensearch"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (empty: environment only)")
	workers := flag.Int("workers", 0, "lookup pool size (overrides config)")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}

	logger, err := logging.NewLogger(logging.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger initialization failed: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("worker")
	logger.Info("Starting batch worker",
		logging.String("version", version),
		logging.Int("workers", cfg.Batch.Workers))

	pool, err := postgres.NewConnectionPool(cfg.Database, logger)
	if err != nil {
		logger.Fatal("PostgreSQL connection failed", logging.Err(err))
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Redis connection failed", logging.Err(err))
	}
	defer redisClient.Close()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: cfg.Metrics.Namespace,
	}, logger)
	if err != nil {
		logger.Fatal("Metrics collector initialization failed", logging.Err(err))
	}
	metrics := prometheus.NewAppMetrics(collector)

	cache := redis.NewCache(redisClient, cfg.Registry.CacheTTL, logger)
	clients := []registry.Client{
		registry.NewCachedClient(kosha.NewClient(cfg.Registry.KOSHA, cfg.Registry.CourtesyDelay, logger), cache, redisClient, logger),
		registry.NewCachedClient(keco.NewClient(cfg.Registry.KECO, logger), cache, redisClient, logger),
	}
	lookupSvc := lookup.NewService(clients, metrics, logger)

	var index inventory.SearchIndex
	if len(cfg.OpenSearch.Addresses) > 0 {
		osClient, err := opensearch.NewClient(cfg.OpenSearch, logger)
		if err != nil {
			logger.Warn("OpenSearch unavailable, rows will not be indexed", logging.Err(err))
		} else {
			index = opensearch.NewIndexer(osClient, logger)
		}
	}

	repo := repositories.NewInventoryRepository(pool, logger)
	inventorySvc := inventory.NewService(repo, lookupSvc, index, nil, metrics, logger)

	tracker := redis.NewProgressTracker(redisClient, cfg.Batch.ProgressTTL)
	batchSvc := batch.NewService(inventorySvc, nil, tracker, metrics, logger,
		batch.WithWorkers(cfg.Batch.Workers))

	handler := func(ctx context.Context, job *chem.BatchJob) error {
		summary, err := batchSvc.Run(ctx, job)
		if err != nil {
			return err
		}
		logger.Info("Batch job finished",
			logging.String("job_id", string(job.ID)),
			logging.Int("total", summary.Total),
			logging.Int("succeeded", summary.Succeeded),
			logging.Int("failed", summary.Failed))
		return nil
	}

	if topics, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger); err != nil {
		logger.Warn("Topic manager unavailable", logging.Err(err))
	} else {
		if err := topics.EnsureTopic(cfg.Kafka.BatchTopic, 1, 1); err != nil {
			logger.Warn("Topic bootstrap failed", logging.Err(err))
		}
		_ = topics.Close()
	}

	consumer, err := kafka.NewJobConsumer(cfg.Kafka, handler, logger)
	if err != nil {
		logger.Fatal("Kafka consumer initialization failed", logging.Err(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := consumer.Start(ctx); err != nil {
		logger.Fatal("Consumer start failed", logging.Err(err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Shutting down", logging.String("signal", sig.String()))

	cancel()
	done := make(chan error, 1)
	go func() { done <- consumer.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			logger.Error("Consumer stop failed", logging.Err(err))
		}
	case <-time.After(30 * time.Second):
		logger.Error("Consumer stop timed out")
	}
	logger.Info("Worker stopped")
}
