// The apiserver binary serves the ChemReg-Ledger HTTP API: registry lookups,
// inventory management, batch submission, and ledger export.
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
	"github.com/turtacn/ChemReg-Ledger/internal/application/export"
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
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/ChemReg-Ledger/internal/interfaces/http"
	"github.com/turtacn/ChemReg-Ledger/internal/interfaces/http/handlers"
)

// Populated via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (empty: environment only)")
	migrate := flag.Bool("migrate", false, "run database migrations before serving")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	logger, err := logging.NewLogger(logConfigFrom(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger initialization failed: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("apiserver")
	logger.Info("Starting ChemReg-Ledger API server", logging.String("version", version))

	if *migrate {
		if err := postgres.RunMigrations(postgres.BuildDSN(cfg.Database), cfg.Database.MigrationPath); err != nil {
			logger.Fatal("Migrations failed", logging.Err(err))
		}
		logger.Info("Migrations applied")
	}

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
		Namespace:            cfg.Metrics.Namespace,
		EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
		EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
	}, logger)
	if err != nil {
		logger.Fatal("Metrics collector initialization failed", logging.Err(err))
	}
	metrics := prometheus.NewAppMetrics(collector)

	// Registry clients, each wrapped with the shared Redis cache.
	cache := redis.NewCache(redisClient, cfg.Registry.CacheTTL, logger)
	koshaClient := kosha.NewClient(cfg.Registry.KOSHA, cfg.Registry.CourtesyDelay, logger)
	kecoClient := keco.NewClient(cfg.Registry.KECO, logger)
	clients := []registry.Client{
		registry.NewCachedClient(koshaClient, cache, redisClient, logger),
		registry.NewCachedClient(kecoClient, cache, redisClient, logger),
	}
	lookupSvc := lookup.NewService(clients, metrics, logger)

	// The search cluster is optional; without it the ledger still works and
	// only name search degrades.
	var (
		index    inventory.SearchIndex
		searcher inventory.NameSearcher
		osClient *opensearch.Client
	)
	if len(cfg.OpenSearch.Addresses) > 0 {
		osClient, err = opensearch.NewClient(cfg.OpenSearch, logger)
		if err != nil {
			logger.Warn("OpenSearch unavailable, name search disabled", logging.Err(err))
		} else {
			indexer := opensearch.NewIndexer(osClient, logger)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := indexer.EnsureIndex(ctx); err != nil {
				logger.Warn("Index bootstrap failed", logging.Err(err))
			}
			cancel()
			index = indexer
			searcher = opensearch.NewSearcher(osClient, logger)
		}
	}

	repo := repositories.NewInventoryRepository(pool, logger)
	inventorySvc := inventory.NewService(repo, lookupSvc, index, searcher, metrics, logger)

	producer, err := kafka.NewJobProducer(cfg.Kafka, logger)
	if err != nil {
		logger.Fatal("Kafka producer initialization failed", logging.Err(err))
	}
	defer producer.Close()

	tracker := redis.NewProgressTracker(redisClient, cfg.Batch.ProgressTTL)
	batchSvc := batch.NewService(inventorySvc, producer, tracker, metrics, logger,
		batch.WithWorkers(cfg.Batch.Workers))

	// Object storage is optional; without it export renders but cannot store.
	var store export.ObjectStore
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := minio.NewClient(cfg.MinIO, logger)
		if err != nil {
			logger.Warn("MinIO unavailable, ledger export disabled", logging.Err(err))
		} else {
			store = minioClient
		}
	}
	exportSvc := export.NewService(repo, store, logger)

	checkers := []handlers.HealthChecker{
		&pingChecker{name: "postgres", ping: pool.Ping},
		&pingChecker{name: "redis", ping: redisClient.Ping},
	}
	if osClient != nil {
		checkers = append(checkers, &pingChecker{name: "opensearch", ping: osClient.Ping})
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		LookupHandler:    handlers.NewLookupHandler(lookupSvc),
		InventoryHandler: handlers.NewInventoryHandler(inventorySvc),
		BatchHandler:     handlers.NewBatchHandler(batchSvc),
		ExportHandler:    handlers.NewExportHandler(exportSvc),
		HealthHandler:    handlers.NewHealthHandler(version, checkers...),
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
	})

	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server failed", logging.Err(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown did not complete cleanly", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// pingChecker adapts any Ping method to the health endpoint contract.
type pingChecker struct {
	name string
	ping func(ctx context.Context) error
}

func (c *pingChecker) Name() string                    { return c.name }
func (c *pingChecker) Check(ctx context.Context) error { return c.ping(ctx) }

func logConfigFrom(cfg config.LogConfig) logging.LogConfig {
	lc := logging.LogConfig{Level: cfg.Level, Format: cfg.Format}
	if cfg.Output != "" {
		lc.OutputPaths = []string{cfg.Output}
	}
	return lc
}
