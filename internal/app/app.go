package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/statpulse/harvester/external/sofascore"
	"github.com/statpulse/harvester/internal/config"
	"github.com/statpulse/harvester/internal/infrastructure/exporter"
	"github.com/statpulse/harvester/internal/infrastructure/repository/postgres"
	"github.com/statpulse/harvester/internal/infrastructure/snapshot"
	"github.com/statpulse/harvester/internal/interfaces/httpapi"
	"github.com/statpulse/harvester/internal/platform/cache"
	"github.com/statpulse/harvester/internal/platform/logging"
	"github.com/statpulse/harvester/internal/platform/resilience"
	"github.com/statpulse/harvester/internal/usecase"
)

// Pipeline bundles the wired services shared by the collector daemon and
// the dashboard API.
type Pipeline struct {
	Collector *usecase.CollectorService
	Exporter  *usecase.ExportService
	Backfill  *usecase.BackfillService
	Dashboard *usecase.DashboardService

	closers []func() error
}

// Close releases pipeline resources, last wired first.
func (p *Pipeline) Close() error {
	var firstErr error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewPipeline(cfg config.Config, logger *logging.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.Default()
	}

	feed := sofascore.NewClient(sofascore.ClientConfig{
		BaseURL:          cfg.FeedBaseURL,
		MobileBaseURL:    cfg.FeedMobileBaseURL,
		Timeout:          cfg.FeedTimeout,
		MaxRetries:       cfg.FeedMaxRetries,
		RequestInterval:  cfg.FeedRequestInterval,
		RequestJitter:    cfg.FeedRequestJitter,
		RateLimitBackoff: cfg.FeedRateLimitBackoff,
		Logger:           logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxRq,
		},
	})

	pipeline := &Pipeline{}

	var archive usecase.RecordArchive
	if cfg.DBURL != "" {
		db, err := OpenDatabase(cfg)
		if err != nil {
			return nil, err
		}
		pipeline.closers = append(pipeline.closers, db.Close)
		archive = postgres.NewRecordRepository(db)
	}

	resolution := usecase.NewResolutionService(feed, usecase.NewEstimatorService(), logger)
	quality := usecase.NewQualityService()
	writer := exporter.NewCSVWriter(cfg.ExportDir)
	exportSvc := usecase.NewExportService(writer, cfg.ExportEveryCycles, logger)

	pipeline.Exporter = exportSvc
	pipeline.Collector = usecase.NewCollectorService(feed, resolution, quality, exportSvc, archive,
		usecase.CollectorConfig{
			CycleInterval:      cfg.CycleInterval,
			MaxMatchesPerCycle: cfg.MaxMatchesPerCycle,
		}, logger)
	pipeline.Backfill = usecase.NewBackfillService(feed, resolution, quality, writer, archive,
		cfg.BackfillWorkerCount, logger)

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}
	pipeline.Dashboard = usecase.NewDashboardService(
		snapshot.NewStore(cfg.SnapshotDir), cacheStore, cfg.SnapshotFreshness, logger)

	return pipeline, nil
}

func NewHTTPServer(cfg config.Config, pipeline *Pipeline, httpLogger *slog.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(
		pipeline.Dashboard,
		pipeline.Collector,
		pipeline.Exporter,
		pipeline.Backfill,
		httpLogger,
	)
	router := httpapi.NewRouter(handler, httpLogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
