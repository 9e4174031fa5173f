package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kleium/casters-tool/external/frcevents"
	"github.com/kleium/casters-tool/external/statbotics"
	"github.com/kleium/casters-tool/external/tba"
	"github.com/kleium/casters-tool/internal/config"
	"github.com/kleium/casters-tool/internal/infrastructure/regionstats"
	snapshotdb "github.com/kleium/casters-tool/internal/infrastructure/snapshot"
	"github.com/kleium/casters-tool/internal/interfaces/httpapi"
	"github.com/kleium/casters-tool/internal/platform/logging"
	"github.com/kleium/casters-tool/internal/platform/resilience"
	"github.com/kleium/casters-tool/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	regionStore := regionstats.NewStore(cfg.RegionStatsPath)
	if err := regionStore.Load(); err != nil {
		return nil, fmt.Errorf("load region stats: %w", err)
	}

	snapshotRepo, err := snapshotdb.Open(cfg.SnapshotDBPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	tbaClient := tba.NewClient(tba.Config{
		BaseURL: cfg.TBABaseURL,
		APIKey:  cfg.TBAAPIKey,
		TTL:     cfg.TBACacheTTL,
		Timeout: cfg.TBATimeout,
		Logger:  logger,
		CircuitBreaker: circuitConfig(
			cfg.TBACircuitEnabled,
			cfg.TBACircuitFailureCount,
			cfg.TBACircuitOpenTimeout,
			cfg.TBACircuitHalfOpenMaxReq,
		),
	})

	var official usecase.OfficialProvider
	if cfg.FRCEventsEnabled {
		official = frcevents.NewClient(frcevents.Config{
			BaseURL: cfg.FRCEventsBaseURL,
			Token:   cfg.FRCEventsToken,
			TTL:     cfg.FRCEventsCacheTTL,
			Timeout: cfg.FRCEventsTimeout,
			Logger:  logger,
			CircuitBreaker: circuitConfig(
				cfg.FRCEventsCircuitEnabled,
				cfg.FRCEventsCircuitFailureCount,
				cfg.FRCEventsCircuitOpenTimeout,
				cfg.FRCEventsCircuitHalfOpenMaxReq,
			),
		})
	} else {
		logger.Info("official results source disabled", "reason", "FRC_EVENTS_ENABLED=false")
	}

	statboticsClient := statbotics.NewClient(statbotics.Config{
		BaseURL: cfg.StatboticsBaseURL,
		TTL:     cfg.StatboticsCacheTTL,
		Timeout: cfg.StatboticsTimeout,
		Logger:  logger,
		CircuitBreaker: circuitConfig(
			cfg.StatboticsCircuitEnabled,
			cfg.StatboticsCircuitFailureCount,
			cfg.StatboticsCircuitOpenTimeout,
			cfg.StatboticsCircuitHalfOpenMaxReq,
		),
	})

	eventSvc := usecase.NewEventService(tbaClient, official, statboticsClient)
	matchSvc := usecase.NewMatchService(tbaClient, statboticsClient)
	historySvc := usecase.NewHistoryService(tbaClient, cfg.HistoryLookbackYears, cfg.HistoryWorkers)
	allianceSvc := usecase.NewAllianceService(tbaClient, historySvc)
	summarySvc := usecase.NewSummaryService(tbaClient, regionStore)
	teamSvc := usecase.NewTeamService(tbaClient)
	regionSvc := usecase.NewRegionService(tbaClient, regionStore)
	snapshotSvc := usecase.NewSnapshotService(snapshotRepo)

	handler := httpapi.NewHandler(
		eventSvc,
		matchSvc,
		allianceSvc,
		historySvc,
		summarySvc,
		teamSvc,
		regionSvc,
		snapshotSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func circuitConfig(enabled bool, failureCount int, openTimeout time.Duration, halfOpenMaxReq int) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}
}
