package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kleium/casters-tool/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                          string
	ServiceName                     string
	ServiceVersion                  string
	HTTPAddr                        string
	CORSAllowedOrigins              []string
	ReadTimeout                     time.Duration
	WriteTimeout                    time.Duration
	PprofEnabled                    bool
	PprofAddr                       string
	TBABaseURL                      string
	TBAAPIKey                       string
	TBATimeout                      time.Duration
	TBACacheTTL                     time.Duration
	TBACircuitEnabled               bool
	TBACircuitFailureCount          int
	TBACircuitOpenTimeout           time.Duration
	TBACircuitHalfOpenMaxReq        int
	FRCEventsEnabled                bool
	FRCEventsBaseURL                string
	FRCEventsToken                  string
	FRCEventsTimeout                time.Duration
	FRCEventsCacheTTL               time.Duration
	FRCEventsCircuitEnabled         bool
	FRCEventsCircuitFailureCount    int
	FRCEventsCircuitOpenTimeout     time.Duration
	FRCEventsCircuitHalfOpenMaxReq  int
	StatboticsBaseURL               string
	StatboticsTimeout               time.Duration
	StatboticsCacheTTL              time.Duration
	StatboticsCircuitEnabled        bool
	StatboticsCircuitFailureCount   int
	StatboticsCircuitOpenTimeout    time.Duration
	StatboticsCircuitHalfOpenMaxReq int
	HistoryLookbackYears            int
	HistoryWorkers                  int
	RegionStatsPath                 string
	SnapshotDBPath                  string
	LogLevel                        logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := getEnv("PPROF_ADDR", "localhost:6060")

	tbaTimeout, err := time.ParseDuration(getEnv("TBA_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_TIMEOUT: %w", err)
	}
	if tbaTimeout <= 0 {
		return Config{}, fmt.Errorf("TBA_TIMEOUT must be > 0")
	}
	tbaCacheTTL, err := time.ParseDuration(getEnv("TBA_CACHE_TTL", "300s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_CACHE_TTL: %w", err)
	}
	if tbaCacheTTL <= 0 {
		return Config{}, fmt.Errorf("TBA_CACHE_TTL must be > 0")
	}
	tbaCircuitEnabled, err := strconv.ParseBool(getEnv("TBA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_CIRCUIT_ENABLED: %w", err)
	}
	tbaCircuitFailureCount, err := getEnvAsInt("TBA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if tbaCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("TBA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	tbaCircuitOpenTimeout, err := time.ParseDuration(getEnv("TBA_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if tbaCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("TBA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	tbaCircuitHalfOpenMaxReq, err := getEnvAsInt("TBA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if tbaCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("TBA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	tbaBaseURL := strings.TrimSpace(getEnv("TBA_BASE_URL", "https://www.thebluealliance.com/api/v3"))
	tbaAPIKey := strings.TrimSpace(getEnv("TBA_API_KEY", ""))
	if tbaAPIKey == "" {
		return Config{}, fmt.Errorf("TBA_API_KEY is required")
	}

	frcEventsEnabled, err := strconv.ParseBool(getEnv("FRC_EVENTS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FRC_EVENTS_ENABLED: %w", err)
	}
	frcEventsTimeout, err := time.ParseDuration(getEnv("FRC_EVENTS_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FRC_EVENTS_TIMEOUT: %w", err)
	}
	if frcEventsTimeout <= 0 {
		return Config{}, fmt.Errorf("FRC_EVENTS_TIMEOUT must be > 0")
	}
	frcEventsCacheTTL, err := time.ParseDuration(getEnv("FRC_EVENTS_CACHE_TTL", "120s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FRC_EVENTS_CACHE_TTL: %w", err)
	}
	if frcEventsCacheTTL <= 0 {
		return Config{}, fmt.Errorf("FRC_EVENTS_CACHE_TTL must be > 0")
	}
	frcEventsCircuitEnabled, err := strconv.ParseBool(getEnv("FRC_EVENTS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FRC_EVENTS_CIRCUIT_ENABLED: %w", err)
	}
	frcEventsCircuitFailureCount, err := getEnvAsInt("FRC_EVENTS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FRC_EVENTS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if frcEventsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FRC_EVENTS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	frcEventsCircuitOpenTimeout, err := time.ParseDuration(getEnv("FRC_EVENTS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FRC_EVENTS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if frcEventsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FRC_EVENTS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	frcEventsCircuitHalfOpenMaxReq, err := getEnvAsInt("FRC_EVENTS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FRC_EVENTS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if frcEventsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FRC_EVENTS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	frcEventsBaseURL := strings.TrimSpace(getEnv("FRC_EVENTS_BASE_URL", "https://frc-api.firstinspires.org/v3.0"))
	frcEventsToken := strings.TrimSpace(getEnv("FRC_EVENTS_TOKEN", ""))
	if frcEventsEnabled && frcEventsToken == "" {
		return Config{}, fmt.Errorf("FRC_EVENTS_TOKEN is required when FRC_EVENTS_ENABLED=true")
	}

	statboticsTimeout, err := time.ParseDuration(getEnv("STATBOTICS_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATBOTICS_TIMEOUT: %w", err)
	}
	if statboticsTimeout <= 0 {
		return Config{}, fmt.Errorf("STATBOTICS_TIMEOUT must be > 0")
	}
	statboticsCacheTTL, err := time.ParseDuration(getEnv("STATBOTICS_CACHE_TTL", "300s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATBOTICS_CACHE_TTL: %w", err)
	}
	if statboticsCacheTTL <= 0 {
		return Config{}, fmt.Errorf("STATBOTICS_CACHE_TTL must be > 0")
	}
	statboticsCircuitEnabled, err := strconv.ParseBool(getEnv("STATBOTICS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATBOTICS_CIRCUIT_ENABLED: %w", err)
	}
	statboticsCircuitFailureCount, err := getEnvAsInt("STATBOTICS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATBOTICS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if statboticsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STATBOTICS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	statboticsCircuitOpenTimeout, err := time.ParseDuration(getEnv("STATBOTICS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATBOTICS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if statboticsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STATBOTICS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	statboticsCircuitHalfOpenMaxReq, err := getEnvAsInt("STATBOTICS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATBOTICS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if statboticsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("STATBOTICS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	statboticsBaseURL := strings.TrimSpace(getEnv("STATBOTICS_BASE_URL", "https://api.statbotics.io/v3"))

	historyLookbackYears, err := getEnvAsInt("HISTORY_LOOKBACK_YEARS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse HISTORY_LOOKBACK_YEARS: %w", err)
	}
	if historyLookbackYears < 1 {
		return Config{}, fmt.Errorf("HISTORY_LOOKBACK_YEARS must be >= 1")
	}
	historyWorkers, err := getEnvAsInt("HISTORY_WORKERS", 16)
	if err != nil {
		return Config{}, fmt.Errorf("parse HISTORY_WORKERS: %w", err)
	}
	if historyWorkers < 1 {
		return Config{}, fmt.Errorf("HISTORY_WORKERS must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg := Config{
		AppEnv:                          appEnv,
		ServiceName:                     getEnv("APP_SERVICE_NAME", "casters-tool-api"),
		ServiceVersion:                  getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                        getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:              splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                     readTimeout,
		WriteTimeout:                    writeTimeout,
		PprofEnabled:                    pprofEnabled,
		PprofAddr:                       pprofAddr,
		TBABaseURL:                      tbaBaseURL,
		TBAAPIKey:                       tbaAPIKey,
		TBATimeout:                      tbaTimeout,
		TBACacheTTL:                     tbaCacheTTL,
		TBACircuitEnabled:               tbaCircuitEnabled,
		TBACircuitFailureCount:          tbaCircuitFailureCount,
		TBACircuitOpenTimeout:           tbaCircuitOpenTimeout,
		TBACircuitHalfOpenMaxReq:        tbaCircuitHalfOpenMaxReq,
		FRCEventsEnabled:                frcEventsEnabled,
		FRCEventsBaseURL:                frcEventsBaseURL,
		FRCEventsToken:                  frcEventsToken,
		FRCEventsTimeout:                frcEventsTimeout,
		FRCEventsCacheTTL:               frcEventsCacheTTL,
		FRCEventsCircuitEnabled:         frcEventsCircuitEnabled,
		FRCEventsCircuitFailureCount:    frcEventsCircuitFailureCount,
		FRCEventsCircuitOpenTimeout:     frcEventsCircuitOpenTimeout,
		FRCEventsCircuitHalfOpenMaxReq:  frcEventsCircuitHalfOpenMaxReq,
		StatboticsBaseURL:               statboticsBaseURL,
		StatboticsTimeout:               statboticsTimeout,
		StatboticsCacheTTL:              statboticsCacheTTL,
		StatboticsCircuitEnabled:        statboticsCircuitEnabled,
		StatboticsCircuitFailureCount:   statboticsCircuitFailureCount,
		StatboticsCircuitOpenTimeout:    statboticsCircuitOpenTimeout,
		StatboticsCircuitHalfOpenMaxReq: statboticsCircuitHalfOpenMaxReq,
		HistoryLookbackYears:            historyLookbackYears,
		HistoryWorkers:                  historyWorkers,
		RegionStatsPath:                 getEnv("REGION_STATS_PATH", "data/region_stats.json"),
		SnapshotDBPath:                  getEnv("SNAPSHOT_DB_PATH", "data/saved_events.db"),
		LogLevel:                        logLevel,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
