package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresTBAAPIKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("TBA_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when TBA_API_KEY is empty")
	}
}

func TestLoad_FRCEventsTokenRequiredWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("TBA_API_KEY", "tba-key")
	t.Setenv("FRC_EVENTS_ENABLED", "true")
	t.Setenv("FRC_EVENTS_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when FRC_EVENTS_ENABLED=true without FRC_EVENTS_TOKEN")
	}
}

func TestLoad_FRCEventsTokenOptionalWhenDisabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("TBA_API_KEY", "tba-key")
	t.Setenv("FRC_EVENTS_ENABLED", "false")
	t.Setenv("FRC_EVENTS_TOKEN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FRCEventsEnabled {
		t.Fatalf("expected FRCEventsEnabled=false")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("TBA_API_KEY", "tba-key")
	t.Setenv("FRC_EVENTS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.TBABaseURL != "https://www.thebluealliance.com/api/v3" {
		t.Fatalf("unexpected TBABaseURL: %q", cfg.TBABaseURL)
	}
	if cfg.TBACacheTTL != 5*time.Minute {
		t.Fatalf("unexpected TBACacheTTL: %s", cfg.TBACacheTTL)
	}
	if cfg.StatboticsTimeout != 15*time.Second {
		t.Fatalf("unexpected StatboticsTimeout: %s", cfg.StatboticsTimeout)
	}
	if cfg.RegionStatsPath != "data/region_stats.json" {
		t.Fatalf("unexpected RegionStatsPath: %q", cfg.RegionStatsPath)
	}
	if cfg.SnapshotDBPath != "data/saved_events.db" {
		t.Fatalf("unexpected SnapshotDBPath: %q", cfg.SnapshotDBPath)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_CircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("TBA_API_KEY", "tba-key")
	t.Setenv("FRC_EVENTS_ENABLED", "false")
	t.Setenv("TBA_CIRCUIT_ENABLED", "false")
	t.Setenv("STATBOTICS_CIRCUIT_FAILURE_COUNT", "9")
	t.Setenv("STATBOTICS_CIRCUIT_OPEN_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TBACircuitEnabled {
		t.Fatalf("expected TBACircuitEnabled=false")
	}
	if cfg.StatboticsCircuitFailureCount != 9 {
		t.Fatalf("unexpected StatboticsCircuitFailureCount: %d", cfg.StatboticsCircuitFailureCount)
	}
	if cfg.StatboticsCircuitOpenTimeout != 45*time.Second {
		t.Fatalf("unexpected StatboticsCircuitOpenTimeout: %s", cfg.StatboticsCircuitOpenTimeout)
	}
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("TBA_API_KEY", "tba-key")
	t.Setenv("FRC_EVENTS_ENABLED", "false")
	t.Setenv("TBA_TIMEOUT", "-5s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative TBA_TIMEOUT")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("TBA_API_KEY", "tba-key")
	t.Setenv("FRC_EVENTS_ENABLED", "false")
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}
