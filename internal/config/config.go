package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/statpulse/harvester/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for both the collector daemon and the
// dashboard API. Everything is sourced from the environment; tier lists and
// the statistic schema are compiled in.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	InternalJobToken   string

	SnapshotDir       string
	SnapshotFreshness time.Duration
	CacheEnabled      bool
	CacheTTL          time.Duration

	ExportDir           string
	ExportEveryCycles   int
	CycleInterval       time.Duration
	MaxMatchesPerCycle  int
	BackfillWorkerCount int

	FeedBaseURL              string
	FeedMobileBaseURL        string
	FeedTimeout              time.Duration
	FeedMaxRetries           int
	FeedRequestInterval      time.Duration
	FeedRequestJitter        time.Duration
	FeedRateLimitBackoff     time.Duration
	FeedCircuitEnabled       bool
	FeedCircuitFailureCount  int
	FeedCircuitOpenTimeout   time.Duration
	FeedCircuitHalfOpenMaxRq int

	DBURL string

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:           appEnv,
		ServiceName:      getEnv("SERVICE_NAME", "statpulse-harvester"),
		ServiceVersion:   getEnv("SERVICE_VERSION", "dev"),
		LogLevel:         parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		SnapshotDir:      getEnv("SNAPSHOT_DIR", "data/snapshots"),
		ExportDir:        getEnv("EXPORT_DIR", "data/exports"),
		FeedBaseURL:      strings.TrimRight(getEnv("FEED_BASE_URL", "https://api.sofascore.com/api/v1"), "/"),
		FeedMobileBaseURL: strings.TrimRight(
			getEnv("FEED_MOBILE_BASE_URL", "https://api.sofascore.app/api/v1"), "/"),
		DBURL:                  strings.TrimSpace(getEnv("DB_URL", "")),
		PprofAddr:              getEnv("PPROF_ADDR", "localhost:6060"),
		UptraceDSN:             strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeServerAddress: getEnv("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", "statpulse-harvester"),
		PyroscopeAuthToken:     getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	cfg.ReadTimeout, err = getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.WriteTimeout, err = getEnvAsDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg.SnapshotFreshness, err = getEnvAsDuration("SNAPSHOT_FRESHNESS", 2*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg.ExportEveryCycles, err = getEnvAsInt("EXPORT_EVERY_CYCLES", 3)
	if err != nil {
		return Config{}, err
	}
	if cfg.ExportEveryCycles < 1 {
		return Config{}, fmt.Errorf("EXPORT_EVERY_CYCLES must be >= 1")
	}

	cfg.CycleInterval, err = getEnvAsDuration("CYCLE_INTERVAL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	if cfg.CycleInterval <= 0 {
		return Config{}, fmt.Errorf("CYCLE_INTERVAL must be > 0")
	}

	cfg.MaxMatchesPerCycle, err = getEnvAsInt("MAX_MATCHES_PER_CYCLE", 12)
	if err != nil {
		return Config{}, err
	}
	if cfg.MaxMatchesPerCycle < 1 {
		return Config{}, fmt.Errorf("MAX_MATCHES_PER_CYCLE must be >= 1")
	}

	cfg.BackfillWorkerCount, err = getEnvAsInt("BACKFILL_WORKERS", 4)
	if err != nil {
		return Config{}, err
	}
	if cfg.BackfillWorkerCount < 1 {
		return Config{}, fmt.Errorf("BACKFILL_WORKERS must be >= 1")
	}

	cfg.FeedTimeout, err = getEnvAsDuration("FEED_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.FeedMaxRetries, err = getEnvAsInt("FEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, err
	}
	if cfg.FeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("FEED_MAX_RETRIES must be >= 0")
	}
	cfg.FeedRequestInterval, err = getEnvAsDuration("FEED_REQUEST_INTERVAL", 1500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.FeedRequestJitter, err = getEnvAsDuration("FEED_REQUEST_JITTER", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.FeedRateLimitBackoff, err = getEnvAsDuration("FEED_RATE_LIMIT_BACKOFF", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg.FeedCircuitEnabled, err = getEnvAsBool("FEED_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	cfg.FeedCircuitFailureCount, err = getEnvAsInt("FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	if cfg.FeedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.FeedCircuitOpenTimeout, err = getEnvAsDuration("FEED_CIRCUIT_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	if cfg.FeedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.FeedCircuitHalfOpenMaxRq, err = getEnvAsInt("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}
	if cfg.FeedCircuitHalfOpenMaxRq < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}

	cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled && strings.TrimSpace(cfg.PyroscopeServerAddress) == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
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
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
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
