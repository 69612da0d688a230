package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config stores runtime configuration for the sync daemon.
type Config struct {
	AppEnv                          string
	ServiceName                     string
	ServiceVersion                  string
	LogLevel                        logging.Level
	StoreDriver                     string
	DBURL                           string
	DBMaxOpenConns                  int
	CacheEnabled                    bool
	CacheTTL                        time.Duration
	EuroleagueBaseURL               string
	EuroleagueCompetition           string
	EuroleagueSeason                string
	EuroleaguePhase                 string
	EuroleagueTimeout               time.Duration
	EuroleagueVersionURL            string
	EuroleagueCircuitEnabled        bool
	EuroleagueCircuitFailureCount   int
	EuroleagueCircuitOpenTimeout    time.Duration
	EuroleagueCircuitHalfOpenMaxReq int
	FeedEnabled                     bool
	FeedBaseURL                     string
	FeedTimeout                     time.Duration
	FeedTeamRounds                  int
	FeedRoundPause                  time.Duration
	RetryMaxAttempts                int
	RetryBaseDelay                  time.Duration
	SyncInterval                    time.Duration
	SyncCron                        string
	SyncUpdateCron                  string
	SyncRosterCron                  string
	SyncImportOnStart               bool
	SyncReportWorkers               int
	SyncSeasonRounds                int
	StaticDataSeason                string
	StaticDataDir                   string
	UptraceEnabled                  bool
	UptraceDSN                      string
	PyroscopeEnabled                bool
	PyroscopeServerAddress          string
	PyroscopeAppName                string
	PyroscopeAuthToken              string
	PyroscopeBasicAuthUser          string
	PyroscopeBasicAuthPassword      string
	PyroscopeUploadRate             time.Duration
	PprofEnabled                    bool
	PprofAddr                       string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	storeDriver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMemory)))
	if storeDriver != StoreMemory && storeDriver != StorePostgres {
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", storeDriver, StoreMemory, StorePostgres)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeDriver == StorePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", StorePostgres)
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := getEnvAsPositiveDuration("CACHE_TTL", "60s")
	if err != nil {
		return Config{}, err
	}

	euroleagueTimeout, err := getEnvAsPositiveDuration("EUROLEAGUE_TIMEOUT", "20s")
	if err != nil {
		return Config{}, err
	}
	euroleagueCompetition := strings.ToUpper(strings.TrimSpace(getEnv("EUROLEAGUE_COMPETITION", "E")))
	euroleagueSeason := strings.ToUpper(strings.TrimSpace(getEnv("EUROLEAGUE_SEASON", euroleagueCompetition+"2025")))
	if !strings.HasPrefix(euroleagueSeason, euroleagueCompetition) {
		return Config{}, fmt.Errorf("EUROLEAGUE_SEASON %q does not belong to competition %q", euroleagueSeason, euroleagueCompetition)
	}

	euroleagueCircuitEnabled, err := strconv.ParseBool(getEnv("EUROLEAGUE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EUROLEAGUE_CIRCUIT_ENABLED: %w", err)
	}
	euroleagueCircuitFailureCount, err := getEnvAsInt("EUROLEAGUE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse EUROLEAGUE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if euroleagueCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("EUROLEAGUE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	euroleagueCircuitOpenTimeout, err := getEnvAsPositiveDuration("EUROLEAGUE_CIRCUIT_OPEN_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	euroleagueCircuitHalfOpenMaxReq, err := getEnvAsInt("EUROLEAGUE_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse EUROLEAGUE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if euroleagueCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("EUROLEAGUE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	feedEnabled, err := strconv.ParseBool(getEnv("FEED_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_ENABLED: %w", err)
	}
	feedTimeout, err := getEnvAsPositiveDuration("FEED_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	feedTeamRounds, err := getEnvAsInt("FEED_TEAM_ROUNDS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_TEAM_ROUNDS: %w", err)
	}
	if feedTeamRounds < 1 {
		return Config{}, fmt.Errorf("FEED_TEAM_ROUNDS must be >= 1")
	}
	feedRoundPause, err := time.ParseDuration(getEnv("FEED_ROUND_PAUSE", "500ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_ROUND_PAUSE: %w", err)
	}
	if feedRoundPause < 0 {
		return Config{}, fmt.Errorf("FEED_ROUND_PAUSE must be >= 0")
	}

	retryMaxAttempts, err := getEnvAsInt("RETRY_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse RETRY_MAX_ATTEMPTS: %w", err)
	}
	if retryMaxAttempts < 1 {
		return Config{}, fmt.Errorf("RETRY_MAX_ATTEMPTS must be >= 1")
	}
	retryBaseDelay, err := time.ParseDuration(getEnv("RETRY_BASE_DELAY", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RETRY_BASE_DELAY: %w", err)
	}
	if retryBaseDelay < 0 {
		return Config{}, fmt.Errorf("RETRY_BASE_DELAY must be >= 0")
	}

	syncInterval, err := getEnvAsPositiveDuration("SYNC_INTERVAL", "24h")
	if err != nil {
		return Config{}, err
	}
	syncCron := strings.TrimSpace(getEnv("SYNC_CRON", "@every 1h"))
	syncUpdateCron := optionalSchedule(getEnv("SYNC_UPDATE_CRON", "@daily"))
	syncRosterCron := optionalSchedule(getEnv("SYNC_ROSTER_CRON", "@weekly"))
	syncImportOnStart, err := strconv.ParseBool(getEnv("SYNC_IMPORT_ON_START", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_IMPORT_ON_START: %w", err)
	}
	syncReportWorkers, err := getEnvAsInt("SYNC_REPORT_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_REPORT_WORKERS: %w", err)
	}
	if syncReportWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_REPORT_WORKERS must be >= 1")
	}
	syncSeasonRounds, err := getEnvAsInt("SYNC_SEASON_ROUNDS", 34)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_SEASON_ROUNDS: %w", err)
	}
	if syncSeasonRounds < 1 {
		return Config{}, fmt.Errorf("SYNC_SEASON_ROUNDS must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofAddr == "" {
		pprofAddr = ":6060"
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                          appEnv,
		ServiceName:                     getEnv("APP_SERVICE_NAME", "euroleague-syncd"),
		ServiceVersion:                  getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                        logLevel,
		StoreDriver:                     storeDriver,
		DBURL:                           dbURL,
		DBMaxOpenConns:                  dbMaxOpenConns,
		CacheEnabled:                    cacheEnabled,
		CacheTTL:                        cacheTTL,
		EuroleagueBaseURL:               strings.TrimSpace(getEnv("EUROLEAGUE_BASE_URL", "https://api-live.euroleague.net/v2")),
		EuroleagueCompetition:           euroleagueCompetition,
		EuroleagueSeason:                euroleagueSeason,
		EuroleaguePhase:                 strings.ToUpper(strings.TrimSpace(getEnv("EUROLEAGUE_PHASE", "RS"))),
		EuroleagueTimeout:               euroleagueTimeout,
		EuroleagueVersionURL:            strings.TrimSpace(getEnv("EUROLEAGUE_VERSION_URL", "")),
		EuroleagueCircuitEnabled:        euroleagueCircuitEnabled,
		EuroleagueCircuitFailureCount:   euroleagueCircuitFailureCount,
		EuroleagueCircuitOpenTimeout:    euroleagueCircuitOpenTimeout,
		EuroleagueCircuitHalfOpenMaxReq: euroleagueCircuitHalfOpenMaxReq,
		FeedEnabled:                     feedEnabled,
		FeedBaseURL:                     strings.TrimSpace(getEnv("FEED_BASE_URL", "https://feeds.incrowdsports.com/provider/euroleague-feeds/v2")),
		FeedTimeout:                     feedTimeout,
		FeedTeamRounds:                  feedTeamRounds,
		FeedRoundPause:                  feedRoundPause,
		RetryMaxAttempts:                retryMaxAttempts,
		RetryBaseDelay:                  retryBaseDelay,
		SyncInterval:                    syncInterval,
		SyncCron:                        syncCron,
		SyncUpdateCron:                  syncUpdateCron,
		SyncRosterCron:                  syncRosterCron,
		SyncImportOnStart:               syncImportOnStart,
		SyncReportWorkers:               syncReportWorkers,
		SyncSeasonRounds:                syncSeasonRounds,
		StaticDataSeason:                strings.TrimSpace(getEnv("STATIC_DATA_SEASON", "2025_26")),
		StaticDataDir:                   strings.TrimSpace(getEnv("STATIC_DATA_DIR", "")),
		UptraceEnabled:                  uptraceEnabled,
		UptraceDSN:                      uptraceDSN,
		PyroscopeEnabled:                pyroscopeEnabled,
		PyroscopeServerAddress:          pyroscopeServerAddress,
		PyroscopeAuthToken:              strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:          strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:             pyroscopeUploadRate,
		PprofEnabled:                    pprofEnabled,
		PprofAddr:                       pprofAddr,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

// optionalSchedule maps "off" to an empty schedule, which disables the job.
func optionalSchedule(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "off") {
		return ""
	}
	return value
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

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
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
