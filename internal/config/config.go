package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/streamgoal/match-portal/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	CORSAllowedOrigins            []string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	PprofEnabled                  bool
	PprofAddr                     string
	UptraceEnabled                bool
	UptraceDSN                    string
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
	StreamedBaseURL               string
	StreamedTimeout               time.Duration
	StreamedMaxRetries            int
	StreamedCircuitEnabled        bool
	StreamedCircuitFailureCount   int
	StreamedCircuitOpenTimeout    time.Duration
	StreamedCircuitHalfOpenMaxReq int
	StreamProbeTimeout            time.Duration
	ValidationEnabled             bool
	ValidationValidTTL            time.Duration
	ValidationInvalidTTL          time.Duration
	ValidationBatchSize           int
	ValidationGracePeriod         time.Duration
	ValidationPruneInterval       time.Duration
	LiveWindow                    time.Duration
	PollLiveInterval              time.Duration
	PollTodayInterval             time.Duration
	PollAllInterval               time.Duration
	FetchDedupWindow              time.Duration
	FeedbackMaxLength             int
	LogLevel                      logging.Level
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
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	streamedTimeout, err := time.ParseDuration(getEnv("STREAMED_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_TIMEOUT: %w", err)
	}
	if streamedTimeout <= 0 {
		return Config{}, fmt.Errorf("STREAMED_TIMEOUT must be > 0")
	}
	streamedMaxRetries, err := getEnvAsInt("STREAMED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_MAX_RETRIES: %w", err)
	}
	if streamedMaxRetries < 0 {
		return Config{}, fmt.Errorf("STREAMED_MAX_RETRIES must be >= 0")
	}
	streamedCircuitEnabled, err := strconv.ParseBool(getEnv("STREAMED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_ENABLED: %w", err)
	}
	streamedCircuitFailureCount, err := getEnvAsInt("STREAMED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if streamedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STREAMED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	streamedCircuitOpenTimeout, err := time.ParseDuration(getEnv("STREAMED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if streamedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STREAMED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	streamedCircuitHalfOpenMaxReq, err := getEnvAsInt("STREAMED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if streamedCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("STREAMED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	streamProbeTimeout, err := time.ParseDuration(getEnv("STREAM_PROBE_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAM_PROBE_TIMEOUT: %w", err)
	}
	if streamProbeTimeout <= 0 {
		return Config{}, fmt.Errorf("STREAM_PROBE_TIMEOUT must be > 0")
	}

	validationEnabled, err := strconv.ParseBool(getEnv("VALIDATION_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VALIDATION_ENABLED: %w", err)
	}
	validationValidTTL, err := time.ParseDuration(getEnv("VALIDATION_VALID_TTL", "150s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VALIDATION_VALID_TTL: %w", err)
	}
	if validationValidTTL <= 0 {
		return Config{}, fmt.Errorf("VALIDATION_VALID_TTL must be > 0")
	}
	validationInvalidTTL, err := time.ParseDuration(getEnv("VALIDATION_INVALID_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VALIDATION_INVALID_TTL: %w", err)
	}
	if validationInvalidTTL <= 0 {
		return Config{}, fmt.Errorf("VALIDATION_INVALID_TTL must be > 0")
	}
	validationBatchSize, err := getEnvAsInt("VALIDATION_BATCH_SIZE", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse VALIDATION_BATCH_SIZE: %w", err)
	}
	if validationBatchSize < 1 {
		return Config{}, fmt.Errorf("VALIDATION_BATCH_SIZE must be >= 1")
	}
	validationGracePeriod, err := time.ParseDuration(getEnv("VALIDATION_GRACE_PERIOD", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VALIDATION_GRACE_PERIOD: %w", err)
	}
	if validationGracePeriod < 0 {
		return Config{}, fmt.Errorf("VALIDATION_GRACE_PERIOD must be >= 0")
	}
	validationPruneInterval, err := time.ParseDuration(getEnv("VALIDATION_PRUNE_INTERVAL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VALIDATION_PRUNE_INTERVAL: %w", err)
	}
	if validationPruneInterval <= 0 {
		return Config{}, fmt.Errorf("VALIDATION_PRUNE_INTERVAL must be > 0")
	}

	liveWindow, err := time.ParseDuration(getEnv("LIVE_WINDOW", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_WINDOW: %w", err)
	}
	if liveWindow <= 0 {
		return Config{}, fmt.Errorf("LIVE_WINDOW must be > 0")
	}

	pollLiveInterval, err := time.ParseDuration(getEnv("POLL_LIVE_INTERVAL", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_LIVE_INTERVAL: %w", err)
	}
	if pollLiveInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_LIVE_INTERVAL must be > 0")
	}
	pollTodayInterval, err := time.ParseDuration(getEnv("POLL_TODAY_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_TODAY_INTERVAL: %w", err)
	}
	if pollTodayInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_TODAY_INTERVAL must be > 0")
	}
	pollAllInterval, err := time.ParseDuration(getEnv("POLL_ALL_INTERVAL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_ALL_INTERVAL: %w", err)
	}
	if pollAllInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_ALL_INTERVAL must be > 0")
	}
	fetchDedupWindow, err := time.ParseDuration(getEnv("FETCH_DEDUP_WINDOW", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_DEDUP_WINDOW: %w", err)
	}
	if fetchDedupWindow < 0 {
		return Config{}, fmt.Errorf("FETCH_DEDUP_WINDOW must be >= 0")
	}

	feedbackMaxLength, err := getEnvAsInt("FEEDBACK_MAX_LENGTH", 2000)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEEDBACK_MAX_LENGTH: %w", err)
	}
	if feedbackMaxLength < 1 {
		return Config{}, fmt.Errorf("FEEDBACK_MAX_LENGTH must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("APP_SERVICE_NAME", "match-portal-api"),
		ServiceVersion:                getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                      getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:            splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                   readTimeout,
		WriteTimeout:                  writeTimeout,
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     pprofAddr,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        pyroscopeServerAddress,
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
		StreamedBaseURL:               strings.TrimSpace(getEnv("STREAMED_BASE_URL", "https://streamed.pk")),
		StreamedTimeout:               streamedTimeout,
		StreamedMaxRetries:            streamedMaxRetries,
		StreamedCircuitEnabled:        streamedCircuitEnabled,
		StreamedCircuitFailureCount:   streamedCircuitFailureCount,
		StreamedCircuitOpenTimeout:    streamedCircuitOpenTimeout,
		StreamedCircuitHalfOpenMaxReq: streamedCircuitHalfOpenMaxReq,
		StreamProbeTimeout:            streamProbeTimeout,
		ValidationEnabled:             validationEnabled,
		ValidationValidTTL:            validationValidTTL,
		ValidationInvalidTTL:          validationInvalidTTL,
		ValidationBatchSize:           validationBatchSize,
		ValidationGracePeriod:         validationGracePeriod,
		ValidationPruneInterval:       validationPruneInterval,
		LiveWindow:                    liveWindow,
		PollLiveInterval:              pollLiveInterval,
		PollTodayInterval:             pollTodayInterval,
		PollAllInterval:               pollAllInterval,
		FetchDedupWindow:              fetchDedupWindow,
		FeedbackMaxLength:             feedbackMaxLength,
		LogLevel:                      parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.StreamedBaseURL == "" {
		return Config{}, fmt.Errorf("STREAMED_BASE_URL cannot be empty")
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
