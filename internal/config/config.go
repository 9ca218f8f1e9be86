package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnv               = "development"
	defaultHTTPHost          = "0.0.0.0"
	defaultHTTPPort          = 8080
	defaultRedisAddr         = "localhost:6379"
	defaultRedisDB           = 0
	defaultCacheTTLSeconds   = 30
	defaultTerminalMode      = "mock"
	defaultMaxRetries        = 3
	defaultRetryDelaySeconds = 1
	defaultCheckIntervalSecs = 30
	defaultSymbolTTLSeconds  = 300
	defaultRiskFraction      = 0.02
	defaultDeviationPoints   = 10
	defaultMagic             = 20240001
	defaultOrderComment      = "mt5bridge"
)

// Config keeps the runtime configuration for the service.
type Config struct {
	Env      string
	HTTP     HTTPConfig
	Terminal TerminalConfig
	Trading  TradingConfig
	Redis    RedisConfig
	Cache    CacheConfig
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host      string
	Port      int
	AuthToken string
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// TerminalConfig holds terminal bridge connection parameters. Mode selects
// the backend: "mock" runs the in-memory terminal.
type TerminalConfig struct {
	Mode          string
	Path          string
	Login         int64
	Password      string
	Server        string
	MaxRetries    int
	RetryDelay    time.Duration
	CheckInterval time.Duration
}

// TradingConfig holds order defaults and risk limits.
type TradingConfig struct {
	RiskFraction   float64
	Deviation      int
	Magic          int64
	Comment        string
	SymbolCacheTTL time.Duration
	// FillingMode overrides the per-symbol heuristic when >= 0.
	FillingMode int
}

// RedisConfig stores Redis connection parameters.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig stores HTTP response cache behavior.
type CacheConfig struct {
	TTLSeconds int
}

// Load builds Config from environment variables. A .env file in the working
// directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	host := getString("HTTP_HOST", defaultHTTPHost)
	port, err := getInt("HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return nil, fmt.Errorf("parse HTTP_PORT: %w", err)
	}

	login, err := getInt64("MT5_LOGIN", 0)
	if err != nil {
		return nil, fmt.Errorf("parse MT5_LOGIN: %w", err)
	}
	maxRetries, err := getInt("MT5_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("parse MT5_MAX_RETRIES: %w", err)
	}
	retryDelay, err := getInt("MT5_RETRY_DELAY_SECONDS", defaultRetryDelaySeconds)
	if err != nil {
		return nil, fmt.Errorf("parse MT5_RETRY_DELAY_SECONDS: %w", err)
	}
	checkInterval, err := getInt("MT5_CHECK_INTERVAL_SECONDS", defaultCheckIntervalSecs)
	if err != nil {
		return nil, fmt.Errorf("parse MT5_CHECK_INTERVAL_SECONDS: %w", err)
	}

	riskFraction, err := getFloat("RISK_FRACTION", defaultRiskFraction)
	if err != nil {
		return nil, fmt.Errorf("parse RISK_FRACTION: %w", err)
	}
	deviation, err := getInt("ORDER_DEVIATION_POINTS", defaultDeviationPoints)
	if err != nil {
		return nil, fmt.Errorf("parse ORDER_DEVIATION_POINTS: %w", err)
	}
	magic, err := getInt64("ORDER_MAGIC", defaultMagic)
	if err != nil {
		return nil, fmt.Errorf("parse ORDER_MAGIC: %w", err)
	}
	fillingMode, err := getInt("ORDER_FILLING_MODE", -1)
	if err != nil {
		return nil, fmt.Errorf("parse ORDER_FILLING_MODE: %w", err)
	}
	symbolTTL, err := getInt("SYMBOL_CACHE_TTL_SECONDS", defaultSymbolTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("parse SYMBOL_CACHE_TTL_SECONDS: %w", err)
	}

	redisDB, err := getInt("REDIS_DB", defaultRedisDB)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	cacheTTL, err := getInt("CACHE_TTL_SECONDS", defaultCacheTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_TTL_SECONDS: %w", err)
	}

	return &Config{
		Env: getString("APP_ENV", defaultEnv),
		HTTP: HTTPConfig{
			Host:      host,
			Port:      port,
			AuthToken: os.Getenv("API_AUTH_TOKEN"),
		},
		Terminal: TerminalConfig{
			Mode:          getString("MT5_MODE", defaultTerminalMode),
			Path:          os.Getenv("MT5_TERMINAL_PATH"),
			Login:         login,
			Password:      os.Getenv("MT5_PASSWORD"),
			Server:        os.Getenv("MT5_SERVER"),
			MaxRetries:    maxRetries,
			RetryDelay:    time.Duration(retryDelay) * time.Second,
			CheckInterval: time.Duration(checkInterval) * time.Second,
		},
		Trading: TradingConfig{
			RiskFraction:   riskFraction,
			Deviation:      deviation,
			Magic:          magic,
			Comment:        getString("ORDER_COMMENT", defaultOrderComment),
			SymbolCacheTTL: time.Duration(symbolTTL) * time.Second,
			FillingMode:    fillingMode,
		},
		Redis: RedisConfig{
			Addr:     getString("REDIS_ADDR", defaultRedisAddr),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTLSeconds: cacheTTL,
		},
	}, nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int64: %w", key, value, err)
	}
	return parsed, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to float: %w", key, value, err)
	}
	return parsed, nil
}
