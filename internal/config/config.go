package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client.
type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Session SessionConfig
}

// AppConfig controls the local console server.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// APIConfig points at the directory REST API.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// StorageConfig selects where the credential and preferences are persisted.
type StorageConfig struct {
	Driver   string
	Path     string
	Bucket   string
	TokenKey string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// SessionConfig tunes session behaviour.
type SessionConfig struct {
	LogoutOnUnauthorized bool
}

const (
	StoreDriverBolt   = "bolt"
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "directory-client"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "8090"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		API: APIConfig{
			BaseURL:        strings.TrimRight(getEnv("DIRECTORY_API_URL", "http://localhost:5000"), "/"),
			TimeoutSeconds: getEnvAsInt("DIRECTORY_API_TIMEOUT_SECONDS", 15),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDriverBolt)),
			Path:     getEnv("STORE_PATH", defaultStorePath()),
			Bucket:   getEnv("STORE_BUCKET", "directory"),
			TokenKey: getEnv("SESSION_TOKEN_KEY", "token"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "directory:"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "console")),
		},
		Session: SessionConfig{
			LogoutOnUnauthorized: getEnvAsBool("SESSION_LOGOUT_ON_UNAUTHORIZED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the client cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StoreDriverBolt, StoreDriverRedis, StoreDriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: must be bolt, redis, or memory", c.Storage.Driver)
	}
	if c.Storage.TokenKey == "" {
		return fmt.Errorf("SESSION_TOKEN_KEY must not be empty")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("DIRECTORY_API_URL must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call API timeout.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "directory-client.db"
	}
	return filepath.Join(dir, "directory-client", "session.db")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
