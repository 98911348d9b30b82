package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration
type Config struct {
	API       APIConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	OTEL      OTELConfig
	Log       LogConfig
	MockAPI   MockAPIConfig
}

// APIConfig holds the remote REST API settings
type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
}

// StorageConfig selects the local store backing the browser-storage mirror
type StorageConfig struct {
	Backend  string // memory, file or redis
	FilePath string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	Enabled bool
	URL     string
	APIKey  string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Env string
}

// MockAPIConfig holds the development API server configuration
type MockAPIConfig struct {
	Host      string
	Port      int
	JWTSecret string
}

// Load loads configuration from environment variables, after an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:       getEnv("WECONNECT_API_BASE_URL", "http://localhost:8080/api"),
			Timeout:       getEnvAsDuration("WECONNECT_API_TIMEOUT", 10*time.Second),
			RetryAttempts: getEnvAsInt("WECONNECT_API_RETRY_ATTEMPTS", 1),
		},
		Storage: StorageConfig{
			Backend:  getEnv("WECONNECT_STORAGE", "file"),
			FilePath: getEnv("WECONNECT_STORAGE_FILE", defaultStoragePath()),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			Enabled: getEnvAsBool("TYPESENSE_ENABLED", false),
			URL:     getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:  getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "weconnect-client"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Log: LogConfig{
			Env: getEnv("APP_ENV", "development"),
		},
		MockAPI: MockAPIConfig{
			Host:      getEnv("MOCK_API_HOST", "0.0.0.0"),
			Port:      getEnvAsInt("MOCK_API_PORT", 8080),
			JWTSecret: getEnv("MOCK_API_JWT_SECRET", "weconnect-dev-secret"),
		},
	}

	switch cfg.Storage.Backend {
	case "memory", "file", "redis":
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.API.RetryAttempts < 1 {
		cfg.API.RetryAttempts = 1
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the listen address of the development API server
func (c *MockAPIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".weconnect-storage.json"
	}
	return dir + string(os.PathSeparator) + "weconnect" + string(os.PathSeparator) + "storage.json"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
