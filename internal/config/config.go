package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported database/sql driver names.
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	DBDriver        string
	DBPoolSize      int
	RedisURL        string // empty disables the list cache
	CacheTTL        int    // seconds
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaPartitions int
	LogLevel        string
	AllowedOrigins  []string
}

// LoadEnvFiles loads .env from the working directory, then its parent.
// Variables already present in the environment are never overridden.
func LoadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

// Load reads .env files and builds the config from the environment.
func Load() (*Config, error) {
	LoadEnvFiles()
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// FromEnv builds the config from the current environment without validating it.
func FromEnv() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", getEnv("PORT", "5000")),
		DatabaseURL:     getEnv("CONNECTION_STR", os.Getenv("DATABASE_URL")),
		DBDriver:        getEnv("DB_DRIVER", DriverPQ),
		DBPoolSize:      getIntEnv("DB_POOL_SIZE", 20),
		RedisURL:        os.Getenv("REDIS_URL"),
		CacheTTL:        getIntEnv("CACHE_TTL_SEC", 60),
		KafkaBrokers:    getSliceEnv("KAFKA_BROKERS", nil),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "entity-changes"),
		KafkaPartitions: getIntEnv("KAFKA_PARTITIONS", 4),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:  getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("CONNECTION_STR (or DATABASE_URL) is required")
	}
	switch c.DBDriver {
	case DriverPQ, DriverPGX:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// EventsEnabled reports whether Kafka brokers were configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func getSliceEnv(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
