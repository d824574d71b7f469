package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Search     SearchConfig
	Embedding  EmbeddingConfig
	Cache      CacheConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes precedence
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	DefaultTopK int
	MaxTopK     int
}

// EmbeddingConfig holds embedding API configuration
type EmbeddingConfig struct {
	APIKey     string
	APIBase    string
	Model      string
	Dimensions int
	ExtraBody  string // JSON string for extra_body (e.g., {"truncate":"NONE"})
	BatchSize  int
	Timeout    int
	Enabled    bool
}

// CacheConfig holds embedding cache configuration
type CacheConfig struct {
	MaxEntries int64
	TTLSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "property_search"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Search: SearchConfig{
			DefaultTopK: getEnvAsInt("SEARCH_DEFAULT_TOP_K", 5),
			MaxTopK:     getEnvAsInt("SEARCH_MAX_TOP_K", 100),
		},
		Embedding: EmbeddingConfig{
			APIKey:     getEnv("EMBEDDING_API_KEY", ""),
			APIBase:    getEnv("EMBEDDING_API_BASE", "https://api.openai.com/v1"),
			Model:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
			ExtraBody:  getEnv("EMBEDDING_EXTRA_BODY", ""),
			BatchSize:  getEnvAsInt("EMBEDDING_BATCH_SIZE", 100),
			Timeout:    getEnvAsInt("EMBEDDING_TIMEOUT", 30),
			Enabled:    getEnv("EMBEDDING_API_KEY", "") != "",
		},
		Cache: CacheConfig{
			MaxEntries: int64(getEnvAsInt("EMBEDDING_CACHE_MAX_ENTRIES", 1000)),
			TTLSeconds: getEnvAsInt("EMBEDDING_CACHE_TTL_SECONDS", 300),
		},
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}
