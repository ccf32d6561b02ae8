package config

import (
	"fmt"
	"os"
	"time"

	"socialgraph/backend/pkg/errors"

	"github.com/joho/godotenv"
)

// Snapshot backends understood by the server and the seeder
const (
	BackendNone     = "none"
	BackendFile     = "file"
	BackendNeo4j    = "neo4j"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// Snapshot persistence
	SnapshotBackend  string
	SnapshotPath     string        // file backend: path of the JSON snapshot
	SnapshotInterval time.Duration // autosave period, 0 disables autosave

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Postgres
	PostgresURL string

	// Seeder
	SeedAccounts int
	SeedPosts    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", ""),
		SnapshotBackend:  getEnv("SNAPSHOT_BACKEND", BackendFile),
		SnapshotPath:     getEnv("SNAPSHOT_PATH", "socialgraph.json"),
		SnapshotInterval: time.Duration(getEnvInt("SNAPSHOT_INTERVAL_SECONDS", 0)) * time.Second,
		Neo4jURI:         getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:        getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:    getEnv("NEO4J_PASSWORD", ""),
		PostgresURL:      getEnv("POSTGRES_URL", ""),
		SeedAccounts:     getEnvInt("SEED_ACCOUNTS", 20),
		SeedPosts:        getEnvInt("SEED_POSTS", 50),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	switch c.SnapshotBackend {
	case BackendNone:
	case BackendFile:
		if c.SnapshotPath == "" {
			return errors.NewConfigMissingRequired("SNAPSHOT_PATH")
		}
	case BackendNeo4j:
		if c.Neo4jURI == "" {
			return errors.NewConfigMissingRequired("NEO4J_URI")
		}
		if c.Neo4jUser == "" {
			return errors.NewConfigMissingRequired("NEO4J_USER")
		}
		if c.Neo4jPassword == "" {
			return errors.NewConfigMissingRequired("NEO4J_PASSWORD")
		}
	case BackendPostgres:
		if c.PostgresURL == "" {
			return errors.NewConfigMissingRequired("POSTGRES_URL")
		}
	default:
		return errors.NewConfigValidationFailed("SNAPSHOT_BACKEND", fmt.Sprintf("unknown backend %q", c.SnapshotBackend))
	}
	if c.SnapshotInterval < 0 {
		return errors.NewConfigValidationFailed("SNAPSHOT_INTERVAL_SECONDS", "cannot be negative")
	}
	if c.SeedAccounts < 0 || c.SeedPosts < 0 {
		return errors.NewConfigValidationFailed("SEED_ACCOUNTS/SEED_POSTS", "cannot be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
