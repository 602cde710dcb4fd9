package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers understood by the server.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Storage  StorageConfig
	Database DatabaseConfig
	Server   ServerConfig
	CORS     CORSConfig
	Logging  LoggingConfig

	// SeedDemoData fills an empty catalog with a few records at startup.
	SeedDemoData bool
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver string // postgres, memory
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string // Full PostgreSQL URL
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	File   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Storage.Driver = strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", DriverPostgres))

	if err := cfg.loadDatabase(); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}

	cfg.loadCORS()
	cfg.loadLogging()

	seed, err := getBool("SEED_DEMO_DATA", false)
	if err != nil {
		return nil, err
	}
	cfg.SeedDemoData = seed

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadDatabase() error {
	// Try to load DATABASE_URL first
	c.Database.URL = os.Getenv("DATABASE_URL")

	// If not present, construct from individual parameters
	if c.Database.URL == "" {
		c.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
		c.Database.User = os.Getenv("DB_USER")
		c.Database.Password = os.Getenv("DB_PASSWORD")
		c.Database.Name = os.Getenv("DB_NAME")
		c.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

		port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
		if err != nil {
			return fmt.Errorf("invalid DB_PORT: %w", err)
		}
		c.Database.Port = port

		if c.Database.Host != "" && c.Database.User != "" && c.Database.Name != "" {
			c.Database.URL = fmt.Sprintf(
				"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
				c.Database.User,
				c.Database.Password,
				c.Database.Host,
				c.Database.Port,
				c.Database.Name,
				c.Database.SSLMode,
			)
		}
	}

	var err error
	if c.Database.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return err
	}
	if c.Database.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return err
	}
	if c.Database.ConnMaxLifetime, err = getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return err
	}
	if c.Database.AutoMigrate, err = getBool("DB_AUTO_MIGRATE", true); err != nil {
		return err
	}

	return nil
}

func (c *Config) loadServer() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = getEnvOrDefault("HOST", "0.0.0.0")

	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 15 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	if c.Server.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	return nil
}

func (c *Config) loadCORS() {
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv != "" {
		var origins []string
		for _, origin := range strings.Split(originsEnv, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		c.CORS.AllowedOrigins = origins
	} else {
		// Default for local development
		c.CORS.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
}

func (c *Config) loadLogging() {
	c.Logging.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	c.Logging.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))
	c.Logging.File = os.Getenv("LOG_FILE")
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			errors = append(errors, "DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME)")
		}
	case DriverMemory:
	default:
		errors = append(errors, "STORAGE_DRIVER must be one of: postgres, memory")
	}

	if c.Database.MaxOpenConns < 1 {
		errors = append(errors, "DB_MAX_OPEN_CONNS must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		errors = append(errors, "DB_MAX_IDLE_CONNS must not be negative")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
