package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_DRIVER", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_SSLMODE", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
		"DB_CONN_MAX_LIFETIME", "DB_AUTO_MIGRATE", "PORT", "HOST", "SHUTDOWN_TIMEOUT",
		"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "SEED_DEMO_DATA",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://catalog@localhost/catalog")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://catalog@localhost/catalog", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.SeedDemoData)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadBuildsURLFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "catalog")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "music")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://catalog:secret@db:5432/music?sslmode=disable", cfg.Database.URL)
}

func TestLoadMemoryDriverNeedsNoDatabase(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing database",
			env:     map[string]string{},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"STORAGE_DRIVER": "mongo"},
			wantErr: "STORAGE_DRIVER must be one of",
		},
		{
			name:    "bad port",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "PORT": "70000"},
			wantErr: "PORT must be between 1 and 65535",
		},
		{
			name:    "bad log level",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "LOG_LEVEL": "chatty"},
			wantErr: "LOG_LEVEL must be one of",
		},
		{
			name:    "unparsable bool",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "DB_AUTO_MIGRATE": "sometimes"},
			wantErr: "invalid DB_AUTO_MIGRATE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
