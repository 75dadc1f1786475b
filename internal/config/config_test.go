package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesk/internal/config"
	"productdesk/internal/form"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3002", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, form.FailOpen, cfg.ExistencePolicy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, ":3002", cfg.Port)
	assert.Equal(t, config.DriverMemory, cfg.DatabaseDriver)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PRODUCTDESK_API_URL", "http://api.internal:8080/")
	t.Setenv("PRODUCTDESK_PAGE_SIZE", "20")
	t.Setenv("PRODUCTDESK_EXISTENCE_POLICY", "closed")
	t.Setenv("PRODUCTDESK_REQUEST_TIMEOUT", "3s")
	t.Setenv("PRODUCTDESK_LOG_JSON", "true")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:8080", cfg.APIURL)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, form.FailClosed, cfg.ExistencePolicy)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.LogJSON)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productdesk.yaml")
	content := "api_url: http://files.example:9000\npage_size: 10\ndatabase_driver: sqlite\ndatabase_dsn: products.db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "http://files.example:9000", cfg.APIURL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "products.db", cfg.DatabaseDSN)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"page size not an option", "PRODUCTDESK_PAGE_SIZE", "7"},
		{"unknown policy", "PRODUCTDESK_EXISTENCE_POLICY", "sometimes"},
		{"unknown log level", "PRODUCTDESK_LOG_LEVEL", "loud"},
		{"unknown driver", "PRODUCTDESK_DATABASE_DRIVER", "mongo"},
		{"dsn required", "PRODUCTDESK_DATABASE_DRIVER", "postgres"},
		{"zero timeout", "PRODUCTDESK_REQUEST_TIMEOUT", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := config.Load(config.New(), "")

			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoad_AcceptsEveryLoggerLevelName(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error"} {
		t.Run(level, func(t *testing.T) {
			t.Setenv("PRODUCTDESK_LOG_LEVEL", level)

			cfg, err := config.Load(config.New(), "")

			require.NoError(t, err)
			assert.Equal(t, level, cfg.LogLevel)
		})
	}
}
