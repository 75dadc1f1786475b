// Package config loads productdesk settings from defaults, an optional config
// file and PRODUCTDESK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"productdesk/internal/form"
	"productdesk/internal/list"
	"productdesk/internal/logging"
)

// EnvPrefix prefixes every environment variable, e.g. PRODUCTDESK_API_URL.
const EnvPrefix = "PRODUCTDESK"

// Keys understood by Load.
const (
	KeyAPIURL          = "api_url"
	KeyRequestTimeout  = "request_timeout"
	KeyPageSize        = "page_size"
	KeyExistencePolicy = "existence_policy"
	KeyLogLevel        = "log_level"
	KeyLogJSON         = "log_json"
	KeyPort            = "port"
	KeyDatabaseDriver  = "database_driver"
	KeyDatabaseDSN     = "database_dsn"
	KeyRabbitMQURL     = "rabbitmq_url"
)

// Database drivers for the dev server.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the resolved configuration.
type Config struct {
	APIURL          string
	RequestTimeout  time.Duration
	PageSize        int
	ExistencePolicy form.ExistencePolicy
	LogLevel        string
	LogJSON         bool

	Port           string
	DatabaseDriver string
	DatabaseDSN    string
	// RabbitMQURL enables product events when set.
	RabbitMQURL string
}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, "http://localhost:3002")
	v.SetDefault(KeyRequestTimeout, 10*time.Second)
	v.SetDefault(KeyPageSize, list.DefaultPageSize)
	v.SetDefault(KeyExistencePolicy, form.FailOpen.String())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyPort, ":3002")
	v.SetDefault(KeyDatabaseDriver, DriverMemory)
	v.SetDefault(KeyDatabaseDSN, "")
	v.SetDefault(KeyRabbitMQURL, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile when given and decodes v into a Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	policy, err := form.ParseExistencePolicy(v.GetString(KeyExistencePolicy))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, KeyExistencePolicy, err)
	}

	cfg := &Config{
		APIURL:          strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		RequestTimeout:  v.GetDuration(KeyRequestTimeout),
		PageSize:        v.GetInt(KeyPageSize),
		ExistencePolicy: policy,
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		LogJSON:         v.GetBool(KeyLogJSON),
		Port:            v.GetString(KeyPort),
		DatabaseDriver:  strings.ToLower(v.GetString(KeyDatabaseDriver)),
		DatabaseDSN:     v.GetString(KeyDatabaseDSN),
		RabbitMQURL:     v.GetString(KeyRabbitMQURL),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, KeyAPIURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyRequestTimeout)
	}
	if !list.ValidPageSize(c.PageSize) {
		return fmt.Errorf("%w: %s must be one of %v, got %d", ErrInvalidConfig, KeyPageSize, list.PageSizeOptions, c.PageSize)
	}
	if _, ok := logging.LookupLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, KeyLogLevel, c.LogLevel)
	}
	switch c.DatabaseDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%w: %s is required for driver %s", ErrInvalidConfig, KeyDatabaseDSN, c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, KeyDatabaseDriver, c.DatabaseDriver)
	}
	return nil
}
