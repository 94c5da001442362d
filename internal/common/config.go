package common

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig  `envconfig:"DB"`
	Extractor ExtractorConfig `envconfig:"EXTRACTOR"`
	Log       LogConfig       `envconfig:"LOG"`

	UploadDir     string `envconfig:"UPLOAD_DIR" default:"uploads"`
	OutputDir     string `envconfig:"OUTPUT_DIR" default:"outputs"`
	AutoReconcile bool   `envconfig:"AUTO_RECONCILE" default:"true"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":5000"`
	GRPCAddr       string        `envconfig:"GRPC_ADDR" default:":8081"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"3m"`
}

// DatabaseConfig holds database-related configuration.
// An empty URL disables reconciliation.
type DatabaseConfig struct {
	Driver           string        `envconfig:"DRIVER" default:"pgx"` // pgx | sqlite
	URL              string        `envconfig:"URL"`
	MaxConns         int32         `envconfig:"MAX_CONNS" default:"20"`
	MinConns         int32         `envconfig:"MIN_CONNS" default:"5"`
	MaxConnLifetime  time.Duration `envconfig:"MAX_CONN_LIFETIME" default:"30m"`
	MaxConnIdleTime  time.Duration `envconfig:"MAX_CONN_IDLE_TIME" default:"5m"`
	DialTimeout      time.Duration `envconfig:"DIAL_TIMEOUT" default:"3s"`
	StatementTimeout time.Duration `envconfig:"STATEMENT_TIMEOUT" default:"0s"`
}

// ExtractorConfig holds settings for the document-extraction service.
type ExtractorConfig struct {
	BaseURL string        `envconfig:"BASE_URL"`
	APIKey  string        `envconfig:"API_KEY"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"2m"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`  // debug, info, warn, error
	Format string `envconfig:"FORMAT" default:"text"` // json, text
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, NewAppError(CodeConfig, "read environment", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	return &cfg, nil
}

// ReconcileEnabled reports whether a reconciliation store is configured.
func (c *Config) ReconcileEnabled() bool {
	return strings.TrimSpace(c.Database.URL) != ""
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Extractor.BaseURL) == "" {
		return NewAppError(CodeConfig, "EXTRACTOR_BASE_URL is required", ErrInvalidInput)
	}
	switch c.Database.Driver {
	case "pgx", "sqlite":
	default:
		return NewAppError(CodeConfig, "DB_DRIVER must be pgx or sqlite", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError(CodeConfig, "SERVER_HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.OutputDir == "" || c.UploadDir == "" {
		return NewAppError(CodeConfig, "UPLOAD_DIR and OUTPUT_DIR are required", ErrInvalidInput)
	}
	return nil
}
