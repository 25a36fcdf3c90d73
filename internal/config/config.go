// Package config loads the registry server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

// Config holds the server settings.
type Config struct {
	Addr      string `env:"REGISTRY_ADDR"       envDefault:":8080"`
	AdminAddr string `env:"REGISTRY_ADMIN_ADDR" envDefault:":9090"`

	StorageBackend string `env:"REGISTRY_STORAGE_BACKEND" envDefault:"sqlite"`
	StorageConfig  string `env:"REGISTRY_STORAGE_CONFIG"`

	MaxGroups   uint64 `env:"REGISTRY_MAX_GROUPS"   envDefault:"1000"`
	CreationFee uint64 `env:"REGISTRY_CREATION_FEE" envDefault:"1000"`

	// Authorities and AuthorityExpr together decide who may create groups.
	Authorities       []string `env:"REGISTRY_AUTHORITIES"        envSeparator:","`
	AuthorityExpr     string   `env:"REGISTRY_AUTHORITY_EXPR"`
	AuthorityContract string   `env:"REGISTRY_AUTHORITY_CONTRACT"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	OTLPEndpoint string `env:"OTLP_ENDPOINT"`
	OTLPProtocol string `env:"OTLP_PROTOCOL" envDefault:"http"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.MaxGroups == 0 {
		errs = append(errs, errors.New("REGISTRY_MAX_GROUPS must be positive"))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 bytes"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	switch c.OTLPProtocol {
	case "http", "grpc":
	default:
		errs = append(errs, fmt.Errorf("OTLP_PROTOCOL must be http or grpc, got %q", c.OTLPProtocol))
	}
	if !storage.IsRegistered(c.StorageBackend) {
		errs = append(errs, fmt.Errorf("REGISTRY_STORAGE_BACKEND: %w %q (available: %s)",
			storage.ErrUnknownBackend, c.StorageBackend, strings.Join(storage.ListBackends(), ", ")))
	}
	if _, err := storage.ParseOptions(c.StorageConfig); err != nil {
		errs = append(errs, fmt.Errorf("REGISTRY_STORAGE_CONFIG: %w", err))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// StorageOptions returns the parsed REGISTRY_STORAGE_CONFIG. Validate reports
// parse failures; here they yield no options.
func (c Config) StorageOptions() storage.Options {
	opts, _ := storage.ParseOptions(c.StorageConfig)
	return opts
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
