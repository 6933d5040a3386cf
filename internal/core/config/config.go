package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Seed     SeedConfig     `koanf:"seed"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

// SeedConfig controls optional catalog fixture loading on startup.
type SeedConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}

	if c.Seed.Enabled && strings.TrimSpace(c.Seed.Path) == "" {
		return fmt.Errorf("seed.path is required when seed.enabled is true")
	}

	return nil
}

// Load parses config from file + env and validates it.
// Env vars use the PRICEPULSE_ prefix with __ as the section separator,
// e.g. PRICEPULSE_DATABASE__DSN overrides database.dsn.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 1,
		"server.mode":             "release",
		"database.dsn":            "postgres://localhost:5432/pricepulse?sslmode=disable",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"seed.enabled":            false,
		"seed.path":               "./config/seed.yaml",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("PRICEPULSE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "PRICEPULSE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
