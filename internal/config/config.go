package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

type Configuration struct {
	Server   ServerConfig   `json:"server"`
	Security SecurityConfig `json:"security"`
	Logging  LoggingConfig  `json:"logging"`
	Registry RegistryConfig `json:"registry"`
	Database DatabaseConfig `json:"database"`
}

type ServerConfig struct {
	Port         string        `json:"port" env:"PORT"`
	BaseURL      string        `json:"base_url" env:"BASE_URL"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

type SecurityConfig struct {
	SessionTimeout    time.Duration `json:"session_timeout"`
	PasswordMinLength int           `json:"password_min_length"`
}

type LoggingConfig struct {
	Level  string `json:"level" env:"LOG_LEVEL"`
	Format string `json:"format"`
}

// RegistryConfig describes the external ledger contract revisions are
// anchored to. Address is the single process-wide value signatures are
// checked against.
type RegistryConfig struct {
	Address       string        `json:"address" env:"REGISTRY_ADDRESS"`
	SchemaVersion string        `json:"schema_version"`
	HashableKinds []string      `json:"hashable_kinds" envSeparator:","`
	ImageCacheTTL time.Duration `json:"image_cache_ttl"`
}

type DatabaseConfig struct {
	Host            string `json:"host" env:"DB_HOST"`
	Port            string `json:"port" env:"DB_PORT"`
	Username        string `json:"username" env:"DB_USER"`
	Password        string `json:"password" env:"DB_PASSWORD"`
	Name            string `json:"name" env:"DB_NAME"`
	SSLMode         string `json:"ssl_mode"`
	MaxIdleConns    int    `json:"max_idle_conns"`
	MaxOpenConns    int    `json:"max_open_conns"`
	ConnMaxLifetime int    `json:"conn_max_lifetime"`
}

// Load reads the JSON configuration file, fills in defaults and applies
// environment variable overrides. A missing file is not an error; defaults
// plus the environment are used instead.
func Load(filePath string) (*Configuration, error) {
	cfg := Default()

	if filePath != "" {
		file, err := os.Open(filePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to open config file: %w", err)
			}
		} else {
			defer file.Close()
			if err := json.NewDecoder(file).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	applyFallbacks(cfg)
	return cfg, nil
}

func applyFallbacks(cfg *Configuration) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Registry.SchemaVersion == "" {
		cfg.Registry.SchemaVersion = "1.0.0"
	}
	if len(cfg.Registry.HashableKinds) == 0 {
		cfg.Registry.HashableKinds = []string{"post"}
	}
	if cfg.Registry.ImageCacheTTL == 0 {
		cfg.Registry.ImageCacheTTL = time.Hour
	}
	if cfg.Security.SessionTimeout == 0 {
		cfg.Security.SessionTimeout = 24 * time.Hour
	}
	if cfg.Security.PasswordMinLength == 0 {
		cfg.Security.PasswordMinLength = 8
	}
}

func Default() *Configuration {
	return &Configuration{
		Server: ServerConfig{
			Port:         "8000",
			BaseURL:      "http://localhost:8000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Security: SecurityConfig{
			SessionTimeout:    24 * time.Hour,
			PasswordMinLength: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Registry: RegistryConfig{
			SchemaVersion: "1.0.0",
			HashableKinds: []string{"post"},
			ImageCacheTTL: time.Hour,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			Username:        "postgres",
			Password:        "password",
			Name:            "newsroom",
			SSLMode:         "disable",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: 300,
		},
	}
}

func LogConfig(cfg *Configuration, logger *zap.Logger) {
	logger.Info("Application configuration",
		zap.String("port", cfg.Server.Port),
		zap.String("base_url", cfg.Server.BaseURL),
		zap.Duration("read_timeout", cfg.Server.ReadTimeout),
		zap.Duration("write_timeout", cfg.Server.WriteTimeout),
		zap.String("registry_address", cfg.Registry.Address),
		zap.String("schema_version", cfg.Registry.SchemaVersion),
		zap.Strings("hashable_kinds", cfg.Registry.HashableKinds),
		zap.String("database_host", cfg.Database.Host),
		zap.String("database_name", cfg.Database.Name),
	)
}
