package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all engine and host configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	Transport TransportConfig
}

// ServerConfig holds document host HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" toml:"port" default:"8600"`
	Host string `envconfig:"HOST" toml:"host" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level" default:"info"`
	Development bool   `envconfig:"LOG_DEV" toml:"development" default:"false"`
}

// TransportConfig holds the action network transport configuration.
type TransportConfig struct {
	TimeoutSeconds    int     `envconfig:"TRANSPORT_TIMEOUT" toml:"timeout_seconds" default:"30"`
	MaxRetries        int     `envconfig:"TRANSPORT_RETRIES" toml:"max_retries" default:"3"`
	RequestsPerSecond float64 `envconfig:"TRANSPORT_RPS" toml:"requests_per_second" default:"0"`
}

// Load reads configuration from the environment, then overlays the TOML
// config file named by LUMEN_CONFIG if one is set. Keys present in the
// file override the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if path := os.Getenv("LUMEN_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration or falls back to defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8600", Host: "0.0.0.0"},
		Logging: LogConfig{Level: "info"},
		Transport: TransportConfig{
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
	}
}
