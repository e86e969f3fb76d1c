package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Transport TransportConfig `yaml:"transport"`
	Engine    EngineConfig    `yaml:"engine"`
	Share     ShareConfig     `yaml:"share"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http".
	Mode string `yaml:"mode"`
}

type EngineConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key"`
	// AttemptTimeoutSeconds bounds each generation attempt.
	AttemptTimeoutSeconds int `yaml:"attempt_timeout_seconds"`
	// MaxAttempts is the total generation attempts per turn, including the
	// first.
	MaxAttempts uint `yaml:"max_attempts"`
}

type ShareConfig struct {
	// BaseURL prefixes share links returned by publish_game, e.g.
	// "https://play.example.com".
	BaseURL string `yaml:"base_url"`
}

// AttemptTimeout returns the per-attempt generation timeout.
func (e EngineConfig) AttemptTimeout() time.Duration {
	return time.Duration(e.AttemptTimeoutSeconds) * time.Second
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "playforge.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Engine: EngineConfig{
			Model:                 "gpt-4o-mini",
			AttemptTimeoutSeconds: 60,
			MaxAttempts:           3,
		},
	}

	if path := os.Getenv("PLAYFORGE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("PLAYFORGE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PLAYFORGE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PLAYFORGE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("PLAYFORGE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PLAYFORGE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("PLAYFORGE_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if authStr := os.Getenv("PLAYFORGE_AUTH_ENABLED"); authStr != "" {
		enabled, err := strconv.ParseBool(authStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PLAYFORGE_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if model := os.Getenv("PLAYFORGE_ENGINE_MODEL"); model != "" {
		cfg.Engine.Model = model
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Engine.APIKey == "" {
		cfg.Engine.APIKey = key
	}
	if key := os.Getenv("PLAYFORGE_ENGINE_API_KEY"); key != "" {
		cfg.Engine.APIKey = key
	}
	if baseURL := os.Getenv("PLAYFORGE_SHARE_BASE_URL"); baseURL != "" {
		cfg.Share.BaseURL = baseURL
	}

	if cfg.Transport.Mode != "stdio" && cfg.Transport.Mode != "http" {
		return Config{}, fmt.Errorf("invalid transport mode %q", cfg.Transport.Mode)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
