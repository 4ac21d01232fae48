package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is used when no secret is configured. It exists so a dev
// instance starts without setup; production deployments must override it.
const DefaultJWTSecret = "fallback-secret-key-change-this"

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Auth   AuthConfig   `yaml:"auth"`
	Sweep  SweepConfig  `yaml:"sweep"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"HELPQUEUE_SERVER_HOST"`
	Port int    `yaml:"port" env:"HELPQUEUE_SERVER_PORT"`
}

type DBConfig struct {
	Path string `yaml:"path" env:"HELPQUEUE_DB_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"HELPQUEUE_LOG_LEVEL"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"HELPQUEUE_JWT_SECRET"`
}

// SweepConfig controls the background expiry of unclaimed tickets. An
// interval of zero disables the sweep.
type SweepConfig struct {
	Interval time.Duration `yaml:"interval" env:"HELPQUEUE_SWEEP_INTERVAL"`
	MaxAge   time.Duration `yaml:"max_age" env:"HELPQUEUE_SWEEP_MAX_AGE"`
}

// Load reads configuration from an optional YAML file and environment
// variables. Env values win over the file, the file wins over defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "helpqueue.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			JWTSecret: DefaultJWTSecret,
		},
		Sweep: SweepConfig{
			Interval: 0,
			MaxAge:   8 * time.Hour,
		},
	}

	if path := os.Getenv("HELPQUEUE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}

	if cfg.Sweep.Interval > 0 && cfg.Sweep.MaxAge <= 0 {
		return Config{}, fmt.Errorf("sweep max_age must be positive when the sweep is enabled")
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
