// Package config loads runtime configuration from an optional YAML file
// with an environment variable overlay.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix every environment override carries, e.g.
// MOCKMCP_DATA_DIR.
const EnvPrefix = "MOCKMCP_"

// Config is the top-level configuration.
type Config struct {
	DataDir   string            `yaml:"data_dir" env:"DATA_DIR"`
	Log       Log               `yaml:"log"`
	Transport Transport         `yaml:"transport"`
	Servers   map[string]Server `yaml:"servers"`
	Tools     Tools             `yaml:"tools"`
}

// Log configures diagnostic output.
type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Transport selects how sessions reach the runtime.
type Transport struct {
	Mode string `yaml:"mode" env:"TRANSPORT_MODE"`
	Addr string `yaml:"addr" env:"ADDR"`
}

// Server holds per-domain overrides.
type Server struct {
	Dataset   string `yaml:"dataset"`
	OnMissing string `yaml:"on_missing"`
}

// Tools holds glob patterns restricting the exposed tool surface.
type Tools struct {
	Allow []string `yaml:"allow"`
	Deny  []string `yaml:"deny"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		DataDir: "./data",
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Transport: Transport{
			Mode: "stdio",
			Addr: ":8080",
		},
		Tools: Tools{
			Allow: []string{"*"},
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty), then the environment overlay.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks every enumerated field, naming the offending one.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	switch c.Transport.Mode {
	case "stdio", "sse":
	default:
		return fmt.Errorf("transport.mode must be stdio or sse, got %q", c.Transport.Mode)
	}

	for name, srv := range c.Servers {
		switch srv.OnMissing {
		case "", "fail", "empty":
		default:
			return fmt.Errorf("servers.%s.on_missing must be fail or empty, got %q", name, srv.OnMissing)
		}
	}

	return nil
}

// SlogLevel translates the configured level into a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds an slog.Logger writing to w per the log settings.
func (c Config) NewLogger(w *os.File) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
