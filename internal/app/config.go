package app

import (
	"fmt"
	"strings"

	"github.com/vk/netgraph/internal/serializer"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat   string
	LogLevel    string
	MetricsPort int

	// Format is the encoding of documents the app writes. Empty means infer
	// it from Output, or JSON when writing to the output stream.
	Format string
	// Output is the path documents are written to. Empty means the app's
	// output stream.
	Output string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format '%s': must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level '%s': must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return nil, fmt.Errorf("invalid metrics-port %d", cfg.MetricsPort)
	}
	if cfg.Format != "" {
		if _, err := serializer.ParseFormat(cfg.Format); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// documentFormat resolves the format documents are written in.
func (c *Config) documentFormat() (serializer.Format, error) {
	if c.Format != "" {
		return serializer.ParseFormat(c.Format)
	}
	if c.Output != "" {
		return serializer.FormatForPath(c.Output)
	}
	return serializer.FormatJSON, nil
}
