// Package config loads runtime settings from an optional YAML file and the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/ghodss/yaml"

	"github.com/insightdelivered/cardstatement/internal/parser"
)

// FileEnvVar names the environment variable holding an optional YAML config path.
const FileEnvVar = "CARDSTATEMENT_CONFIG"

// Config holds the settings shared by the CLI and the HTTP server.
type Config struct {
	Port         int    `json:"port" env:"PORT"`
	LogLevel     string `json:"logLevel" env:"LOG_LEVEL"`
	StrictParse  bool   `json:"strictParse" env:"STRICT_PARSE"`
	DateDetector string `json:"dateDetector" env:"DATE_DETECTOR"`
	MaxUploadMB  int    `json:"maxUploadMB" env:"MAX_UPLOAD_MB"`
	PDFPassword  string `json:"pdfPassword" env:"PDF_PASSWORD"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:         8080,
		LogLevel:     "info",
		DateDetector: "strict",
		MaxUploadMB:  32,
	}
}

// Load reads the file named by CARDSTATEMENT_CONFIG, if any, then applies env overrides.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(FileEnvVar))
}

// LoadFile is Load with an explicit config path. An empty path skips the file.
func LoadFile(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		raw, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", filename, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size %dMB", c.MaxUploadMB)
	}
	if _, err := parser.DetectorByName(c.DateDetector); err != nil {
		return err
	}
	return nil
}

// ParserOptions translates the settings into statement parser options.
func (c *Config) ParserOptions() []parser.Option {
	dates, err := parser.DetectorByName(c.DateDetector)
	if err != nil {
		dates = parser.StrictDate
	}
	return []parser.Option{
		parser.WithDateDetector(dates),
		parser.WithStrict(c.StrictParse),
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
