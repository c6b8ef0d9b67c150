// Package config handles configuration loading and validation for the
// frame-decoding server. Adapted from the teacher's pkg/config/config.go
// load-path/validate/default shape, rebound to this domain's config
// tree.
package config

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the YAML-bindable configuration root.
type Config struct {
	TCP     TCPConfig     `yaml:"tcp"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// TCPConfig configures the frame-decoding listener.
type TCPConfig struct {
	Port              int    `yaml:"port" validate:"gte=0,lte=65535"`
	Framing           string `yaml:"framing" validate:"oneof=auto raw length-field json-object line modbus-rtu"`
	MaxFrameLength    int    `yaml:"max-frame-length" validate:"gt=0"`
	ReaderIdleSeconds int    `yaml:"reader-idle-seconds" validate:"gte=0"`
	RespondEnabled    bool   `yaml:"respond-enabled"`
	DetectWindow      int    `yaml:"detect-window" validate:"gte=0"`
}

// LoggingConfig configures pkg/logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	Output string `yaml:"output" validate:"oneof=stdout file"`
	File   string `yaml:"file"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Endpoint string `yaml:"endpoint"`
}

// Default config file locations, searched in order when no explicit
// path is given.
var configPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./protoframe.yaml",
	"./protoframe.yml",
	"/etc/protoframe/config.yaml",
}

// Load loads configuration from path when one is given, returning an
// error if that file cannot be read or validated. With an empty path it
// loads the first file found in the default search list, or returns
// DefaultConfig when none exists.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}

	for _, p := range configPaths {
		if p[0] == '~' {
			home, err := os.UserHomeDir()
			if err == nil {
				p = filepath.Join(home, p[2:])
			}
		}
		if _, err := os.Stat(p); err == nil {
			return loadFile(p)
		}
	}

	return DefaultConfig(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the struct-tag constraints on cfg.
func Validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the configuration used when no file is found,
// matching spec.md §3's stated defaults.
func DefaultConfig() *Config {
	return &Config{
		TCP: TCPConfig{
			Port:              9000,
			Framing:           "auto",
			MaxFrameLength:    1 << 20, // 1 MiB
			ReaderIdleSeconds: 60,
			RespondEnabled:    true,
			DetectWindow:      64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Address:  ":9100",
			Endpoint: "/metrics",
		},
	}
}
