// Package config loads the run configuration of the complexmul harness.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	complexmul "github.com/LynnColeArt/guda-complexmul"
)

// Config holds the harness configuration.
type Config struct {
	// Number of complex values per input sequence
	Elements int `yaml:"elements"`

	// Substring of the device name the ranking policy prefers
	PreferredVendor string `yaml:"preferred_vendor"`

	// Scalar kernel runs averaged into the reported baseline time
	ScalarRepetitions int `yaml:"scalar_repetitions"`

	// Leading indices printed as samples; the last index is always printed
	SampleCount int `yaml:"sample_count"`

	// Device tuning
	Device DeviceConfig `yaml:"device"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DeviceConfig tunes the host platform.
type DeviceConfig struct {
	Workers   int `yaml:"workers"`    // 0 = one per CPU
	BlockSize int `yaml:"block_size"` // CPU executor block size
	ChunkSize int `yaml:"chunk_size"` // vector executor chunk size
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the configuration of the reference run.
func DefaultConfig() *Config {
	return &Config{
		Elements:          1_000_000,
		PreferredVendor:   complexmul.DefaultPreferredVendor,
		ScalarRepetitions: 100,
		SampleCount:       5,
		Device: DeviceConfig{
			BlockSize: complexmul.DefaultBlockSize,
			ChunkSize: complexmul.DefaultChunkSize,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the harness cannot run with.
func (c *Config) Validate() error {
	if c.Elements <= 0 {
		return fmt.Errorf("elements must be positive, got %d", c.Elements)
	}
	if c.ScalarRepetitions <= 0 {
		return fmt.Errorf("scalar_repetitions must be positive, got %d", c.ScalarRepetitions)
	}
	if c.SampleCount < 0 {
		return fmt.Errorf("sample_count must not be negative, got %d", c.SampleCount)
	}
	if c.Device.Workers < 0 || c.Device.BlockSize < 0 || c.Device.ChunkSize < 0 {
		return fmt.Errorf("device settings must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level %q: %w", c.Logging.Level, err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}
	return nil
}

// HostOptions converts the device settings to host platform options.
func (c *Config) HostOptions() []complexmul.HostOption {
	var opts []complexmul.HostOption
	if c.Device.Workers > 0 {
		opts = append(opts, complexmul.WithWorkers(c.Device.Workers))
	}
	if c.Device.BlockSize > 0 {
		opts = append(opts, complexmul.WithBlockSize(c.Device.BlockSize))
	}
	if c.Device.ChunkSize > 0 {
		opts = append(opts, complexmul.WithChunkSize(c.Device.ChunkSize))
	}
	return opts
}

// NewLogger builds a zap logger from the logging settings.
func (c *Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Logging.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging level %q: %w", c.Logging.Level, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
