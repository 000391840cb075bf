// Package config holds the application configuration and its loading
// logic. Values come from (highest to lowest precedence) command-line
// flags, CODESWITCH_* environment variables, a codeswitch.yaml file, and
// built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/codeboard-app/codeswitch/internal/cache"
	"github.com/codeboard-app/codeswitch/internal/engine"
)

// Config represents the complete configuration for the codeswitch
// application. It covers all commands (analyze, languages, serve) and
// supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Detection engine configuration
	Engine EngineConfig `mapstructure:"engine" yaml:"engine" json:"engine"`

	// Result cache configuration
	Cache CacheConfig `mapstructure:"cache" yaml:"cache" json:"cache"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// EngineConfig contains detection engine settings.
type EngineConfig struct {
	// RemoteEndpoint is the URL of an external detection service. Empty
	// disables the remote tier.
	RemoteEndpoint string `mapstructure:"remote_endpoint" yaml:"remote_endpoint" json:"remote_endpoint"`
	// TimeoutSec bounds each individual engine attempt.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	// LowAccuracyMode trades detection accuracy for memory.
	LowAccuracyMode bool `mapstructure:"low_accuracy_mode" yaml:"low_accuracy_mode" json:"low_accuracy_mode"`
	// DefaultMode is the performance mode used when a request does not
	// specify one.
	DefaultMode string `mapstructure:"default_mode" yaml:"default_mode" json:"default_mode"`
}

// CacheConfig contains result cache settings.
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	MaxSize    int  `mapstructure:"max_size" yaml:"max_size" json:"max_size"`
	TTLMinutes int  `mapstructure:"ttl_minutes" yaml:"ttl_minutes" json:"ttl_minutes"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format              string `mapstructure:"format" yaml:"format" json:"format"`
	File                string `mapstructure:"file" yaml:"file" json:"file"`
	ConfidencePrecision int    `mapstructure:"confidence_precision" yaml:"confidence_precision" json:"confidence_precision"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxTextLen      int    `mapstructure:"max_text_len" yaml:"max_text_len" json:"max_text_len"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Engine: EngineConfig{
			TimeoutSec:      int(engine.DefaultTimeout / time.Second),
			LowAccuracyMode: false,
			DefaultMode:     engine.ModeBalanced,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxSize:    cache.DefaultMaxSize,
			TTLMinutes: int(cache.DefaultTTL / time.Minute),
		},
		Output: OutputConfig{
			Format:              "text",
			ConfidencePrecision: 2,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxTextLen:      100000,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "yaml"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	validModes := []string{engine.ModeFast, engine.ModeBalanced, engine.ModeAccurate}
	if c.Engine.DefaultMode != "" && !contains(validModes, c.Engine.DefaultMode) {
		return fmt.Errorf("invalid default mode: %s (must be one of: %s)", c.Engine.DefaultMode, strings.Join(validModes, ", "))
	}

	if c.Engine.TimeoutSec <= 0 {
		return fmt.Errorf("invalid engine timeout: %d (must be positive)", c.Engine.TimeoutSec)
	}
	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("invalid cache max size: %d (must be positive)", c.Cache.MaxSize)
	}
	if c.Cache.TTLMinutes <= 0 {
		return fmt.Errorf("invalid cache TTL: %d (must be positive)", c.Cache.TTLMinutes)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxTextLen <= 0 {
		return fmt.Errorf("invalid max text length: %d (must be positive)", c.Server.MaxTextLen)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}

	return nil
}

// ToEngineOptions converts the config to the engine service options.
func (c *Config) ToEngineOptions() engine.Options {
	return engine.Options{
		RemoteEndpoint:  c.Engine.RemoteEndpoint,
		Timeout:         time.Duration(c.Engine.TimeoutSec) * time.Second,
		LowAccuracyMode: c.Engine.LowAccuracyMode,
	}
}

// NewCache builds the result cache from the configured bounds, or nil when
// caching is disabled.
func (c *Config) NewCache() *cache.Cache {
	if !c.Cache.Enabled {
		return nil
	}
	return cache.New(c.Cache.MaxSize, time.Duration(c.Cache.TTLMinutes)*time.Minute)
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
