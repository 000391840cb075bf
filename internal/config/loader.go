package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "codeswitch"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "CODESWITCH"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	// Use the global viper instance to ensure flag bindings work
	return &Loader{v: viper.GetViper()}
}

// Load loads configuration from files, environment variables, and sets defaults.
// It returns the loaded configuration and any error encountered.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")

	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadWithFile loads configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// Set sets a value in the configuration.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	// Current directory
	l.v.AddConfigPath(".")

	// User's home directory
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	// System-wide configuration
	l.v.AddConfigPath("/etc/codeswitch")

	// XDG config directory
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "codeswitch"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "codeswitch"))
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()

	// Replace dots and dashes with underscores in env var names
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Global settings
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	// Engine defaults
	l.v.SetDefault("engine.remote_endpoint", defaults.Engine.RemoteEndpoint)
	l.v.SetDefault("engine.timeout_sec", defaults.Engine.TimeoutSec)
	l.v.SetDefault("engine.low_accuracy_mode", defaults.Engine.LowAccuracyMode)
	l.v.SetDefault("engine.default_mode", defaults.Engine.DefaultMode)

	// Cache defaults
	l.v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	l.v.SetDefault("cache.max_size", defaults.Cache.MaxSize)
	l.v.SetDefault("cache.ttl_minutes", defaults.Cache.TTLMinutes)

	// Output defaults
	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.confidence_precision", defaults.Output.ConfidencePrecision)

	// Server defaults
	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.cors_origin", defaults.Server.CORSOrigin)
	l.v.SetDefault("server.max_text_len", defaults.Server.MaxTextLen)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
}

// GetResolvedConfig returns the current resolved configuration for debugging.
func (l *Loader) GetResolvedConfig() map[string]interface{} {
	return l.v.AllSettings()
}

// WriteConfigToFile writes the current configuration to a file.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// GenerateDefaultConfigFile generates a default configuration file.
func GenerateDefaultConfigFile(filename string) error {
	loader := NewLoader()
	loader.setDefaults()

	if filename == "" {
		filename = "codeswitch.yaml"
	}

	return loader.WriteConfigToFile(filename)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".config", "codeswitch"))
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "codeswitch"))
	}

	paths = append(paths, "/etc/codeswitch")

	return paths
}
