package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codeboard-app/codeswitch/internal/config"
	"github.com/codeboard-app/codeswitch/internal/version"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "codeswitch",
	Short: "Code-switching detection for multilingual text",
	Long: `Detects language switches within a single text: per-word language
assignment, switch points, phrase grouping, and calibrated confidence.

This tool provides:
- Word-level language classification with a tiered fallback chain
- Switch-point and phrase detection across 50+ languages
- Confidence calibration and reliability scoring
- Both CLI and server modes with result caching

Examples:
  codeswitch analyze "I'm going to the store, pero first..."
  codeswitch analyze "Sí yes" --languages Spanish,English --format json
  codeswitch serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.PersistentFlags().GetBool("version")
		if v {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "codeswitch version %s\n", version.Version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", version.GitCommit)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", version.BuildDate)
			return nil
		}
		// If no version flag, show help
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags that apply to all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/codeswitch, /etc/codeswitch)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	// Version flag for tests and usability
	rootCmd.PersistentFlags().Bool("version", false, "print version information and exit")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}

		var logLevel slog.Level
		if globalConfig.Verbose {
			logLevel = slog.LevelDebug
		} else {
			switch globalConfig.LogLevel {
			case "debug":
				logLevel = slog.LevelDebug
			case "info":
				logLevel = slog.LevelInfo
			case "warn":
				logLevel = slog.LevelWarn
			case "error":
				logLevel = slog.LevelError
			default:
				logLevel = slog.LevelInfo
			}
		}

		// Set up structured logging
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configLoader = config.NewLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the global configuration.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}

	// Reload configuration to ensure CLI flags are included; flag binding
	// happens after the initial config load.
	loader := GetConfigLoader()
	var cfg config.Config
	if err := loader.GetViper().Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling updated configuration: %v\n", err)
		return globalConfig
	}

	return &cfg
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}
