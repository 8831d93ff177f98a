// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		DateFormat     string `mapstructure:"date_format" yaml:"date_format"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	Data struct {
		Directory  string `mapstructure:"directory" yaml:"directory"`
		UploadsDir string `mapstructure:"uploads_dir" yaml:"uploads_dir"`
	} `mapstructure:"data" yaml:"data"`

	Parsers struct {
		Bank struct {
			BalanceTolerance float64 `mapstructure:"balance_tolerance" yaml:"balance_tolerance"`
		} `mapstructure:"bank" yaml:"bank"`
		DIAN struct {
			StrictHeaders bool `mapstructure:"strict_headers" yaml:"strict_headers"`
		} `mapstructure:"dian" yaml:"dian"`
	} `mapstructure:"parsers" yaml:"parsers"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.dian-csv")
	v.AddConfigPath(".dian-csv")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("DIAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Config file not found or invalid is OK, we'll use defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.date_format", "DD/MM/YYYY")
	v.SetDefault("csv.include_headers", true)

	// Data defaults
	v.SetDefault("data.directory", "data")
	v.SetDefault("data.uploads_dir", "data/uploads")

	// Parser defaults
	v.SetDefault("parsers.bank.balance_tolerance", 1.0)
	v.SetDefault("parsers.dian.strict_headers", true)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	// Validate balance tolerance
	if config.Parsers.Bank.BalanceTolerance < 0 {
		return fmt.Errorf("parsers.bank.balance_tolerance must be non-negative, got: %f", config.Parsers.Bank.BalanceTolerance)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
