// Package config provides functionality for loading and accessing environment variables.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	// Global logger instance that should be used across the application
	Logger = logrus.New()
	// Global config instance
	globalConfig *Config
	configOnce   sync.Once
)

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() {
	once.Do(func() {
		// Try to find .env file in current directory
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			// Try to find .env in parent directory (project root)
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				Logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		// Load .env file
		err := godotenv.Load(envFile)
		if err != nil {
			Logger.Warnf("Error loading .env file: %v", err)
			return
		}
		Logger.Infof("Loaded environment variables from %s", envFile)
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// GetGlobalConfig returns the global configuration instance, initializing it if necessary
func GetGlobalConfig() *Config {
	configOnce.Do(func() {
		var err error
		globalConfig, err = InitializeConfig()
		if err != nil {
			Logger.Fatalf("Failed to initialize configuration: %v", err)
		}
		Logger = ConfigureLoggingFromConfig(globalConfig)
	})
	return globalConfig
}

// InitializeGlobalConfig explicitly initializes the global configuration.
// This is useful for testing or when you want to ensure config is loaded early.
func InitializeGlobalConfig() error {
	var err error
	globalConfig, err = InitializeConfig()
	if err != nil {
		return err
	}
	Logger = ConfigureLoggingFromConfig(globalConfig)
	return nil
}
