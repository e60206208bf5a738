package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Environment       string `yaml:"environment"`
	LogLevel          string `yaml:"log_level"`
	Port              string `yaml:"port"`
	DataDir           string `yaml:"data_dir"`
	SweepIntervalSecs int    `yaml:"sweep_interval_secs"`
	StaleTrainingSecs int    `yaml:"stale_training_secs"`
}

// LoadConfig loads configuration from an optional YAML file named by
// CONFIG_FILE, with environment variables overriding file values and
// defaults filling the rest.
func LoadConfig() (*Config, error) {
	config := &Config{
		Environment:       "development",
		LogLevel:          "info",
		Port:              "8000",
		DataDir:           "data",
		SweepIntervalSecs: 60,
		StaleTrainingSecs: 3600,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.Environment = getEnv("ENVIRONMENT", config.Environment)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.Port = getEnv("PORT", config.Port)
	config.DataDir = getEnv("DATA_DIR", config.DataDir)
	config.SweepIntervalSecs = getEnvAsInt("SWEEP_INTERVAL_SECS", config.SweepIntervalSecs)
	config.StaleTrainingSecs = getEnvAsInt("STALE_TRAINING_SECS", config.StaleTrainingSecs)

	if config.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR is required")
	}
	if config.SweepIntervalSecs <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL_SECS must be positive")
	}
	if config.StaleTrainingSecs <= 0 {
		return nil, fmt.Errorf("STALE_TRAINING_SECS must be positive")
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
