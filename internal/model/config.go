package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// StorageConfig holds database settings.
type StorageConfig struct {
	// Path is the SQLite database file path.
	Path string `mapstructure:"path" yaml:"path"`
}

// SchedulingConfig holds task scheduling behavior settings.
type SchedulingConfig struct {
	// MaxBatchSize caps how many mutations one batch may carry.
	// Values above 50 are clamped; 50 is the hard ceiling.
	MaxBatchSize int `mapstructure:"max_batch_size" yaml:"max_batch_size"`

	// NotifyOnAssignment controls whether creating a task assigned to
	// someone other than its creator records a notification.
	NotifyOnAssignment bool `mapstructure:"notify_on_assignment" yaml:"notify_on_assignment"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Scheduling SchedulingConfig `mapstructure:"scheduling" yaml:"scheduling"`
}

// MaxBatchCeiling is the hard upper bound on batch size; configuration
// may lower it but never raise it.
const MaxBatchCeiling = 50

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/farmtask/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "farmtask", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Path: filepath.Join(".", "farmtask.db"),
		},
		Scheduling: SchedulingConfig{
			MaxBatchSize:       MaxBatchCeiling,
			NotifyOnAssignment: true,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.path", filepath.Join(".", "farmtask.db"))
	v.SetDefault("scheduling.max_batch_size", MaxBatchCeiling)
	v.SetDefault("scheduling.notify_on_assignment", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Scheduling.MaxBatchSize <= 0 || cfg.Scheduling.MaxBatchSize > MaxBatchCeiling {
		cfg.Scheduling.MaxBatchSize = MaxBatchCeiling
	}

	return cfg, nil
}
