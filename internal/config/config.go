// Package config loads filterctl settings from a YAML file and FILTERS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"

	filters "github.com/goliatone/go-filters"
)

// Storage drivers understood by the CLI.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// StorageConfig selects the durable store backing filter state.
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // memory, file or sqlite
	Path   string `mapstructure:"path" yaml:"path"`     // JSON file path or sqlite DSN
}

// Config wraps the full filterctl configuration.
type Config struct {
	Storage    StorageConfig     `mapstructure:"storage" yaml:"storage"`
	StorageKey string            `mapstructure:"storage_key" yaml:"storage_key"`
	Location   string            `mapstructure:"location" yaml:"location"` // address the filters are projected onto
	Engine     string            `mapstructure:"engine" yaml:"engine"`
	LogLevel   string            `mapstructure:"log_level" yaml:"log_level"`
	Fields     []filters.Field   `mapstructure:"fields" yaml:"fields"`
	Defaults   map[string]string `mapstructure:"defaults" yaml:"defaults"`
}

var defaults = map[string]any{
	"storage.driver": DriverFile,
	"storage.path":   "filters.json",
	"storage_key":    "filters",
	"location":       "/",
	"engine":         string(filters.EngineExpr),
	"log_level":      "info",
}

// envBindings maps config keys to the environment variables that may set
// them, preferred name first.
var envBindings = map[string][]string{
	"storage.driver": {"FILTERS_STORAGE_DRIVER"},
	"storage.path":   {"FILTERS_STORAGE_PATH", "FILTERS_DSN"},
	"storage_key":    {"FILTERS_STORAGE_KEY"},
	"location":       {"FILTERS_LOCATION"},
	"engine":         {"FILTERS_ENGINE"},
	"log_level":      {"FILTERS_LOG_LEVEL"},
}

// Load reads filePath when it exists and overlays FILTERS_* variables. A
// missing file falls back to defaults and the environment.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if filePath != "" {
		v.SetConfigFile(filePath)
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %q: %w", filePath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the driver and engine names.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver != DriverMemory && strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("config: storage.path is required for the %s driver", c.Storage.Driver)
	}
	if _, err := filters.ParseEngine(c.Engine); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Schema builds the filter schema from the configured fields.
func (c *Config) Schema() (filters.Schema, error) {
	return filters.NewSchema(c.Fields...)
}
