// Package engcfg loads the engine's own configuration: the allocator's
// resource totals, the store's base directory, and the log format/level,
// from a YAML config file and environment variables layered by
// github.com/spf13/viper, the teacher's own configuration library
// (internal/config in the original source tree).
package engcfg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigDir is the default directory searched for a config file, a home
// directory dotfile in the teacher's own convention.
var ConfigDir = filepath.Join(homeDir(), ".config", "wfengine")

func homeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return h
}

// Config is the engine's resolved configuration.
type Config struct {
	// StoreDir is the content-addressed store's base directory.
	StoreDir string `mapstructure:"store_dir"`

	// AllocatorNP and AllocatorMem are the allocator's CPU-slot and
	// megabyte totals. Zero means "detect from the host".
	AllocatorNP  int `mapstructure:"allocator_np"`
	AllocatorMem int `mapstructure:"allocator_mem"`

	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"log_format"`
	// LogDebug enables debug-level logging.
	LogDebug bool `mapstructure:"log_debug"`

	// GCRetentionHours bounds how old an untracked cache entry must be
	// before `store gc` removes it.
	GCRetentionHours int `mapstructure:"gc_retention_hours"`
}

func defaults() Config {
	return Config{
		StoreDir:         filepath.Join(ConfigDir, "store"),
		LogFormat:        "text",
		GCRetentionHours: 24 * 7,
	}
}

// Load reads configuration from cfgFile (if non-empty), the default
// search path otherwise, and environment variables prefixed WFENGINE_,
// falling back to defaults for anything unset.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	cfg := defaults()

	v.SetDefault("store_dir", cfg.StoreDir)
	v.SetDefault("allocator_np", cfg.AllocatorNP)
	v.SetDefault("allocator_mem", cfg.AllocatorMem)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("log_debug", cfg.LogDebug)
	v.SetDefault("gc_retention_hours", cfg.GCRetentionHours)

	v.SetEnvPrefix("wfengine")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(ConfigDir)
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("engcfg: reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("engcfg: unmarshalling config: %w", err)
	}
	return cfg, nil
}
