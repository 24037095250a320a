/*
Package config manages the TOML configuration for mathserve.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/mathserve/mathserve/pkg/ranker"
)

// Config holds the entire config structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	Ranker RankerConfig `toml:"ranker"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxLimit  int `toml:"max_limit"`
	MinPrefix int `toml:"min_prefix"`
	MaxPrefix int `toml:"max_prefix"`
	MaxText   int `toml:"max_text"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	DataDir     string `toml:"data_dir"`
	ProfilePath string `toml:"profile_path"`
	UseSeed     bool   `toml:"use_seed"`
}

// RankerConfig holds ranking options. Weights are renormalized on load so
// a hand-edited file that doesn't sum to 1 still works.
type RankerConfig struct {
	Weights          ranker.Weights `toml:"weights"`
	FeedbackCapacity int            `toml:"feedback_capacity"`
	CacheSize        int            `toml:"cache_size"`
	CacheTTLSeconds  int            `toml:"cache_ttl_seconds"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	opts := ranker.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			MaxLimit:  64,
			MinPrefix: 1,
			MaxPrefix: 60,
			MaxText:   65536,
		},
		Dict: DictConfig{
			DataDir: "data/",
			UseSeed: true,
		},
		Ranker: RankerConfig{
			Weights:          opts.Weights,
			FeedbackCapacity: opts.FeedbackCapacity,
			CacheSize:        opts.CacheSize,
			CacheTTLSeconds:  opts.CacheTTLSeconds,
		},
	}
}

// RankerOptions converts the config section into ranker options.
func (c *Config) RankerOptions() ranker.Options {
	return ranker.Options{
		Weights:          c.Ranker.Weights,
		FeedbackCapacity: c.Ranker.FeedbackCapacity,
		CacheSize:        c.Ranker.CacheSize,
		CacheTTLSeconds:  c.Ranker.CacheTTLSeconds,
	}
}

// GetConfigDir returns ~/.config/mathserve, falling back to the executable
// directory when the home directory is unavailable.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execPath, execErr := os.Executable()
		if execErr != nil {
			return "", execErr
		}
		return filepath.Dir(execPath), nil
	}
	return filepath.Join(homeDir, ".config", "mathserve"), nil
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: ~/.config/mathserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using builtin defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates a default one if missing.
func InitConfig(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		log.Warnf("Failed to create config directory for %s: %v. Using builtin defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(configPath); err != nil {
		config := DefaultConfig()
		if saveErr := SaveConfig(config, configPath); saveErr != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using builtin defaults...", configPath, saveErr)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file; missing keys keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		log.Errorf("Failed to create config file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(config)
}
