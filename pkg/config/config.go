/*
Package config manages the TOML config of the wordassist engine.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/wordassist/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	MinTopK = 1
	MaxTopK = 64
)

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Remote RemoteConfig `toml:"remote"`
	Dict   DictConfig   `toml:"dict"`
	Layout LayoutConfig `toml:"layout"`
	Log    LogConfig    `toml:"log"`
}

// EngineConfig selects how suggestions are sourced and committed.
type EngineConfig struct {
	Mode          string `toml:"mode"`
	TopK          int    `toml:"top_k"`
	TrailingSpace bool   `toml:"trailing_space"`
	TriggerKey    string `toml:"trigger_key"`
}

// RemoteConfig points at the word similarity service. An empty URL
// disables remote suggestions.
type RemoteConfig struct {
	URL        string  `toml:"url"`
	TimeoutMS  int     `toml:"timeout_ms"`
	RatePerSec float64 `toml:"rate_per_sec"`
	Burst      int     `toml:"burst"`
	CacheSize  int     `toml:"cache_size"`
}

// DictConfig holds dictionary options. An empty path uses the built-in
// word list.
type DictConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

// LayoutConfig describes where the overlay is anchored.
type LayoutConfig struct {
	Margin     int    `toml:"margin"`
	Placement  string `toml:"placement"`
	CellWidth  int    `toml:"cell_width"`
	CellHeight int    `toml:"cell_height"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `toml:"level"`
}

// Timeout returns the remote timeout as a duration.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordassist")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordassist")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordassist/config.toml
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
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Mode:          "hybrid",
			TopK:          5,
			TrailingSpace: true,
			TriggerKey:    "ctrl+space",
		},
		Remote: RemoteConfig{
			URL:        "",
			TimeoutMS:  3000,
			RatePerSec: 5,
			Burst:      2,
			CacheSize:  128,
		},
		Dict: DictConfig{
			Path:  "",
			Watch: true,
		},
		Layout: LayoutConfig{
			Margin:     5,
			Placement:  "right",
			CellWidth:  8,
			CellHeight: 18,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate resets out-of-range values to something usable.
func (c *Config) Validate() {
	def := DefaultConfig()

	switch strings.ToLower(strings.TrimSpace(c.Engine.Mode)) {
	case "local", "remote", "hybrid":
		c.Engine.Mode = strings.ToLower(strings.TrimSpace(c.Engine.Mode))
	default:
		log.Warnf("Unknown engine mode %q, using %q", c.Engine.Mode, def.Engine.Mode)
		c.Engine.Mode = def.Engine.Mode
	}
	c.Engine.TopK = min(max(c.Engine.TopK, MinTopK), MaxTopK)
	if strings.TrimSpace(c.Engine.TriggerKey) == "" {
		c.Engine.TriggerKey = def.Engine.TriggerKey
	}

	if c.Remote.TimeoutMS <= 0 {
		c.Remote.TimeoutMS = def.Remote.TimeoutMS
	}
	if c.Remote.RatePerSec < 0 {
		c.Remote.RatePerSec = 0
	}
	if c.Remote.Burst < 1 {
		c.Remote.Burst = 1
	}
	if c.Remote.CacheSize < 0 {
		c.Remote.CacheSize = 0
	}

	if c.Layout.Margin < 0 {
		c.Layout.Margin = def.Layout.Margin
	}
	switch c.Layout.Placement {
	case "right", "below":
	default:
		c.Layout.Placement = def.Layout.Placement
	}
	if c.Layout.CellWidth <= 0 {
		c.Layout.CellWidth = def.Layout.CellWidth
	}
	if c.Layout.CellHeight <= 0 {
		c.Layout.CellHeight = def.Layout.CellHeight
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. A file that does not decode cleanly is
// recovered key by key; whatever cannot be read keeps its default.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "remote"); ok {
		extractRemoteConfig(section, &config.Remote)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "layout"); ok {
		extractLayoutConfig(section, &config.Layout)
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		if val, ok := utils.ExtractString(section, "level"); ok {
			config.Log.Level = val
		}
	}
	config.Validate()
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractString(data, "mode"); ok {
		engine.Mode = val
	}
	if val, ok := utils.ExtractInt64(data, "top_k"); ok {
		engine.TopK = val
	}
	if val, ok := utils.ExtractBool(data, "trailing_space"); ok {
		engine.TrailingSpace = val
	}
	if val, ok := utils.ExtractString(data, "trigger_key"); ok {
		engine.TriggerKey = val
	}
}

func extractRemoteConfig(data map[string]any, remote *RemoteConfig) {
	if val, ok := utils.ExtractString(data, "url"); ok {
		remote.URL = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		remote.TimeoutMS = val
	}
	if val, ok := utils.ExtractFloat(data, "rate_per_sec"); ok {
		remote.RatePerSec = val
	}
	if val, ok := utils.ExtractInt64(data, "burst"); ok {
		remote.Burst = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		remote.CacheSize = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		dict.Watch = val
	}
}

func extractLayoutConfig(data map[string]any, layout *LayoutConfig) {
	if val, ok := utils.ExtractInt64(data, "margin"); ok {
		layout.Margin = val
	}
	if val, ok := utils.ExtractString(data, "placement"); ok {
		layout.Placement = val
	}
	if val, ok := utils.ExtractInt64(data, "cell_width"); ok {
		layout.CellWidth = val
	}
	if val, ok := utils.ExtractInt64(data, "cell_height"); ok {
		layout.CellHeight = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path.
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
