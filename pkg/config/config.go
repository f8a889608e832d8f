/*
Package config manages TOML configuration for the fuzzyac CLI and IPC
server.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/kakserpom/fuzzyac/internal/utils"
)

// Config holds the entire config structure.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
}

// EngineConfig holds defaults applied to every Automaton the CLI/server
// build when no per-invocation flag overrides them.
type EngineConfig struct {
	Threshold        float64 `toml:"threshold"`
	Policy           string  `toml:"policy"` // default|greedy|coverage|unique
	CaseInsensitive  bool    `toml:"case_insensitive"`
	MaxInsertions    int     `toml:"max_insertions"`
	MaxDeletions     int     `toml:"max_deletions"`
	MaxSubstitutions int     `toml:"max_substitutions"`
	MaxSwaps         int     `toml:"max_swaps"`
	MaxEdits         int     `toml:"max_edits"`
}

// ServerConfig has IPC-server related options.
type ServerConfig struct {
	MaxTextBytes int `toml:"max_text_bytes"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/fuzzyac
// 2. current executable dir
// 3. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "fuzzyac")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
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
// 1. Custom path from -config flag
// 2. Default path: config.toml in GetConfigDir (~/.config/fuzzyac, else the executable's dir)
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			cfg, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("loaded config from custom path: %s", customConfigPath)
				return cfg, customConfigPath, nil
			}
		} else {
			log.Warnf("custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	cfg, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("loaded config from default path: %s", defaultPath)
	return cfg, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Threshold:        0.8,
			Policy:           "default",
			CaseInsensitive:  false,
			MaxInsertions:    1,
			MaxDeletions:     1,
			MaxSubstitutions: 1,
			MaxSwaps:         1,
			MaxEdits:         1,
		},
		Server: ServerConfig{
			MaxTextBytes: 1 << 20,
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			log.Warnf("failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("created default config file at: %s", configPath)
		return cfg, nil
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, cfg); err != nil {
		return tryPartialParse(configPath)
	}
	return cfg, nil
}

// tryPartialParse attempts to recover whatever sections of a TOML file do
// parse, falling back to defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return cfg, nil
	}

	if engineSection, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(engineSection, &cfg.Engine)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &cfg.Server)
	}
	return cfg, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := data["threshold"].(float64); ok {
		engine.Threshold = val
	}
	if val, ok := utils.ExtractString(data, "policy"); ok {
		engine.Policy = val
	}
	if val, ok := utils.ExtractBool(data, "case_insensitive"); ok {
		engine.CaseInsensitive = val
	}
	if val, ok := utils.ExtractInt64(data, "max_insertions"); ok {
		engine.MaxInsertions = val
	}
	if val, ok := utils.ExtractInt64(data, "max_deletions"); ok {
		engine.MaxDeletions = val
	}
	if val, ok := utils.ExtractInt64(data, "max_substitutions"); ok {
		engine.MaxSubstitutions = val
	}
	if val, ok := utils.ExtractInt64(data, "max_swaps"); ok {
		engine.MaxSwaps = val
	}
	if val, ok := utils.ExtractInt64(data, "max_edits"); ok {
		engine.MaxEdits = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_text_bytes"); ok {
		server.MaxTextBytes = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path.
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file.
func SaveConfig(cfg *Config, configPath string) error {
	return utils.SaveTOMLFile(cfg, configPath)
}
