package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration for the Sidekick agent core.
// It is loaded from ~/.sidekick/config.yaml and can be overridden by
// environment variables with the SIDEKICK prefix.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Persona PersonaConfig `mapstructure:"persona" yaml:"persona"`
	Memory  MemoryConfig  `mapstructure:"memory" yaml:"memory"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// LLMConfig contains configuration for the routing layer.
type LLMConfig struct {
	// Provider is the primary provider ("openai", "groq", "anthropic", "ollama").
	// Fallback order is fixed per primary; only the primary is configurable.
	Provider string `mapstructure:"provider" yaml:"provider"`
	// Providers maps provider names to their specific configuration
	Providers map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
	// Models maps specialist names to model overrides, e.g. strategy: gpt-4o
	Models map[string]string `mapstructure:"models" yaml:"models,omitempty"`
}

// ProviderConfig contains configuration for a specific LLM provider.
type ProviderConfig struct {
	// Endpoint is the API base URL (primarily used for Ollama)
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	// APIKey is the authentication key; empty means use the vendor's
	// standard environment variable
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	// TimeoutSec is the per-call timeout in seconds
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec,omitempty"`
}

// Timeout returns the configured timeout as a duration, zero when unset.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSec) * time.Second
}

// PersonaConfig contains configuration for specialist personas.
type PersonaConfig struct {
	// PreambleFile is an optional YAML file overriding built-in preambles
	PreambleFile string `mapstructure:"preamble_file" yaml:"preamble_file,omitempty"`
	// Default is the specialist used when a request names none
	Default string `mapstructure:"default" yaml:"default"`
}

// MemoryConfig contains configuration for conversation memory.
type MemoryConfig struct {
	// DBPath is the path to the SQLite conversation database
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
	// CacheSize is the per-process LRU cap on cached conversations
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error")
	Level string `mapstructure:"level" yaml:"level"`
	// File is the path to the log file; empty logs to stderr only
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".sidekick")

	return &Config{
		LLM: LLMConfig{
			Provider: "ollama",
			Providers: map[string]ProviderConfig{
				"ollama": {
					Endpoint: "http://127.0.0.1:11434",
				},
				"openai":    {},
				"groq":      {},
				"anthropic": {},
			},
		},
		Persona: PersonaConfig{
			Default: "reflection",
		},
		Memory: MemoryConfig{
			DBPath:    filepath.Join(dataDir, "conversations.db"),
			CacheSize: 256,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "logs", "sidekick.log"),
		},
	}
}

// Load reads configuration from the default location (~/.sidekick/config.yaml)
// and merges with environment variables. If no config file exists, it creates
// one with default values.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".sidekick", "config.yaml")
	return LoadFromPath(configPath)
}

// LoadFromPath reads configuration from a specific file path and merges with
// environment variables. If the file doesn't exist, it creates one with
// default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := writeConfigFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Example: SIDEKICK_LLM_PROVIDER, SIDEKICK_LOGGING_LEVEL
	v.SetEnvPrefix("SIDEKICK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Memory.DBPath = expandPath(cfg.Memory.DBPath)
	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.Persona.PreambleFile = expandPath(cfg.Persona.PreambleFile)

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in missing values so a sparse hand-edited file still
// produces a runnable configuration.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.LLM.Provider == "" {
		c.LLM.Provider = defaults.LLM.Provider
	}
	if c.LLM.Providers == nil {
		c.LLM.Providers = defaults.LLM.Providers
	}
	if c.Persona.Default == "" {
		c.Persona.Default = defaults.Persona.Default
	}
	if c.Memory.DBPath == "" {
		c.Memory.DBPath = defaults.Memory.DBPath
	}
	if c.Memory.CacheSize <= 0 {
		c.Memory.CacheSize = defaults.Memory.CacheSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// Save writes the current configuration to the default config file location.
func (c *Config) Save() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".sidekick", "config.yaml")
	return c.SaveToPath(configPath)
}

// SaveToPath writes the current configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return writeConfigFile(path, c)
}

// GetDataDir returns the Sidekick data directory path (~/.sidekick).
func (c *Config) GetDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".sidekick")
}

// EnsureDirectories creates all directories the application writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.GetDataDir(),
		filepath.Dir(c.Memory.DBPath),
	}
	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Validate checks the configuration for common errors and inconsistencies.
func (c *Config) Validate() error {
	validProviders := map[string]bool{"openai": true, "groq": true, "anthropic": true, "ollama": true}
	if c.LLM.Provider == "" {
		return fmt.Errorf("llm.provider cannot be empty")
	}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid provider '%s', must be one of: openai, groq, anthropic, ollama", c.LLM.Provider)
	}

	for name := range c.LLM.Providers {
		if !validProviders[name] {
			return fmt.Errorf("unknown provider '%s' in providers map", name)
		}
	}

	if c.Memory.CacheSize <= 0 {
		return fmt.Errorf("memory.cache_size must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}

	return nil
}

// writeConfigFile writes a Config struct to a YAML file.
// Uses gopkg.in/yaml.v3 directly to ensure proper tag-based serialization.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
