// Package config provides configuration management for the Sidekick agent core.
//
// # Overview
//
// The config package uses Viper to load configuration from YAML files and
// environment variables. It provides a type-safe configuration structure with
// validation, default values, and automatic file creation.
//
// # Configuration File
//
// The configuration is stored at ~/.sidekick/config.yaml and is automatically
// created with sensible defaults on first use. The file structure mirrors
// the Go structs defined in this package.
//
// # Environment Variables
//
// All configuration values can be overridden using environment variables
// with the SIDEKICK_ prefix. Nested fields are separated by underscores.
//
// Examples:
//   - SIDEKICK_LLM_PROVIDER=openai
//   - SIDEKICK_LOGGING_LEVEL=debug
//
// Per-specialist model overrides use their own variables, for example
// SIDEKICK_MODEL_STRATEGY=gpt-4o; these are read by the routing layer, not
// by this package.
//
// # Security
//
// API keys should be stored in the vendors' standard environment variables
// (OPENAI_API_KEY, GROQ_API_KEY, ANTHROPIC_API_KEY) rather than in the
// config file to prevent accidental exposure.
//
// # Path Expansion
//
// The package automatically expands ~ to the user's home directory in
// all path configurations, making config files portable across systems.
//
// # Thread Safety
//
// Config instances are not thread-safe. If you need concurrent access,
// wrap the config in a sync.RWMutex or create separate instances.
package config
