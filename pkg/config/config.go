// Package config loads the addon and agent configuration from a JSON
// file, with environment variables taking precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parcad/parcad/pkg/console"
)

// Config represents the application configuration.
type Config struct {
	// RPC endpoint the addon binds and the agent dials
	Server ServerConfig `json:"server"`

	// Parts library location
	LibraryPath string `json:"libraryPath,omitempty"`

	// Gate for the execute_code operation
	AllowCodeExecution bool `json:"allowCodeExecution"`

	// Suppress screenshot attachments in tool results
	OnlyTextFeedback bool `json:"onlyTextFeedback"`

	// Logging configuration
	Log *LogConfig `json:"log,omitempty"`
}

// ServerConfig contains the RPC endpoint address.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level string `json:"level,omitempty"` // debug, message, warning, error
	File  string `json:"file,omitempty"`  // Log file path (empty = no file logging)
}

// DefaultLogConfig returns default logging configuration.
func DefaultLogConfig() *LogConfig {
	homeDir, _ := os.UserHomeDir()
	return &LogConfig{
		Level: "message",
		File:  filepath.Join(homeDir, ".parcad", "parcad.log"),
	}
}

// CreateConsole creates a console logger from the log configuration.
func (c *LogConfig) CreateConsole() (*console.Console, error) {
	if c == nil {
		c = DefaultLogConfig()
	}
	return console.New(console.Config{
		Level:    console.ParseLevel(c.Level),
		Stderr:   true,
		FilePath: c.File,
	})
}

// GetDefaultConfigPath returns the default config file path.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".parcad", "config.json"), nil
}

// LoadConfig loads configuration from file and merges with environment
// variables. Environment variables take precedence over config file values.
func LoadConfig(configPath string) (*Config, error) {
	// Start with default config
	cfg := &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 9875,
		},
		Log: DefaultLogConfig(),
	}

	// Load from file if exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Merge with defaults (file values override defaults)
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment variables override config file
	if val := os.Getenv("PARCAD_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("PARCAD_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid PARCAD_PORT %q: %w", val, err)
		}
		cfg.Server.Port = port
	}
	if val := os.Getenv("PARCAD_LIBRARY"); val != "" {
		cfg.LibraryPath = val
	}
	if val := os.Getenv("PARCAD_ALLOW_CODE"); val != "" {
		allow, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid PARCAD_ALLOW_CODE %q: %w", val, err)
		}
		cfg.AllowCodeExecution = allow
	}
	if val := os.Getenv("PARCAD_ONLY_TEXT"); val != "" {
		only, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid PARCAD_ONLY_TEXT %q: %w", val, err)
		}
		cfg.OnlyTextFeedback = only
	}

	return cfg, nil
}

// SaveConfig saves configuration to file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
