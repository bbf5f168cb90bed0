package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration. Every path the program touches is
// injected here; nothing is derived from the executable's own location.
type Config struct {
	DataDir     string `json:"data_dir"`
	EventsPath  string `json:"events_path"`
	PlayLogPath string `json:"play_log_path"`
	DeviceIndex int    `json:"device_index"`
	BlockFrames int    `json:"block_frames"`
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		DataDir:     "./data",
		EventsPath:  "./data/events.json",
		PlayLogPath: "./data/playlog.db",
		DeviceIndex: 0,
		BlockFrames: 2048,
	}
}

// LoadConfig reads and unmarshals configuration from file, then applies
// environment overrides. A .env file next to the working directory is
// honored if present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("AUTOMATOR_DATA_DIR"); v != "" {
		c.DataDir = v
		c.EventsPath = filepath.Join(v, "events.json")
		c.PlayLogPath = filepath.Join(v, "playlog.db")
	}
	if v := os.Getenv("AUTOMATOR_EVENTS"); v != "" {
		c.EventsPath = v
	}
	if v := os.Getenv("AUTOMATOR_PLAYLOG"); v != "" {
		c.PlayLogPath = v
	}
	if v := os.Getenv("AUTOMATOR_DEVICE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DeviceIndex = n
		}
	}
}

// SaveConfig marshals and saves configuration to file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads config from path or creates default if not exists
func LoadOrCreate(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return config, nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	if path := os.Getenv("AUTOMATOR_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "automatizador", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(home, ".config", "automatizador", "config.json")
}
