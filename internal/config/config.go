// Package config resolves settings from flags, environment, the config file
// and built-in defaults, in that order.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Built-in defaults target a local Ollama endpoint.
const (
	DefaultBaseURL       = "http://localhost:11434/v1"
	DefaultModel         = "llama3"
	DefaultAPIKey        = "ollama" // placeholder; local endpoints ignore it
	DefaultTemperature   = 0.3
	DefaultMaxTokens     = 500
	DefaultRecentCommits = 5
)

// Retry parameters are fixed; they are not exposed in the config file.
const (
	MaxRetries     = 3
	BaseDelay      = time.Second
	RequestTimeout = 30 * time.Second
)

// FileConfig is the on-disk configuration, stored as TOML.
type FileConfig struct {
	BaseURL       string   `toml:"base_url,omitempty"`
	APIKey        string   `toml:"api_key,omitempty"`
	Model         string   `toml:"model,omitempty"`
	Temperature   *float64 `toml:"temperature,omitempty"`
	MaxTokens     *int     `toml:"max_tokens,omitempty"`
	RecentCommits *int     `toml:"recent_commits,omitempty"`
}

// Path returns the default config file location.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gitmsg.toml"), nil
}

// Load reads the config file at path, falling back to the default location
// when path is empty. A missing file is not an error.
func Load(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config file, creating the parent directory if needed.
func Save(cfg FileConfig, path string) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveString picks the first non-empty value: flag > env > file > default.
func ResolveString(flagVal, envVal, fileVal, defVal string) string {
	if flagVal != "" {
		return flagVal
	}
	if envVal != "" {
		return envVal
	}
	if fileVal != "" {
		return fileVal
	}
	return defVal
}

// ResolveInt prefers an explicitly set flag, then the file value, then the
// default.
func ResolveInt(flagVal int, flagSet bool, fileVal *int, defVal int) int {
	if flagSet {
		return flagVal
	}
	if fileVal != nil {
		return *fileVal
	}
	return defVal
}

// ResolveFloat prefers an explicitly set flag, then the file value, then the
// default.
func ResolveFloat(flagVal float64, flagSet bool, fileVal *float64, defVal float64) float64 {
	if flagSet {
		return flagVal
	}
	if fileVal != nil {
		return *fileVal
	}
	return defVal
}
