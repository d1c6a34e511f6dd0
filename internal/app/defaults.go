package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables overriding the default locations.
const (
	EnvConfigPath = "PWCARDS_CONFIG_PATH"
	EnvHome       = "PWCARDS_HOME"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - PWCARDS_CONFIG_PATH: config file location (default: ~/.config/pwcards.toml)
//   - PWCARDS_HOME: base directory for pwcards data (default: ~/.local/share/pwcards)
func GetDefaults() (map[string]string, error) {
	configPath, err := lookupPath(EnvConfigPath, ".config", "pwcards.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := lookupPath(EnvHome, ".local", "share", "pwcards")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// lookupPath returns the value of env if set, else the given path under
// the user's home directory.
func lookupPath(env string, underHome ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, underHome...)...), nil
}
