package app

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - HISTRESTORE_CONFIG_PATH: config file location (default: ~/.config/histrestore.toml)
//   - HISTRESTORE_HOME: base directory for histrestore data (default: ~/.local/share/histrestore)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	historyDir, err := DefaultHistoryDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"history_dir": historyDir,
	}, nil
}

// DefaultHistoryDir returns where the editor keeps its local history on this platform.
func DefaultHistoryDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return historyDirFor(runtime.GOOS, homeDir, os.Getenv("APPDATA")), nil
}

func historyDirFor(goos, homeDir, appData string) string {
	switch goos {
	case "windows":
		if appData == "" {
			appData = filepath.Join(homeDir, "AppData", "Roaming")
		}
		return filepath.Join(appData, "Cursor", "User", "History")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "Cursor", "User", "History")
	default:
		return filepath.Join(homeDir, ".config", "Cursor", "User", "History")
	}
}

// getConfigPath returns the config file path, checking HISTRESTORE_CONFIG_PATH env var first,
// then falling back to the default ~/.config/histrestore.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("HISTRESTORE_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "histrestore.toml"), nil
}

// getBaseDir returns the base directory for histrestore data, checking HISTRESTORE_HOME env var first,
// then falling back to the XDG default ~/.local/share/histrestore.
func getBaseDir() (string, error) {
	if path := os.Getenv("HISTRESTORE_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "histrestore"), nil
}
