package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultOutputDir is where restored files go when nothing else is configured.
const DefaultOutputDir = "restoredFolder"

// Config represents the main configuration for histrestore.
type Config struct {
	HistoryDir  string            `toml:"history_dir"`
	OutputDir   string            `toml:"output_dir"`
	DaysBack    int               `toml:"days_back"`
	IgnoreCase  *bool             `toml:"ignore_case,omitempty"` // nil = platform default
	BaseDir     string            `toml:"base_dir"`
	LogDir      string            `toml:"log_dir"`
	Filesystem  FilesystemConfig  `toml:"filesystem"`
	Destination DestinationConfig `toml:"destination"`
	Encryption  EncryptionConfig  `toml:"encryption"`
	Journal     JournalConfig     `toml:"journal"`
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Ignore []string `toml:"ignore"` // exclude patterns applied to restored relative paths
}

// DestinationConfig selects where restored files are written.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DestinationConfig struct {
	Type string `toml:"type"` // "filesystem" (default), "memory" or "s3"

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"` // for S3-compatible services
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// EncryptionConfig controls encryption of restored copies.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default) or "age"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// JournalConfig represents configuration for the restore journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type JournalConfig struct {
	Type    string `toml:"type"`               // "none" (default), "memory" or "sqlite"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a new Config with the provided locations and defaults
// for everything else.
func NewConfig(baseDir, historyDir string) *Config {
	return &Config{
		HistoryDir: historyDir,
		OutputDir:  DefaultOutputDir,
		DaysBack:   7,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		Destination: DestinationConfig{
			Type: "filesystem",
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "histrestore.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "histrestore.key"),
		},
		Journal: JournalConfig{
			Type:    "none",
			DataDir: filepath.Join(baseDir, "journal"),
		},
	}
}

// FoldCase resolves the ignore_case setting against the platform default.
func (c *Config) FoldCase(platformDefault bool) bool {
	if c.IgnoreCase == nil {
		return platformDefault
	}
	return *c.IgnoreCase
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if err := m.ReadInto(r, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadInto decodes the reader on top of cfg. Keys absent from the input keep
// the values already in cfg.
func (m *Manager) ReadInto(r io.Reader, cfg *Config) error {
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config file at path on top of defaults. A missing file is
// not an error: a copy of defaults is returned.
func Load(path string, defaults *Config) (*Config, error) {
	cfg := *defaults
	cfg.Filesystem.Ignore = append([]string(nil), defaults.Filesystem.Ignore...)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.ReadInto(f, &cfg); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return &cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
