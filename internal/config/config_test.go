package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	ignoreCase := true
	original := &Config{
		HistoryDir: "/home/user/.config/Cursor/User/History",
		OutputDir:  "/tmp/restored",
		DaysBack:   3,
		IgnoreCase: &ignoreCase,
		BaseDir:    "/home/user/.local/share/histrestore",
		LogDir:     "/home/user/.local/share/histrestore/log",
		Filesystem: FilesystemConfig{
			Ignore: []string{"node_modules", "*.log"},
		},
		Destination: DestinationConfig{Type: "s3", S3Bucket: "restores", S3Prefix: "laptop", S3Region: "eu-west-1"},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  "/keys/histrestore.pub",
			PrivateKeyPath: "/keys/histrestore.key",
		},
		Journal: JournalConfig{Type: "sqlite", DataDir: "/home/user/.local/share/histrestore/journal"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.HistoryDir != original.HistoryDir {
		t.Errorf("HistoryDir = %q, want %q", got.HistoryDir, original.HistoryDir)
	}
	if got.OutputDir != original.OutputDir {
		t.Errorf("OutputDir = %q, want %q", got.OutputDir, original.OutputDir)
	}
	if got.DaysBack != 3 {
		t.Errorf("DaysBack = %d, want 3", got.DaysBack)
	}
	if got.IgnoreCase == nil || !*got.IgnoreCase {
		t.Errorf("IgnoreCase = %v, want true", got.IgnoreCase)
	}
	if got.Destination.Type != "s3" || got.Destination.S3Bucket != "restores" {
		t.Errorf("Destination = %+v", got.Destination)
	}
	if got.Encryption.Type != "age" {
		t.Errorf("Encryption.Type = %q, want age", got.Encryption.Type)
	}
	if got.Journal.Type != "sqlite" {
		t.Errorf("Journal.Type = %q, want sqlite", got.Journal.Type)
	}
	if len(got.Filesystem.Ignore) != 2 {
		t.Fatalf("len(Filesystem.Ignore) = %d, want 2", len(got.Filesystem.Ignore))
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/hr", "/data/History")

	if cfg.HistoryDir != "/data/History" {
		t.Errorf("HistoryDir = %q", cfg.HistoryDir)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, DefaultOutputDir)
	}
	if cfg.DaysBack != 7 {
		t.Errorf("DaysBack = %d, want 7", cfg.DaysBack)
	}
	if cfg.LogDir != "/data/hr/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/hr/log")
	}
	if cfg.Encryption.PublicKeyPath != "/data/hr/keys/histrestore.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q", cfg.Encryption.PublicKeyPath)
	}
	if cfg.Journal.Type != "none" || cfg.Destination.Type != "filesystem" {
		t.Errorf("unexpected backends: journal=%q destination=%q", cfg.Journal.Type, cfg.Destination.Type)
	}
}

func TestConfig_FoldCase(t *testing.T) {
	cfg := NewConfig("/b", "/h")
	if !cfg.FoldCase(true) || cfg.FoldCase(false) {
		t.Error("unset ignore_case should follow the platform default")
	}

	off := false
	cfg.IgnoreCase = &off
	if cfg.FoldCase(true) {
		t.Error("explicit ignore_case=false should win over the platform default")
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		defaults := NewConfig("/b", "/h")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"), defaults)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg == defaults {
			t.Error("Load() must return a copy, not the defaults pointer")
		}
		if cfg.HistoryDir != "/h" || cfg.OutputDir != DefaultOutputDir {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("file values override defaults, absent keys keep them", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "histrestore.toml")
		content := strings.Join([]string{
			`output_dir = "/out"`,
			`[journal]`,
			`type = "memory"`,
		}, "\n")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path, NewConfig("/b", "/h"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "/out" {
			t.Errorf("OutputDir = %q, want /out", cfg.OutputDir)
		}
		if cfg.Journal.Type != "memory" {
			t.Errorf("Journal.Type = %q, want memory", cfg.Journal.Type)
		}
		if cfg.HistoryDir != "/h" || cfg.DaysBack != 7 {
			t.Errorf("defaults lost: history_dir=%q days_back=%d", cfg.HistoryDir, cfg.DaysBack)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("output_dir = "), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path, NewConfig("/b", "/h")); err == nil {
			t.Fatal("Load() expected error for malformed file")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "histrestore.toml")

		if err := Init(path, NewConfig(dir, "/h")); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.HistoryDir != "/h" {
			t.Errorf("HistoryDir = %q, want /h", got.HistoryDir)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "histrestore.toml")
		cfg := NewConfig(dir, "/h")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile_MissingFile(t *testing.T) {
	if _, err := ReadFromFile("/nonexistent/histrestore.toml"); err == nil {
		t.Fatal("ReadFromFile() expected error for missing file")
	}
}
