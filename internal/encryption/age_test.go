package encryption

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"histrestore/internal/config"
)

func newTestAgeEncryptor(t *testing.T) *AgeEncryptor {
	t.Helper()
	dir := t.TempDir()
	cfg := config.EncryptionConfig{
		PublicKeyPath:  filepath.Join(dir, "keys", "histrestore.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "histrestore.key"),
	}
	return NewAgeEncryptor(cfg)
}

func TestAgeEncryptor_IsConfigured_BeforeSetup(t *testing.T) {
	t.Parallel()
	e := newTestAgeEncryptor(t)
	if e.IsConfigured() {
		t.Error("IsConfigured() = true before Setup, want false")
	}
}

func TestAgeEncryptor_Setup_IsConfigured(t *testing.T) {
	t.Parallel()
	e := newTestAgeEncryptor(t)

	if err := e.Setup("test-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if !e.IsConfigured() {
		t.Error("IsConfigured() = false after Setup, want true")
	}
}

func TestAgeEncryptor_EncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "simple text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "binary data", input: []byte{0x00, 0xff, 0x01, 0xfe}},
		{name: "large data", input: bytes.Repeat([]byte("abcdef"), 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			passphrase := "test-passphrase"
			e := newTestAgeEncryptor(t)
			if err := e.Setup(passphrase); err != nil {
				t.Fatalf("Setup() error = %v", err)
			}

			// Encrypt
			var encrypted bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &encrypted); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			// Encrypted output should differ from plaintext
			if len(tt.input) > 0 && bytes.Equal(encrypted.Bytes(), tt.input) {
				t.Error("encrypted output is identical to plaintext")
			}

			// Decrypt
			ctx, err := e.Unlock(passphrase)
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}

			var decrypted bytes.Buffer
			if err := ctx.Decrypt(bytes.NewReader(encrypted.Bytes()), &decrypted); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}

			if !bytes.Equal(decrypted.Bytes(), tt.input) {
				t.Errorf("round-trip failed: got %d bytes, want %d bytes", decrypted.Len(), len(tt.input))
			}
		})
	}
}

func TestAgeEncryptor_UnlockWrongPassphrase(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if err := e.Setup("correct-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	_, err := e.Unlock("wrong-passphrase")
	if err == nil {
		t.Error("Unlock() with wrong passphrase should return error")
	}
}

func TestAgeEncryptor_EncryptBeforeSetup(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	var buf bytes.Buffer
	err := e.Encrypt(bytes.NewReader([]byte("data")), &buf)
	if err == nil {
		t.Error("Encrypt() before Setup should return error")
	}
}

func TestAgeEncryptor_UnlockBeforeSetup(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	_, err := e.Unlock("passphrase")
	if err == nil {
		t.Error("Unlock() before Setup should return error")
	}
}

func TestAgeEncryptor_SetupRefusesToOverwrite(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if err := e.Setup("first"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := e.Setup("second"); err == nil {
		t.Error("second Setup() should refuse to overwrite existing keys")
	}

	// The original passphrase still unlocks the key.
	if _, err := e.Unlock("first"); err != nil {
		t.Errorf("Unlock() after refused Setup error = %v", err)
	}
}

func TestAgeEncryptor_SetupEmptyPassphrase(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if err := e.Setup(""); err == nil {
		t.Error("Setup(\"\") should return error")
	}
	if e.IsConfigured() {
		t.Error("IsConfigured() = true after failed Setup")
	}
}

func TestAgeEncryptor_Extension(t *testing.T) {
	t.Parallel()
	if got := newTestAgeEncryptor(t).Extension(); got != ".age" {
		t.Errorf("Extension() = %q, want .age", got)
	}
}

func TestAgeDecryptionContext_DecryptFile(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if err := e.Setup("pw"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	ctx, err := e.Unlock("pw")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	dir := t.TempDir()
	encPath := filepath.Join(dir, "main.go.age")
	var encrypted bytes.Buffer
	if err := e.Encrypt(strings.NewReader("package main\n"), &encrypted); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if err := os.WriteFile(encPath, encrypted.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	if err := os.Chtimes(encPath, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	t.Run("writes plaintext next to the copy", func(t *testing.T) {
		out, err := ctx.DecryptFile(encPath)
		if err != nil {
			t.Fatalf("DecryptFile() error = %v", err)
		}
		if out != filepath.Join(dir, "main.go") {
			t.Errorf("output path = %q", out)
		}
		got, _ := os.ReadFile(out)
		if string(got) != "package main\n" {
			t.Errorf("content = %q", got)
		}
		info, _ := os.Stat(out)
		if !info.ModTime().Equal(mtime) {
			t.Errorf("ModTime = %v, want %v", info.ModTime(), mtime)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		if _, err := ctx.DecryptFile(encPath); err == nil {
			t.Error("second DecryptFile() should fail because the output exists")
		}
	})

	t.Run("requires the .age suffix", func(t *testing.T) {
		if _, err := ctx.DecryptFile(filepath.Join(dir, "main.go")); err == nil {
			t.Error("DecryptFile() on a plain file should fail")
		}
	})
}
