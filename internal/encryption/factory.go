package encryption

import (
	"fmt"

	"histrestore/internal/config"
	"histrestore/internal/hr"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
// An age encryptor requires its key pair to exist (see `histrestore keys init`).
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (hr.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return NewPlainEncryptor(), nil
	case "age":
		e := NewAgeEncryptor(cfg)
		if !e.IsConfigured() {
			return nil, fmt.Errorf("age encryption selected but no key pair at %s: run `histrestore keys init`", cfg.PublicKeyPath)
		}
		return e, nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
