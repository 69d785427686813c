package encryption

import (
	"io"

	"histrestore/internal/hr"
)

// PlainEncryptor leaves restored content unchanged.
type PlainEncryptor struct{}

var _ hr.Encryptor = PlainEncryptor{}

func NewPlainEncryptor() PlainEncryptor { return PlainEncryptor{} }

func (PlainEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	_, err := io.Copy(w, r)
	return err
}

func (PlainEncryptor) Extension() string { return "" }
