package hr

import "io"

// Encryptor transforms restored content on its way to the destination.
type Encryptor interface {
	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Extension is appended to restored file names, e.g. ".age".
	// An empty extension means content is written unchanged and Encrypt is not called.
	Extension() string
}
