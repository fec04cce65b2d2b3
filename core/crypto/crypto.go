package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// Encryptor seals and opens small secrets (OAuth refresh credentials) for
// storage at rest.
type Encryptor struct {
	key [32]byte
}

// NewEncryptor builds an Encryptor from a 64-char hex key.
func NewEncryptor(hexKey string) (*Encryptor, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(raw))
	}

	var key [32]byte
	copy(key[:], raw)
	return &Encryptor{key: key}, nil
}

// Encrypt seals plaintext with a random nonce and returns base64 text
// suitable for a database column.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &e.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (e *Encryptor) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}
	if len(sealed) < 24 {
		return "", fmt.Errorf("ciphertext too short")
	}

	var nonce [24]byte
	copy(nonce[:], sealed[:24])

	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, &e.key)
	if !ok {
		return "", fmt.Errorf("failed to decrypt")
	}
	return string(plaintext), nil
}
