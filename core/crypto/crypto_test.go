package crypto

import (
	"strings"
	"testing"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	if err != nil {
		t.Fatalf("NewEncryptor: %v", err)
	}

	secret := "1//0gRefreshCredential-abc123"
	sealed, err := enc.Encrypt(secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if strings.Contains(sealed, secret) {
		t.Fatal("ciphertext contains plaintext")
	}

	got, err := enc.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != secret {
		t.Errorf("round trip mismatch: got %q want %q", got, secret)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	if err != nil {
		t.Fatalf("NewEncryptor: %v", err)
	}

	a, _ := enc.Encrypt("same input")
	b, _ := enc.Encrypt("same input")
	if a == b {
		t.Error("two encryptions of the same input produced identical ciphertext")
	}
}

func TestNewEncryptorRejectsBadKeys(t *testing.T) {
	if _, err := NewEncryptor("not-hex"); err == nil {
		t.Error("expected error for non-hex key")
	}
	if _, err := NewEncryptor("abcd"); err == nil {
		t.Error("expected error for short key")
	}
}

func TestDecryptRejectsTampered(t *testing.T) {
	enc, _ := NewEncryptor(testKey)
	sealed, _ := enc.Encrypt("credential")

	if _, err := enc.Decrypt("!!!"); err == nil {
		t.Error("expected error for invalid encoding")
	}
	tampered := "AAAA" + sealed[4:]
	if _, err := enc.Decrypt(tampered); err == nil {
		t.Error("expected error for tampered ciphertext")
	}
}
