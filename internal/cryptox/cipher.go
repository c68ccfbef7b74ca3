// Package cryptox implements the one canonical field cipher used everywhere
// in sshm.io: AES-256-GCM over keys derived from the user's passphrase.
//
// Every sensitive attribute (host login/address/port, password secrets, key
// material) passes through Encrypt before it leaves the client and through
// Decrypt after it comes back. The server only ever sees the opaque output.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

const nonceSize = 12

// kdfSalt is the fixed domain-separation salt for derivation v1. The salt
// is constant so that every client derives the same key from the same
// passphrase with nothing but the passphrase itself; changing it would make
// all previously encrypted data unreadable.
var kdfSalt = []byte("sshm.io/kdf/v1")

var (
	// ErrEmptyPassphrase is returned when key derivation is attempted with
	// an empty passphrase.
	ErrEmptyPassphrase = errors.New("cryptox: empty passphrase")

	// ErrInvalidKeySize is returned when a key is not 32 bytes.
	ErrInvalidKeySize = errors.New("cryptox: invalid key size, must be 32 bytes")

	// ErrMalformedCiphertext is returned when ciphertext is not valid base64
	// or is too short to contain a nonce and tag.
	ErrMalformedCiphertext = errors.New("cryptox: malformed ciphertext")

	// ErrDecryptionFailed is returned on authentication-tag mismatch, i.e.
	// a wrong key or tampered ciphertext. Garbage is never returned as text.
	ErrDecryptionFailed = errors.New("cryptox: decryption failed")
)

// DeriveKey produces the 256-bit encryption key from a passphrase using
// argon2id (derivation v1). Raw or zero-padded passphrase bytes are never
// used as key material.
func DeriveKey(passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	return argon2.IDKey(passphrase, kdfSalt, 1, 64*1024, 4, KeySize), nil
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random nonce and
// returns base64(nonce || ciphertext || tag). A new nonce is drawn on every
// call, so reusing one key across many fields is safe.
func Encrypt(plaintext string, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any malformed input yields ErrMalformedCiphertext;
// a wrong key or a flipped byte yields ErrDecryptionFailed.
func Decrypt(encoded string, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	if len(sealed) < nonceSize+aead.Overhead() {
		return "", ErrMalformedCiphertext
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// IsCryptoError reports whether err belongs to this package's failure set.
// Callers use it to distinguish "re-prompt for the passphrase" failures from
// everything else.
func IsCryptoError(err error) bool {
	return errors.Is(err, ErrEmptyPassphrase) ||
		errors.Is(err, ErrInvalidKeySize) ||
		errors.Is(err, ErrMalformedCiphertext) ||
		errors.Is(err, ErrDecryptionFailed)
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
