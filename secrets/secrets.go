// Package secrets seals small secrets, such as saved connection passwords,
// under a passphrase.
//
// The key is derived with Argon2id and the payload is encrypted with
// AES-256-GCM. Sealed bytes carry a one-byte version header followed by the
// salt, the nonce, and the ciphertext, so a future format change can be
// detected before decryption.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the cipher key from a passphrase.
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024 // KiB (64 MiB)
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
)

const (
	version  byte = 1
	saltLen       = 16
	nonceLen      = 12 // AES-GCM standard nonce size

	// armorPrefix marks a string produced by SealString.
	armorPrefix = "dbk1:"
)

var (
	// ErrWrongPassphrase is returned when authentication fails during Open.
	// GCM cannot distinguish a wrong passphrase from tampered ciphertext,
	// so this error covers both.
	ErrWrongPassphrase = errors.New("secrets: wrong passphrase or corrupted data")

	// ErrMalformed is returned when sealed data does not have the expected
	// structure.
	ErrMalformed = errors.New("secrets: malformed sealed data")
)

// Seal encrypts plaintext under the passphrase. Each call uses a fresh
// random salt and nonce, so sealing the same plaintext twice yields
// different outputs.
func Seal(passphrase, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("secrets: salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("secrets: nonce: %w", err)
	}

	out := make([]byte, 0, 1+saltLen+nonceLen+len(plaintext)+gcm.Overhead())
	out = append(out, version)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// Open decrypts data produced by Seal. It returns ErrMalformed when the
// structure is wrong and ErrWrongPassphrase when authentication fails.
func Open(passphrase, sealed []byte) ([]byte, error) {
	if len(sealed) < 1+saltLen+nonceLen {
		return nil, ErrMalformed
	}
	if sealed[0] != version {
		return nil, ErrMalformed
	}

	salt := sealed[1 : 1+saltLen]
	nonce := sealed[1+saltLen : 1+saltLen+nonceLen]
	ciphertext := sealed[1+saltLen+nonceLen:]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

// SealString seals plaintext and armors the result as a base64 string with
// the "dbk1:" prefix, suitable for storing in YAML config.
func SealString(passphrase, plaintext string) (string, error) {
	sealed, err := Seal([]byte(passphrase), []byte(plaintext))
	if err != nil {
		return "", err
	}
	return armorPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// OpenString unseals a string produced by SealString.
func OpenString(passphrase, armored string) (string, error) {
	if !strings.HasPrefix(armored, armorPrefix) {
		return "", ErrMalformed
	}
	sealed, err := base64.RawURLEncoding.DecodeString(armored[len(armorPrefix):])
	if err != nil {
		return "", ErrMalformed
	}
	plaintext, err := Open([]byte(passphrase), sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// IsSealed reports whether s carries the sealed-string armor prefix.
func IsSealed(s string) bool {
	return strings.HasPrefix(s, armorPrefix)
}

// newGCM derives the AES-256 key from the passphrase and salt and builds the
// AEAD.
func newGCM(passphrase, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secrets: cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secrets: gcm: %w", err)
	}
	return gcm, nil
}
