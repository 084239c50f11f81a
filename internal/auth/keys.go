// Package auth verifies the bearer tokens that identify callers.
//
// Tokens are PASETO v4.local with the numeric user id as subject. Issuing
// tokens belongs to the identity service; Issue exists for development
// tooling and tests.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// PASETO v4 requires a 256-bit (32-byte) symmetric key.
	keyLength = 32
	// Expected hex-encoded length (32 bytes = 64 hex characters).
	keyHexLength = 64
)

// GenerateKeyHex returns a fresh random key, hex encoded.
func GenerateKeyHex() (string, error) {
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate auth key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// DecodeKeyHex validates and decodes a hex-encoded key.
func DecodeKeyHex(keyHex string) ([]byte, error) {
	keyHex = strings.TrimSpace(keyHex)
	if len(keyHex) != keyHexLength {
		return nil, fmt.Errorf("auth key must be exactly %d hex characters, got %d", keyHexLength, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("auth key is not valid hex: %w", err)
	}
	return key, nil
}

// LoadOrGenerateKey reads the hex key stored at path, creating it with a
// fresh key when the file does not exist.
func LoadOrGenerateKey(path string) (string, error) {
	//#nosec G304 -- key path comes from operator configuration
	if data, err := os.ReadFile(path); err == nil {
		keyHex := strings.TrimSpace(string(data))
		if _, err := DecodeKeyHex(keyHex); err != nil {
			return "", fmt.Errorf("key file %s: %w", path, err)
		}
		return keyHex, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read key file: %w", err)
	}

	keyHex, err := GenerateKeyHex()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(keyHex), 0o600); err != nil {
		return "", fmt.Errorf("save auth key: %w", err)
	}
	return keyHex, nil
}
