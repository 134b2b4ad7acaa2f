package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// SessionTokenBytes is the entropy of a verification session token
const SessionTokenBytes = 32

var randomRead = rand.Read

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateSessionToken generates a 64-character session token
func GenerateSessionToken() (string, error) {
	return GenerateRandomToken(SessionTokenBytes)
}

// TokenHasher derives the stored lookup hash of a token with keyed BLAKE2b-256.
// A database dump alone is not enough to resolve hashes back to sessions.
type TokenHasher struct {
	key []byte
}

// NewTokenHasher creates a hasher. BLAKE2b accepts keys up to 64 bytes.
func NewTokenHasher(key string) (*TokenHasher, error) {
	if len(key) == 0 || len(key) > blake2b.Size {
		return nil, fmt.Errorf("token hash key must be 1..%d bytes, got %d", blake2b.Size, len(key))
	}
	return &TokenHasher{key: []byte(key)}, nil
}

// Hash returns the hex encoded keyed hash of token
func (h *TokenHasher) Hash(token string) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// key length is validated in NewTokenHasher
		panic(err)
	}
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
