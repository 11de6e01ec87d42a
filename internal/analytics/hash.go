package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hasher turns IP addresses into stable pseudonyms for the lifetime of
// its salt.
type Hasher struct {
	salt string
}

// NewHasher returns a Hasher with a random salt.
func NewHasher() (*Hasher, error) {
	salt, err := RandomToken()
	if err != nil {
		return nil, err
	}
	return &Hasher{salt: salt}, nil
}

// NewHasherWithSalt returns a Hasher with a fixed salt.
func NewHasherWithSalt(salt string) *Hasher {
	return &Hasher{salt: salt}
}

// Hash returns the first 16 hex characters of sha256(ip + salt).
func (h *Hasher) Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RandomToken returns 32 random bytes hex encoded.
func RandomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
