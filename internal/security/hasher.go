package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrEmptySecret is returned when asked to hash an empty string; an empty
// credential must never turn into a stored digest.
var ErrEmptySecret = errors.New("cannot hash an empty secret")

// Hasher produces keyed one-way digests of passwords. The key is the
// process-wide hashing secret from configuration, so the same password
// always maps to the same digest within one deployment and digests are
// useless without the key.
type Hasher struct {
	key []byte
}

func NewHasher(secret string) *Hasher {
	return &Hasher{key: []byte(secret)}
}

// Hash returns the hex HMAC-SHA256 digest of the password.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptySecret
	}
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Match compares a clear-text password against a stored digest in
// constant time.
func (h *Hasher) Match(password, digest string) bool {
	computed, err := h.Hash(password)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(computed), []byte(digest))
}
