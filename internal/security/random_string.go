package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var (
	errNonPositiveLength = errors.New("length must be positive")
	errEmptyAlphabet     = errors.New("alphabet must not be empty")
)

const recordIDAlphabet = "abcdefghijklmnopqrstuvwxyz1234567890"

// RandomString returns a cryptographically secure, unbiased string of the
// requested length drawn from the alphabet.
func RandomString(length int, alphabet string) (string, error) {
	if length <= 0 {
		return "", errNonPositiveLength
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for i := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[i] = alphabet[position.Int64()]
	}
	return string(value), nil
}

// NewRecordID returns a random lowercase-alphanumeric id of the given
// length, used for token and check keys.
func NewRecordID(length int) (string, error) {
	return RandomString(length, recordIDAlphabet)
}
