package domain

import (
	"errors"
	"time"
)

const (
	// TokenIDLength is the length of a token id (and of check ids).
	TokenIDLength = 20

	// TokenTTL is how far into the future a freshly issued or renewed
	// token expires.
	TokenTTL = time.Hour
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token has expired and cannot be renewed")

	ErrUnauthorized = errors.New("missing or invalid token")
	ErrForbidden    = errors.New("token does not authorize access to this resource")
)

// Token is a bearer credential scoped to one user. Expires is an absolute
// instant in epoch milliseconds; an expired token is treated as invalid on
// every check but is never purged from the store.
type Token struct {
	ID      string `json:"id"`
	Phone   string `json:"phone"`
	Expires int64  `json:"expires"`
}

// ExpiresAt returns the expiry instant as a time.Time.
func (t *Token) ExpiresAt() time.Time {
	return time.UnixMilli(t.Expires)
}

// Valid reports whether the token authorizes the given phone at the given
// instant.
func (t *Token) Valid(phone string, now time.Time) bool {
	return t.Phone == phone && t.Expires > now.UnixMilli()
}
