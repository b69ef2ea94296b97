package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("a user with that phone number already exists")
	ErrPasswordMismatch = errors.New("password did not match the stored password")

	// ErrCascadeIncomplete means the user record was removed but one or
	// more of its checks could not be deleted.
	ErrCascadeIncomplete = errors.New("not all of the user's checks could be deleted")
)

// User is keyed by its 10-character phone number. The phone is immutable
// after creation. Checks holds the ids of the checks this user owns, in
// creation order; it is maintained by the check lifecycle, not by callers.
type User struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Phone          string   `json:"phone"`
	HashedPassword string   `json:"hashedPassword,omitempty"`
	TOSAgreement   bool     `json:"tosAgreement"`
	Checks         []string `json:"checks,omitempty"`
}
