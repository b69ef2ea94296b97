package handler

const (
	errInternalServer    = "Internal server error"
	errInvalidInput      = "Missing required fields, or fields are invalid"
	errUserExists        = "A user with that phone number already exists"
	errUserNotFound      = "User not found"
	errForbidden         = "Missing required token in header, or token is invalid"
	errUnauthorized      = "Unauthorized"
	errPasswordMismatch  = "Password did not match the stored password"
	errTokenNotFound     = "Token not found"
	errTokenExpired      = "The token has already expired, and cannot be extended"
	errCheckNotFound     = "Check not found"
	errMaxChecksReached  = "The user already has the maximum number of checks"
	errCascadeIncomplete = "Not all of the user's checks could be deleted"
)
