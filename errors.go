package auth

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeUserExists signals an email/username collision at registration
	TextCodeUserExists = "USER_ALREADY_EXISTS"
	// TextCodeInvalidCreds covers both unknown identifier and bad password
	TextCodeInvalidCreds = "INVALID_CREDENTIALS"
	// TextCodeUserNotFound signals update/delete against a missing id
	TextCodeUserNotFound = "USER_NOT_FOUND"
	// TextCodeTokenExpired signals an expired session token
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeTokenMalformed covers forged, corrupted, or unparseable tokens
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeEmptyPassword signals an empty password input
	TextCodeEmptyPassword = "EMPTY_PASSWORD"
)

// ErrUserAlreadyExists is returned when registration collides with an
// existing email or username.
var ErrUserAlreadyExists = errors.New("user already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUserExists).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials is the single error kind for any authentication
// mismatch. Unknown identifier and wrong password are indistinguishable.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is returned when update or delete targets a nonexistent id.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrTokenExpired is returned when a session token is past its expiry.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token fails signature or parse
// verification.
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// isUniqueViolation detects a unique index collision surfaced by the
// database driver. SQLite and Postgres word it differently.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, ErrUserAlreadyExists) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
