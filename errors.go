package useradmin

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrInvalidCredentials is returned for login failures. Unknown email and
// wrong password produce this exact error so callers cannot enumerate users.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(goerrors.CodeUnauthorized)

// ErrUnauthorized is returned when an authenticated subject fails a
// credential re-check, e.g. the old password on a password change.
var ErrUnauthorized = goerrors.New("old password is incorrect", goerrors.CategoryAuth).
	WithTextCode("UNAUTHORIZED").
	WithCode(goerrors.CodeUnauthorized)

// ErrUnauthenticated is returned when a request carries no usable bearer token
var ErrUnauthenticated = goerrors.New("invalid authentication", goerrors.CategoryAuth).
	WithTextCode("UNAUTHENTICATED").
	WithCode(goerrors.CodeUnauthorized)

// ErrPermissionDenied is returned when the subject's role lacks a capability
var ErrPermissionDenied = goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
	WithTextCode("PERMISSION_DENIED").
	WithCode(goerrors.CodeForbidden)

// ErrUserNotFound is returned when no user exists for the given id
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode("USER_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrResetTokenNotFound is returned when no user holds the given reset token,
// including tokens that were already consumed.
var ErrResetTokenNotFound = goerrors.New("invalid token or user not found", goerrors.CategoryNotFound).
	WithTextCode("RESET_TOKEN_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrResetTokenExpired is returned when the reset request is older than the
// configured reset window.
var ErrResetTokenExpired = goerrors.New("password reset token has expired", goerrors.CategoryValidation).
	WithTextCode("RESET_TOKEN_EXPIRED")

// ErrPasswordMismatch is returned when the retyped password differs from the
// new password during a token based reset.
var ErrPasswordMismatch = goerrors.New("passwords do not match", goerrors.CategoryValidation).
	WithTextCode("PASSWORD_MISMATCH")

// ErrTokenExpired is returned for bearer tokens past their expiry
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail to parse or verify
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the hasher's verification failure
var ErrMismatchedHashAndPassword = goerrors.New("password does not match hash", goerrors.CategoryAuth).
	WithTextCode("HASH_MISMATCH")

// ErrNoEmptyString rejects empty input to the password hasher
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithTextCode("EMPTY_VALUE")

// ErrEmailTaken is returned when creating or updating a user with an email
// that belongs to a different account.
var ErrEmailTaken = goerrors.New("email already registered", goerrors.CategoryValidation).
	WithTextCode("EMAIL_TAKEN").
	WithMetadata(map[string]any{"field": "email"})

// ErrUnknownRole is returned when a user references a role that does not exist
var ErrUnknownRole = goerrors.New("role does not exist", goerrors.CategoryValidation).
	WithTextCode("UNKNOWN_ROLE").
	WithMetadata(map[string]any{"field": "role_id"})

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
