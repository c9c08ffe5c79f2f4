package useradmin_test

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	useradmin "github.com/goliatone/go-useradmin"
	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, goerrors.CategoryAuth, useradmin.ErrInvalidCredentials.Category)
	assert.Equal(t, goerrors.CodeUnauthorized, useradmin.ErrInvalidCredentials.Code)

	assert.Equal(t, goerrors.CategoryAuthz, useradmin.ErrPermissionDenied.Category)
	assert.Equal(t, goerrors.CodeForbidden, useradmin.ErrPermissionDenied.Code)

	assert.Equal(t, goerrors.CategoryNotFound, useradmin.ErrUserNotFound.Category)
	assert.Equal(t, goerrors.CategoryNotFound, useradmin.ErrResetTokenNotFound.Category)

	assert.Equal(t, goerrors.CategoryValidation, useradmin.ErrPasswordMismatch.Category)
	assert.Equal(t, goerrors.CategoryValidation, useradmin.ErrResetTokenExpired.Category)
}

func TestLoginErrorsDoNotLeakAccounts(t *testing.T) {
	// the same error value covers unknown email and wrong password
	assert.Equal(t, "invalid email or password", useradmin.ErrInvalidCredentials.Message)
	assert.NotContains(t, useradmin.ErrInvalidCredentials.Error(), "email not found")
	assert.NotContains(t, useradmin.ErrInvalidCredentials.Error(), "wrong password")
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, useradmin.IsTokenExpiredError(useradmin.ErrTokenExpired))
	assert.False(t, useradmin.IsTokenExpiredError(useradmin.ErrTokenMalformed))
	assert.False(t, useradmin.IsTokenExpiredError(nil))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, useradmin.IsMalformedError(useradmin.ErrTokenMalformed))
	assert.False(t, useradmin.IsMalformedError(useradmin.ErrTokenExpired))
	assert.False(t, useradmin.IsMalformedError(nil))
}
