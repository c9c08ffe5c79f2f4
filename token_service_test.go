package useradmin_test

import (
	"testing"
	"time"

	useradmin "github.com/goliatone/go-useradmin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() useradmin.TokenService {
	return useradmin.NewTokenService(
		[]byte("test-signing-key-0123456789"),
		60,
		"useradmin-test",
		nil,
		nil,
	)
}

func TestTokenServiceRoundTrip(t *testing.T) {
	ts := newTestTokenService()
	subject := uuid.NewString()

	token, err := ts.Generate(subject)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, subject, claims.Subject())
	assert.Equal(t, subject, claims.UserID())
	assert.True(t, claims.Expires().After(time.Now()))
	assert.False(t, claims.IssuedAt().IsZero())
}

func TestTokenServiceRejectsEmptySubject(t *testing.T) {
	ts := newTestTokenService()

	_, err := ts.Generate("")
	assert.Error(t, err)
}

func TestTokenServiceExpiredToken(t *testing.T) {
	ts := newTestTokenService()

	token, err := ts.GenerateWithTTL(uuid.NewString(), -time.Minute)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	require.Error(t, err)
	assert.True(t, useradmin.IsTokenExpiredError(err))
}

func TestTokenServiceMalformedToken(t *testing.T) {
	ts := newTestTokenService()

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"empty", ""},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.e30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.Validate(tt.token)
			require.Error(t, err)
			assert.True(t, useradmin.IsMalformedError(err))
		})
	}
}

func TestTokenServiceWrongKey(t *testing.T) {
	ts := newTestTokenService()
	other := useradmin.NewTokenService(
		[]byte("a-completely-different-key!!"),
		60,
		"useradmin-test",
		nil,
		nil,
	)

	token, err := other.Generate(uuid.NewString())
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.Error(t, err)
}

func TestTokenServiceWrongIssuer(t *testing.T) {
	ts := newTestTokenService()
	other := useradmin.NewTokenService(
		[]byte("test-signing-key-0123456789"),
		60,
		"someone-else",
		nil,
		nil,
	)

	token, err := other.Generate(uuid.NewString())
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.Error(t, err)
}
