package useradmin

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	ChangePassword(ctx context.Context, userID string, oldPassword, newPassword string) (*User, error)
	ChangePasswordWithResetToken(ctx context.Context, resetToken, newPassword, retypedPassword string) (string, error)
}

// TokenService issues and validates signed bearer tokens. Tokens are
// stateless; rotating the signing key invalidates everything outstanding.
type TokenService interface {
	Generate(subjectID string) (string, error)
	GenerateWithTTL(subjectID string, ttl time.Duration) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int // minutes
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetResetTokenTTL() string // duration pattern, e.g. "24h"
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Mailer delivers a fully formed invitation or reset link. Delivery mechanics
// stay outside the core; failures are logged, never surfaced to the caller.
type Mailer interface {
	SendInvitation(ctx context.Context, to, fullname, link string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] USERADMIN "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] USERADMIN "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] USERADMIN "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] USERADMIN "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
