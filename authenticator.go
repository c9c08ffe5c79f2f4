package useradmin

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Auther implements Authenticator on top of the repository manager
type Auther struct {
	repos         RepositoryManager
	hasher        PasswordAuthenticator
	tokenService  TokenService
	resetTokenTTL string
	logger        Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repos RepositoryManager, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		repos:         repos,
		hasher:        defHasher{},
		tokenService:  tokenService,
		resetTokenTTL: opts.GetResetTokenTTL(),
		logger:        defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

func (s *Auther) WithHasher(hasher PasswordAuthenticator) *Auther {
	s.hasher = hasher
	return s
}

func (s *Auther) WithTokenService(ts TokenService) *Auther {
	s.tokenService = ts
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the email and password pair and returns a signed access
// token. Unknown email, missing password hash, and wrong password all return
// the same ErrInvalidCredentials so responses do not leak which emails exist.
// Login performs no writes.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Login find by email: %v", err)
		return "", ErrInvalidCredentials
	}

	if !user.HasPassword() {
		s.logger.Warn("Login attempt for account without password: %s", user.ID)
		return "", ErrInvalidCredentials
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(user.ID.String())
	if err != nil {
		s.logger.Error("Login token generation: %v", err)
		return "", err
	}

	return token, nil
}

// ChangePassword rotates the password of an authenticated user after
// re-checking the old one. A missing account and a wrong old password both
// return ErrUnauthorized, the caller only learns that the credential check
// failed. The new hash is computed outside the transaction; only the single
// row update runs inside it.
func (s *Auther) ChangePassword(ctx context.Context, userID string, oldPassword, newPassword string) (*User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.repos.Users().GetWithRole(ctx, id)
	if err != nil {
		s.logger.Error("ChangePassword find user: %v", err)
		return nil, ErrUnauthorized
	}

	if !user.HasPassword() {
		return nil, ErrUnauthorized
	}

	if err := s.hasher.ComparePasswordAndHash(oldPassword, user.PasswordHash); err != nil {
		return nil, ErrUnauthorized
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	var updated *User
	err = s.repos.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		updated, err = s.repos.Users().UpdatePasswordTx(ctx, tx, id, hash)
		return err
	})

	if err != nil {
		s.logger.Error("ChangePassword update: %v", err)
		return nil, err
	}

	updated.Role = user.Role

	return updated, nil
}

// ChangePasswordWithResetToken finalizes an invitation or reset flow: it
// looks the user up by the opaque token, installs the new password, burns the
// token, and returns a fresh access token so the client is logged in
// immediately. The retyped password is compared only after the token lookup
// succeeds, matching the lookup-first contract of the endpoint.
func (s *Auther) ChangePasswordWithResetToken(ctx context.Context, resetToken, newPassword, retypedPassword string) (string, error) {
	if resetToken == "" {
		return "", ErrResetTokenNotFound
	}

	var userID uuid.UUID

	err := s.repos.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.repos.Users().GetByResetTokenTx(ctx, tx, resetToken)
		if err != nil {
			s.logger.Error("ChangePasswordWithResetToken find by token: %v", err)
			return ErrResetTokenNotFound
		}

		if user.ResetRequestedAt != nil {
			expired, err := IsOutsideThresholdPeriod(*user.ResetRequestedAt, s.resetTokenTTL)
			if err != nil {
				return err
			}
			if expired {
				return ErrResetTokenExpired
			}
		}

		if newPassword != retypedPassword {
			return ErrPasswordMismatch
		}

		hash, err := s.hasher.HashPassword(newPassword)
		if err != nil {
			return err
		}

		if _, err = s.repos.Users().ConsumeResetTokenTx(ctx, tx, user.ID, hash); err != nil {
			return err
		}

		userID = user.ID
		return nil
	})

	if err != nil {
		return "", err
	}

	token, err := s.tokenService.Generate(userID.String())
	if err != nil {
		s.logger.Error("ChangePasswordWithResetToken token generation: %v", err)
		return "", err
	}

	return token, nil
}

type defHasher struct{}

func (defHasher) HashPassword(password string) (string, error) {
	return HashPassword(password)
}

func (defHasher) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}
