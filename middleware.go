package useradmin

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-useradmin/middleware/authware"
	"github.com/google/uuid"
)

// NewProtectedRoute builds the middleware guarding authenticated routes. It
// validates the bearer token, then re-resolves the subject and its role from
// the store, so revoked users and role changes apply on the next request.
func NewProtectedRoute(cfg Config, repo RepositoryManager, validator TokenService, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = NewHTTPErrorHandler(nil)
	}

	return authware.New(authware.Config{
		ErrorHandler:   MakeAuthErrorHandler(errorHandler),
		ContextKey:     "claims",
		UserContextKey: cfg.GetContextKey(),
		TokenLookup:    cfg.GetTokenLookup(),
		AuthScheme:     cfg.GetAuthScheme(),
		TokenValidator: tokenValidatorAdapter{validator},
		UserResolver: func(ctx context.Context, subjectID string) (any, error) {
			id, err := uuid.Parse(subjectID)
			if err != nil {
				return nil, ErrUnauthenticated
			}

			user, err := repo.Users().GetWithRole(ctx, id)
			if err != nil {
				return nil, ErrUnauthenticated
			}

			return user, nil
		},
		ContextEnricher: func(c context.Context, claims authware.AuthClaims, user any) context.Context {
			if u, ok := user.(*User); ok {
				c = WithContext(c, u)
			}
			if ac, ok := claims.(AuthClaims); ok {
				c = WithClaimsContext(c, ac)
			}
			return c
		},
	})
}

// MakeAuthErrorHandler normalizes middleware failures into rich auth errors
// before handing them to the shared JSON error handler.
func MakeAuthErrorHandler(errorHandler router.ErrorHandler) router.ErrorHandler {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		return errorHandler(ctx, richErr)
	}
}

type tokenValidatorAdapter struct {
	ts TokenService
}

func (a tokenValidatorAdapter) Validate(tokenString string) (authware.AuthClaims, error) {
	claims, err := a.ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
