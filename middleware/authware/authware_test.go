package authware_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-useradmin/middleware/authware"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct{}

func (stubValidator) Validate(string) (authware.AuthClaims, error) { return nil, nil }

func stubResolver(context.Context, string) (any, error) { return nil, nil }

func TestGetDefaultConfig(t *testing.T) {
	cfg := authware.GetDefaultConfig(authware.Config{
		TokenValidator: stubValidator{},
		UserResolver:   stubResolver,
	})

	assert.Equal(t, "claims", cfg.ContextKey)
	assert.Equal(t, "current_user", cfg.UserContextKey)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.Contains(t, cfg.TokenLookup, "header:")
	assert.NotNil(t, cfg.SuccessHandler)
	assert.NotNil(t, cfg.ErrorHandler)
}

func TestGetDefaultConfigRequiresValidator(t *testing.T) {
	assert.Panics(t, func() {
		authware.GetDefaultConfig(authware.Config{
			UserResolver: stubResolver,
		})
	})
}

func TestGetDefaultConfigRequiresResolver(t *testing.T) {
	assert.Panics(t, func() {
		authware.GetDefaultConfig(authware.Config{
			TokenValidator: stubValidator{},
		})
	})
}

func TestGetExtractors(t *testing.T) {
	tests := []struct {
		name   string
		lookup string
		count  int
	}{
		{"single header", "header:Authorization", 1},
		{"header and cookie", "header:Authorization,cookie:access_token", 2},
		{"all sources", "header:Authorization, cookie:access_token, query:token, param:token", 4},
		{"unknown source ignored", "body:token", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractors := authware.GetExtractors(tt.lookup, "Bearer")
			assert.Len(t, extractors, tt.count)
		})
	}
}
