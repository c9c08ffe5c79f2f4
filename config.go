package useradmin

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// SimpleConfig is a plain struct implementation of Config
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration int
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
	ResetTokenTTL   string
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetSigningKey() string    { return c.SigningKey }
func (c *SimpleConfig) GetSigningMethod() string { return c.SigningMethod }
func (c *SimpleConfig) GetContextKey() string    { return c.ContextKey }
func (c *SimpleConfig) GetTokenExpiration() int  { return c.TokenExpiration }
func (c *SimpleConfig) GetTokenLookup() string   { return c.TokenLookup }
func (c *SimpleConfig) GetAuthScheme() string    { return c.AuthScheme }
func (c *SimpleConfig) GetIssuer() string        { return c.Issuer }
func (c *SimpleConfig) GetAudience() []string    { return c.Audience }
func (c *SimpleConfig) GetResetTokenTTL() string { return c.ResetTokenTTL }

// NewConfigFromEnv loads configuration from the environment. A .env file in
// the working directory is picked up when present, existing environment
// variables win.
func NewConfigFromEnv() *SimpleConfig {
	godotenv.Load()

	cfg := &SimpleConfig{
		SigningKey:      getEnv("AUTH_SIGNING_KEY", ""),
		SigningMethod:   getEnv("AUTH_SIGNING_METHOD", "HS256"),
		ContextKey:      getEnv("AUTH_CONTEXT_KEY", "current_user"),
		TokenExpiration: getEnvInt("AUTH_TOKEN_EXPIRATION_MINUTES", 60),
		TokenLookup:     getEnv("AUTH_TOKEN_LOOKUP", "header:Authorization"),
		AuthScheme:      getEnv("AUTH_SCHEME", "Bearer"),
		Issuer:          getEnv("AUTH_ISSUER", "useradmin"),
		ResetTokenTTL:   getEnv("AUTH_RESET_TOKEN_TTL", "24h"),
	}

	if aud := getEnv("AUTH_AUDIENCE", ""); aud != "" {
		for _, a := range strings.Split(aud, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Audience = append(cfg.Audience, a)
			}
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
