package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned for an unsupported algorithm name.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the secret is shorter than the hash output.
	ErrSigningKeyTooShort = errors.New("JWT signing key is shorter than the hash output")

	// ErrInvalidToken is returned for any token that fails verification:
	// bad signature, malformed, expired, wrong algorithm, wrong type or
	// missing subject.
	ErrInvalidToken = errors.New("invalid token")
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// JWT issues and verifies access and refresh tokens.
type JWT interface {
	CreateAccess(subject string) (string, error)
	CreateRefresh(subject string) (string, error)
	// VerifyAccess returns the claims of a valid access token.
	VerifyAccess(token string) (Claims, error)
	// VerifyRefresh returns the subject of a valid refresh token.
	VerifyRefresh(token string) (string, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Algorithm is HS256, HS384 or HS512. Empty means HS256.
	Algorithm string
	// Issuer is written to and required in the iss claim when not empty.
	Issuer string
	// AccessTTL is the access token lifetime.
	AccessTTL time.Duration
	// RefreshTTL is the refresh token lifetime.
	RefreshTTL time.Duration
	// Clock provides the current time source.
	Clock clocker
	// UUID generates token IDs.
	UUID generator
}

// Claims is the token payload.
type Claims struct {
	jwt.RegisteredClaims
	// Type is "access" or "refresh".
	Type TokenType `json:"type"`
}

// GetAuth returns the JWT claims stored in the context, if any.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores JWT claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
