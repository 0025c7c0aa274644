package jwt

import (
	"strings"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs and verifies tokens with a shared HMAC secret.
type Symmetric struct {
	method     *libJWT.SigningMethodHMAC
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clocker
	uuid       generator
	parser     *libJWT.Parser
}

// NewSymmetric constructs a Symmetric issuer for cfg.Algorithm.
func NewSymmetric(cfg Config) (*Symmetric, error) {
	method, minKey, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	if len(cfg.Secret) < minKey {
		return nil, ErrSigningKeyTooShort
	}

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{method.Alg()}),
		libJWT.WithTimeFunc(cfg.Clock.Now),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, libJWT.WithIssuer(cfg.Issuer))
	}

	return &Symmetric{
		method:     method,
		secret:     cfg.Secret,
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		clock:      cfg.Clock,
		uuid:       cfg.UUID,
		parser:     libJWT.NewParser(opts...),
	}, nil
}

func signingMethod(alg string) (*libJWT.SigningMethodHMAC, int, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HS256":
		return libJWT.SigningMethodHS256, 32, nil
	case "HS384":
		return libJWT.SigningMethodHS384, 48, nil
	case "HS512":
		return libJWT.SigningMethodHS512, 64, nil
	default:
		return nil, 0, ErrInvalidSigningMethod
	}
}

// CreateAccess signs a short-lived access token for subject.
func (s *Symmetric) CreateAccess(subject string) (string, error) {
	return s.create(subject, TokenAccess, s.accessTTL)
}

// CreateRefresh signs a long-lived refresh token for subject.
func (s *Symmetric) CreateRefresh(subject string) (string, error) {
	return s.create(subject, TokenRefresh, s.refreshTTL)
}

func (s *Symmetric) create(subject string, typ TokenType, ttl time.Duration) (string, error) {
	now := s.clock.Now()

	return libJWT.
		NewWithClaims(s.method, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        s.uuid.Generate(),
				Subject:   subject,
				Issuer:    s.issuer,
				IssuedAt:  libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(now.Add(ttl)),
			},
			Type: typ,
		}).
		SignedString(s.secret)
}

// VerifyAccess parses token and requires the access type.
func (s *Symmetric) VerifyAccess(token string) (Claims, error) {
	return s.verify(token, TokenAccess)
}

// VerifyRefresh parses token, requires the refresh type and returns its subject.
func (s *Symmetric) VerifyRefresh(token string) (string, error) {
	claims, err := s.verify(token, TokenRefresh)
	if err != nil {
		return "", err
	}

	return claims.Subject, nil
}

func (s *Symmetric) verify(tokenStr string, want TokenType) (Claims, error) {
	var claims Claims

	token, err := s.parser.ParseWithClaims(tokenStr, &claims, func(*libJWT.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if claims.Type != want || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
