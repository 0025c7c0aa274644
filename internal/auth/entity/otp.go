package entity

import (
	"strings"
	"time"

	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

// Outcomes of the login flow. Each one is a distinct sentinel so callers
// can match with errors.Is.
var (
	ErrRateLimited  = goerror.NewBusiness("too many requests, try again later", goerror.CodeTooManyRequest)
	ErrNotFound     = goerror.NewBusiness("code expired or not found", goerror.CodeNotFound)
	ErrInvalid      = goerror.NewBusiness("invalid code", goerror.CodeBadRequest)
	ErrUnauthorized = goerror.NewBusiness("invalid or expired token", goerror.CodeUnauthorized)
	ErrSendFailure  = goerror.NewBusiness("failed to deliver code", goerror.CodeBadGateway)
)

// Challenge is a pending one-time passcode for a subject.
type Challenge struct {
	Subject string
	// Digest is the keyed hash of the code. The code itself is never stored.
	Digest string
	// TTL bounds the challenge and its attempt counter.
	TTL time.Duration
	// Cooldown blocks re-issuance for its own, usually shorter, window.
	Cooldown time.Duration
}

// NormalizeSubject trims and lower-cases a subject so that casing variants
// of one address share a challenge. The local part is folded too, so
// "Bob@x.com" and "bob@x.com" are one subject even on case-sensitive mailboxes.
func NormalizeSubject(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
