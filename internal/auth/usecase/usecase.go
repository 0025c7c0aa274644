package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/hash"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/otp"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultOTPTTL         = 300 * time.Second
	defaultOTPCooldown    = 30 * time.Second
	defaultOTPMaxAttempts = 5
)

type repoCache interface {
	CreateChallenge(ctx context.Context, ch entity.Challenge) (bool, error)
	GetChallenge(ctx context.Context, subject string) (string, bool, error)
	IncrAttempts(ctx context.Context, subject string, ttl time.Duration) (int64, error)
	DeleteChallenge(ctx context.Context, subject string) (bool, error)
}

type repoNotifier interface {
	Send(ctx context.Context, subject, code string) (bool, error)
}

type Usecase struct {
	repoCache    repoCache
	repoNotifier repoNotifier
	validator    validator.Validator
	cfg          config.Config
	hmac         hash.Hash
	code         otp.Generator
	jwt          jwt.JWT
	clock        clock.Clocker
	ins          instrument.Instrumentation
}

type Dependency struct {
	RepoCache    repoCache
	RepoNotifier repoNotifier
	Validator    validator.Validator
	Config       config.Config
	HMAC         hash.Hash
	Code         otp.Generator
	JWT          jwt.JWT
	Clock        clock.Clocker
	Instrument   instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoCache:    dep.RepoCache,
		repoNotifier: dep.RepoNotifier,
		validator:    dep.Validator,
		cfg:          dep.Config,
		hmac:         dep.HMAC,
		code:         dep.Code,
		jwt:          dep.JWT,
		clock:        dep.Clock,
		ins:          dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	return OTPTTL(s.cfg)
}

// OTPTTL is the configured challenge lifetime.
func OTPTTL(cfg config.Config) time.Duration {
	if d := cfg.GetSecond("modules.auth.otp_ttl_seconds"); d > 0 {
		return d
	}
	return defaultOTPTTL
}

func (s *Usecase) otpCooldown() time.Duration {
	if d := s.cfg.GetSecond("modules.auth.otp_send_cooldown_seconds"); d > 0 {
		return d
	}
	return defaultOTPCooldown
}

func (s *Usecase) otpMaxAttempts() int64 {
	if n := s.cfg.GetInt64("modules.auth.otp_confirm_max_attempts"); n > 0 {
		return n
	}
	return defaultOTPMaxAttempts
}
