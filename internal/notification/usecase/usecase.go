package usecase

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	retryBase         = 200 * time.Millisecond
	retryCap          = 5 * time.Second
	defaultMaxRetries = 4
)

type repoDelivery interface {
	Send(ctx context.Context, subject, code string) error
}

type Usecase struct {
	repoDelivery repoDelivery
	idemp        idempotency.Idempotency
	validator    validator.Validator
	clock        clock.Clocker
	ins          instrument.Instrumentation
	backoff      func() retry.Backoff
}

type Dependency struct {
	RepoDelivery repoDelivery
	Idempotency  idempotency.Idempotency
	Validator    validator.Validator
	Clock        clock.Clocker
	Instrument   instrument.Instrumentation
	// MaxRetries bounds delivery retries after the first attempt. Zero uses
	// the default.
	MaxRetries   uint64
}

func New(dep Dependency) *Usecase {
	maxRetries := dep.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	uc := &Usecase{
		repoDelivery: dep.RepoDelivery,
		idemp:        dep.Idempotency,
		validator:    dep.Validator,
		clock:        dep.Clock,
		ins:          dep.Instrument,
	}
	uc.backoff = func() retry.Backoff {
		b := retry.NewFibonacci(retryBase)
		b = retry.WithCappedDuration(retryCap, b)
		return retry.WithMaxRetries(maxRetries, b)
	}

	return uc
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
