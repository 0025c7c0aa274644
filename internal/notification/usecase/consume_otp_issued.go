package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpauth/internal/pkg/idempotency"
)

type ConsumeOTPIssuedInput struct {
	MessageID string
	Subject   string `validate:"required,contact"`
	Code      string `validate:"required,numeric"`
	ExpiresAt time.Time
}

// ConsumeOTPIssued delivers a code published by the auth module. Malformed
// and expired events are dropped. Core NATS does not redeliver, so a failed
// send is retried here with a capped Fibonacci backoff; a returned error
// means every attempt failed and the key is left in the failed state.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	if !in.ExpiresAt.IsZero() && !s.clock.Now().Before(in.ExpiresAt) {
		slog.WarnContext(ctx, "otp event expired before delivery", "subject", in.Subject, "expires_at", in.ExpiresAt)
		return nil
	}

	if in.MessageID == "" {
		return s.deliver(ctx, in)
	}

	err := s.idemp.Exec(ctx, in.MessageID, func(ctx context.Context) error {
		return s.deliver(ctx, in)
	}, idempotency.WithLockDuration(time.Minute), idempotency.WithRetryFailed())
	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.InfoContext(ctx, "duplicate otp event skipped", "message_id", in.MessageID)
		return nil
	}

	return err
}

func (s *Usecase) deliver(ctx context.Context, in ConsumeOTPIssuedInput) error {
	attempt := 0
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempt++
		if err := s.repoDelivery.Send(ctx, in.Subject, in.Code); err != nil {
			slog.WarnContext(ctx, "otp delivery attempt failed", "subject", in.Subject, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp code", "subject", in.Subject, "attempts", attempt, "error", err)
		return err
	}

	slog.InfoContext(ctx, "otp code delivered", "subject", in.Subject, "attempts", attempt)
	return nil
}
