package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

// issueOTP starts a challenge for subject and hands the code to the notifier.
// A delivery failure leaves the stored challenge usable.
func (s *Usecase) issueOTP(ctx context.Context, subject string) (delivered bool, err error) {
	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return false, goerror.NewServer(err)
	}

	digest, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return false, goerror.NewServer(err)
	}

	created, err := s.repoCache.CreateChallenge(ctx, entity.Challenge{
		Subject:  subject,
		Digest:   string(digest),
		TTL:      s.otpTTL(),
		Cooldown: s.otpCooldown(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create challenge", "subject", subject, "error", err)
		return false, goerror.NewServer(err)
	}
	if !created {
		slog.WarnContext(ctx, "otp requested during cooldown", "subject", subject)
		return false, entity.ErrRateLimited
	}

	delivered, err = s.repoNotifier.Send(ctx, subject, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp code", "subject", subject, "error", err)
		return false, entity.ErrSendFailure
	}

	return delivered, nil
}

// verifyOTP consumes one attempt against the active challenge. The attempt
// budget is checked before the code, so the attempt that crosses the limit
// fails even with the right code.
func (s *Usecase) verifyOTP(ctx context.Context, subject, candidate string) error {
	digest, found, err := s.repoCache.GetChallenge(ctx, subject)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get challenge", "subject", subject, "error", err)
		return goerror.NewServer(err)
	}
	if !found {
		slog.WarnContext(ctx, "otp challenge not found", "subject", subject)
		return entity.ErrNotFound
	}

	attempts, err := s.repoCache.IncrAttempts(ctx, subject, s.otpTTL())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo incr attempts", "subject", subject, "error", err)
		return goerror.NewServer(err)
	}

	if attempts > s.otpMaxAttempts() {
		if _, err := s.repoCache.DeleteChallenge(ctx, subject); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete locked challenge", "subject", subject, "error", err)
			return goerror.NewServer(err)
		}

		slog.WarnContext(ctx, "otp challenge locked after too many attempts", "subject", subject, "attempts", attempts)
		return entity.ErrRateLimited
	}

	if !s.hmac.Verify(digest, candidate) {
		slog.WarnContext(ctx, "otp code mismatch", "subject", subject, "attempts", attempts)
		return entity.ErrInvalid
	}

	removed, err := s.repoCache.DeleteChallenge(ctx, subject)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete challenge", "subject", subject, "error", err)
		return goerror.NewServer(err)
	}
	if !removed {
		// A concurrent confirm consumed it first.
		slog.WarnContext(ctx, "otp challenge already consumed", "subject", subject)
		return entity.ErrNotFound
	}

	return nil
}
