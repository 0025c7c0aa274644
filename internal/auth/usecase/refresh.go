package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

type RefreshInput struct {
	RefreshToken string
}

type RefreshOutput struct {
	AccessToken string
}

// Refresh mints a new access token from a refresh token. Refresh tokens are
// stateless and stay valid until their own expiry.
func (s *Usecase) Refresh(ctx context.Context, in RefreshInput) (*RefreshOutput, error) {
	ctx, span := s.startSpan(ctx, "Refresh")
	defer span.End()

	if in.RefreshToken == "" {
		slog.WarnContext(ctx, "refresh token missing")
		return nil, entity.ErrUnauthorized
	}

	subject, err := s.jwt.VerifyRefresh(in.RefreshToken)
	if err != nil {
		slog.WarnContext(ctx, "refresh token rejected", "error", err)
		return nil, entity.ErrUnauthorized
	}

	access, err := s.jwt.CreateAccess(subject)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create access token", "subject", subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RefreshOutput{AccessToken: access}, nil
}
