package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

type ConfirmInput struct {
	Email string `validate:"required,contact"`
	Code  string `validate:"required,numeric,max=9"`
}

type ConfirmOutput struct {
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmOutput, error) {
	ctx, span := s.startSpan(ctx, "Confirm")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	subject := entity.NormalizeSubject(in.Email)
	if err := s.verifyOTP(ctx, subject, in.Code); err != nil {
		return nil, err
	}

	access, err := s.jwt.CreateAccess(subject)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create access token", "subject", subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	refresh, err := s.jwt.CreateRefresh(subject)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create refresh token", "subject", subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "otp login confirmed", "subject", subject)

	return &ConfirmOutput{AccessToken: access, RefreshToken: refresh}, nil
}
