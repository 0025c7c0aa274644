package usecase

import (
	"context"

	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

type LoginInput struct {
	Email string `validate:"required,contact"`
}

type LoginOutput struct {
	OK bool
	// Delivered is false when the code was only written to the log.
	Delivered bool
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	delivered, err := s.issueOTP(ctx, entity.NormalizeSubject(in.Email))
	if err != nil {
		return nil, err
	}

	return &LoginOutput{OK: true, Delivered: delivered}, nil
}
