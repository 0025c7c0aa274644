package inbound

import (
	"context"

	"github.com/shandysiswandi/otpauth/internal/notification/usecase"
)

type uc interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
}
