package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
)

type SessionOutput struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session describes the access token attached to ctx by the auth middleware.
func (s *Usecase) Session(ctx context.Context) (*SessionOutput, error) {
	_, span := s.startSpan(ctx, "Session")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.Type != jwt.TokenAccess || clm.Subject == "" {
		return nil, entity.ErrUnauthorized
	}

	out := &SessionOutput{Subject: clm.Subject}
	if clm.IssuedAt != nil {
		out.IssuedAt = clm.IssuedAt.Time
	}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Time
	}

	return out, nil
}
